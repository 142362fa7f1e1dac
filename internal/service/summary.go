package service

import (
	"fmt"
	"strings"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// buildTicketSummary renders a one-paragraph natural-language summary from
// the resolved ticket context. Best-effort enrichment only; callers never
// fail an operation because no summary could be built.
func buildTicketSummary(detail *domain.TicketDetail, location *domain.LocationRecord) string {
	var b strings.Builder

	if detail.WorkType != nil {
		b.WriteString(detail.WorkType.Name)
	} else {
		b.WriteString("Work order")
	}
	if detail.Status != nil {
		fmt.Fprintf(&b, " (%s)", detail.Status.Name)
	}

	if detail.Company != nil {
		fmt.Fprintf(&b, " for %s", detail.Company.Name)
	}
	if detail.Site != nil {
		fmt.Fprintf(&b, " at %s", detail.Site.Name)
		if location != nil && location.Display != "" {
			fmt.Fprintf(&b, " (%s)", location.Display)
		}
	}
	if detail.Contact != nil && detail.Contact.Name != "" {
		fmt.Fprintf(&b, ", contact %s", detail.Contact.Name)
		if detail.Contact.Phone != "" {
			fmt.Fprintf(&b, " (%s)", detail.Contact.Phone)
		}
	}

	if appt := detail.Appointment; appt != nil && appt.Date != nil {
		fmt.Fprintf(&b, ". Scheduled %s", appt.Date.Format(domain.DateOnly))
		if appt.TimeStart != nil && appt.TimeEnd != nil {
			fmt.Fprintf(&b, " %s-%s", *appt.TimeStart, *appt.TimeEnd)
		}
	}

	if len(detail.Employees) > 0 {
		names := make([]string, 0, len(detail.Employees))
		for _, assigned := range detail.Employees {
			name := assigned.Employee.Name
			if name == "" {
				name = assigned.Employee.ID
			}
			if assigned.IsKey {
				name += " (key)"
			}
			names = append(names, name)
		}
		fmt.Fprintf(&b, ". Technicians: %s", strings.Join(names, ", "))
	}

	if len(detail.Merchandise) > 0 {
		items := make([]string, 0, len(detail.Merchandise))
		for _, linked := range detail.Merchandise {
			item := linked.Merchandise.Model
			if linked.Merchandise.Brand != "" {
				item = linked.Merchandise.Brand + " " + item
			}
			if linked.Merchandise.Capacity != "" {
				item += " " + linked.Merchandise.Capacity
			}
			items = append(items, strings.TrimSpace(item))
		}
		fmt.Fprintf(&b, ". Equipment: %s", strings.Join(items, ", "))
	}

	if detail.WorkGiver != nil {
		fmt.Fprintf(&b, ". Commissioned by %s", detail.WorkGiver.Name)
	}

	if detail.Assigner != nil {
		fmt.Fprintf(&b, ". Assigned by %s", detail.Assigner.Name)
	}

	return b.String()
}
