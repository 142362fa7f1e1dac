package service

import (
	"sort"
	"strings"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// ticketDiff accumulates field-level changes for one audit entry. Only keys
// whose value actually changed are recorded.
type ticketDiff struct {
	fields    []string
	oldValues map[string]any
	newValues map[string]any
}

func newTicketDiff() *ticketDiff {
	return &ticketDiff{
		oldValues: map[string]any{},
		newValues: map[string]any{},
	}
}

func (d *ticketDiff) add(field string, oldValue, newValue any) {
	d.fields = append(d.fields, field)
	d.oldValues[field] = oldValue
	d.newValues[field] = newValue
}

func (d *ticketDiff) compareString(field, oldValue, newValue string) {
	if oldValue != newValue {
		d.add(field, oldValue, newValue)
	}
}

func (d *ticketDiff) comparePtr(field string, oldValue, newValue *string) {
	if !equalPtr(oldValue, newValue) {
		d.add(field, deref(oldValue), deref(newValue))
	}
}

func (d *ticketDiff) empty() bool {
	return len(d.fields) == 0
}

// appointmentRelated reports whether any change touches the appointment:
// the link itself or any dotted appointment.<field> path.
func (d *ticketDiff) appointmentRelated() bool {
	for _, field := range d.fields {
		if field == "appointment_id" || strings.HasPrefix(field, "appointment.") {
			return true
		}
	}
	return false
}

// diffAppointment records dotted-path changes between two appointment states.
func (d *ticketDiff) diffAppointment(oldAppt, newAppt *domain.Appointment) {
	oldDate, newDate := formatDate(oldAppt), formatDate(newAppt)
	if oldDate != newDate {
		d.add("appointment.appointment_date", oldDate, newDate)
	}
	d.comparePtr("appointment.appointment_time_start", oldAppt.TimeStart, newAppt.TimeStart)
	d.comparePtr("appointment.appointment_time_end", oldAppt.TimeEnd, newAppt.TimeEnd)
	if oldAppt.Type != newAppt.Type {
		d.add("appointment.appointment_type", string(oldAppt.Type), string(newAppt.Type))
	}
}

func formatDate(appt *domain.Appointment) string {
	if appt == nil || appt.Date == nil {
		return ""
	}
	return appt.Date.Format(domain.DateOnly)
}

// equalIDSets compares two id lists ignoring order.
func equalIDSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string{}, a...)
	bs := append([]string{}, b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
