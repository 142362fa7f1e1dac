package domain

import (
	"encoding/json"
	"time"
)

// EmployeeAssignment joins an employee to a ticket for one date. Rows for a
// ticket are replaced wholesale on update.
type EmployeeAssignment struct {
	ID             string
	TicketID       string
	EmployeeID     string
	AssignmentDate time.Time
	IsKey          bool
	CreatedAt      time.Time
}

// EmployeeRef is the dual-shape employee reference accepted at the boundary:
// either a bare id string ("e1") or an object ({"id":"e1","is_key":true}).
// A bare id means not-key.
type EmployeeRef struct {
	ID    string `json:"id"`
	IsKey bool   `json:"is_key"`
}

// UnmarshalJSON accepts both the string and the object form.
func (r *EmployeeRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		r.IsKey = false
		return nil
	}
	type alias EmployeeRef
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = EmployeeRef(obj)
	return nil
}

// NormalizeEmployeeRefs collapses duplicate ids keeping the first
// occurrence's is_key flag and dropping empty ids.
func NormalizeEmployeeRefs(refs []EmployeeRef) []EmployeeRef {
	seen := make(map[string]struct{}, len(refs))
	out := make([]EmployeeRef, 0, len(refs))
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		if _, dup := seen[ref.ID]; dup {
			continue
		}
		seen[ref.ID] = struct{}{}
		out = append(out, ref)
	}
	return out
}

// EmployeeIDs projects the id list from a normalized ref slice.
func EmployeeIDs(refs []EmployeeRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}
