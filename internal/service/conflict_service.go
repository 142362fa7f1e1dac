package service

import (
	"context"
	"time"

	"github.com/loongallday/pdeservice-spb-sub004/internal/repository"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

// ConflictService reports which employees already have an overlapping
// appointment for a window. The check is advisory; the orchestrator does
// not block assignment on conflicts.
type ConflictService struct {
	appointments repository.AppointmentRepository
}

// NewConflictService creates the service.
func NewConflictService(appointments repository.AppointmentRepository) *ConflictService {
	return &ConflictService{appointments: appointments}
}

// CheckConflicts returns the subset of employeeIDs with an overlapping
// existing appointment. Without a date there is nothing to overlap with, so
// the result is empty.
func (s *ConflictService) CheckConflicts(ctx context.Context, employeeIDs []string, date *time.Time, timeStart, timeEnd *string, excludeTicketID *string) ([]string, error) {
	if date == nil || len(employeeIDs) == 0 {
		return []string{}, nil
	}
	ids, err := s.appointments.FindConflicts(ctx, repository.ConflictQuery{
		EmployeeIDs:     employeeIDs,
		Date:            *date,
		TimeStart:       timeStart,
		TimeEnd:         timeEnd,
		ExcludeTicketID: excludeTicketID,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
