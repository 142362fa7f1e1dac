package domain

import "time"

// AppointmentType enumerates scheduling modes for a visit window.
type AppointmentType string

const (
	AppointmentCallToSchedule AppointmentType = "CALL_TO_SCHEDULE"
	AppointmentScheduled      AppointmentType = "SCHEDULED"
	AppointmentHalfMorning    AppointmentType = "HALF_MORNING"
	AppointmentHalfAfternoon  AppointmentType = "HALF_AFTERNOON"
	AppointmentFullDay        AppointmentType = "FULL_DAY"
	AppointmentBacklog        AppointmentType = "BACKLOG"
)

// Appointment is the visit window owned 0..1 by a ticket. Time fields use
// "HH:MM" wall-clock strings; Date is nil while the visit is unscheduled.
type Appointment struct {
	ID         string
	Date       *time.Time
	TimeStart  *string
	TimeEnd    *string
	Type       AppointmentType
	IsApproved bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DateOnly is the canonical date layout used for appointment and
// assignment dates throughout the service.
const DateOnly = "2006-01-02"
