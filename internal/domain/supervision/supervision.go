package supervision

import (
	"context"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// Assignment is the supervisor's acknowledgement of an application handed to
// them by the course instructor. One per application; confirming twice is a
// no-op overwrite.
type Assignment struct {
	ID            common.UUID `json:"id"`
	ApplicationID common.UUID `json:"application_id"`
	SupervisorID  common.UUID `json:"supervisor_id"`
	ConfirmedAt   time.Time   `json:"confirmed_at"`
}

type Appointment struct {
	ID            common.UUID       `json:"id"`
	ApplicationID common.UUID       `json:"application_id"`
	SupervisorID  common.UUID       `json:"supervisor_id"`
	ScheduledAt   time.Time         `json:"scheduled_at"`
	Location      string            `json:"location"`
	Status        AppointmentStatus `json:"status"`
	Report        string            `json:"report,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// WeeklyReport is written by the student during the internship and consumed
// here as read-only context for supervision visits.
type WeeklyReport struct {
	ID            common.UUID `json:"id"`
	ApplicationID common.UUID `json:"application_id"`
	WeekNumber    int         `json:"week_number"`
	Content       string      `json:"content"`
	SubmittedAt   time.Time   `json:"submitted_at"`
}

type AssignmentRepository interface {
	Confirm(ctx context.Context, assignment Assignment) (*Assignment, error)
	GetByApplication(ctx context.Context, applicationID common.UUID) (*Assignment, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id common.UUID) (*Appointment, error)
	ListByApplication(ctx context.Context, applicationID common.UUID) ([]Appointment, error)
	Complete(ctx context.Context, id common.UUID, report string, at time.Time) (*Appointment, error)
}

type WeeklyReportRepository interface {
	Create(ctx context.Context, report WeeklyReport) (*WeeklyReport, error)
	ListByApplication(ctx context.Context, applicationID common.UUID) ([]WeeklyReport, error)
}
