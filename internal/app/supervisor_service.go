package app

import (
	"context"
	"strings"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/notification"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/supervision"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

// SupervisorService is the field-supervisor stage: receive the assignment
// made by the instructor, confirm it, schedule on-site appointments and file
// their reports, and sign off the internship at the end.
type SupervisorService struct {
	repo         application.Repository
	assignments  supervision.AssignmentRepository
	appointments supervision.AppointmentRepository
	reports      supervision.WeeklyReportRepository
	notifier     *Notifier
}

func NewSupervisorService(repo application.Repository, assignments supervision.AssignmentRepository, appointments supervision.AppointmentRepository, reports supervision.WeeklyReportRepository, notifier *Notifier) *SupervisorService {
	return &SupervisorService{repo: repo, assignments: assignments, appointments: appointments, reports: reports, notifier: notifier}
}

func (s *SupervisorService) ListAssigned(ctx context.Context, identity user.Identity) ([]application.Application, error) {
	if !identity.Has(user.RoleSupervisor) {
		return nil, common.NewError(common.CodeForbidden, "role is not allowed to perform this action", nil)
	}
	return s.repo.ListBySupervisor(ctx, identity.UserID)
}

// ConfirmAssignment records the supervisor's acceptance of an application
// assigned to them. Confirming an already confirmed assignment is an
// idempotent overwrite.
func (s *SupervisorService) ConfirmAssignment(ctx context.Context, identity user.Identity, applicationID common.UUID) (*supervision.Assignment, error) {
	app, err := s.requireOwnAssignment(ctx, identity, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.CommitteeApproved {
		return nil, common.NewError(common.CodeConflict, "application has not cleared the committee yet", nil)
	}
	return s.assignments.Confirm(ctx, supervision.Assignment{
		ApplicationID: applicationID,
		SupervisorID:  identity.UserID,
	})
}

func (s *SupervisorService) ScheduleAppointment(ctx context.Context, identity user.Identity, applicationID common.UUID, scheduledAt time.Time, location string) (*supervision.Appointment, error) {
	if scheduledAt.IsZero() {
		return nil, common.NewValidationError("invalid request", map[string]string{"scheduled_at": "scheduled_at is required"})
	}
	if strings.TrimSpace(location) == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"location": "location is required"})
	}
	app, err := s.requireOwnAssignment(ctx, identity, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != application.StatusInternshipStarted && app.Status != application.StatusInternshipOngoing {
		return nil, common.NewError(common.CodeConflict, "internship is not in progress", nil)
	}
	if _, err := s.assignments.GetByApplication(ctx, applicationID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeConflict, "assignment has not been confirmed", nil)
		}
		return nil, err
	}
	created, err := s.appointments.Create(ctx, supervision.Appointment{
		ApplicationID: applicationID,
		SupervisorID:  identity.UserID,
		ScheduledAt:   scheduledAt.UTC(),
		Location:      strings.TrimSpace(location),
		Status:        supervision.AppointmentScheduled,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, app.StudentID, notification.TypeAppointmentScheduled,
		"Supervision visit scheduled", "Your supervisor scheduled a visit at "+created.Location+".")
	return created, nil
}

// CompleteAppointment files the visit report. Only the appointment's own
// supervisor may complete it, and the report must not be empty.
func (s *SupervisorService) CompleteAppointment(ctx context.Context, identity user.Identity, appointmentID common.UUID, report string) (*supervision.Appointment, error) {
	if strings.TrimSpace(report) == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"report": "report content is required"})
	}
	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !identity.Has(user.RoleSupervisor) || appt.SupervisorID != identity.UserID {
		return nil, common.NewError(common.CodeForbidden, "appointment belongs to another supervisor", nil)
	}
	if appt.Status == supervision.AppointmentCompleted {
		return nil, common.NewError(common.CodeConflict, "appointment is already completed", nil)
	}
	return s.appointments.Complete(ctx, appointmentID, strings.TrimSpace(report), time.Now().UTC())
}

func (s *SupervisorService) ListAppointments(ctx context.Context, identity user.Identity, applicationID common.UUID) ([]supervision.Appointment, error) {
	if _, err := s.requireOwnAssignment(ctx, identity, applicationID); err != nil {
		return nil, err
	}
	return s.appointments.ListByApplication(ctx, applicationID)
}

// ListWeeklyReports exposes the student's weekly reports as read-only
// context for the supervisor.
func (s *SupervisorService) ListWeeklyReports(ctx context.Context, identity user.Identity, applicationID common.UUID) ([]supervision.WeeklyReport, error) {
	if _, err := s.requireOwnAssignment(ctx, identity, applicationID); err != nil {
		return nil, err
	}
	return s.reports.ListByApplication(ctx, applicationID)
}

// CompleteInternship is the supervisor's sign-off: internship_ongoing →
// internship_completed.
func (s *SupervisorService) CompleteInternship(ctx context.Context, identity user.Identity, applicationID common.UUID) (*application.Application, error) {
	app, err := s.requireOwnAssignment(ctx, identity, applicationID)
	if err != nil {
		return nil, err
	}
	rule, err := application.Authorize(application.ActionCompleteInternship, identity, app.Status)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateStatusFrom(ctx, applicationID, app.Status, rule.To, "")
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, updated.StudentID, notification.TypeInternshipCompleted,
		"Internship completed", "Your supervisor marked the internship as completed.")
	return updated, nil
}

func (s *SupervisorService) requireOwnAssignment(ctx context.Context, identity user.Identity, applicationID common.UUID) (*application.Application, error) {
	if !identity.Has(user.RoleSupervisor) {
		return nil, common.NewError(common.CodeForbidden, "role is not allowed to perform this action", nil)
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.SupervisorID == nil || *app.SupervisorID != identity.UserID {
		return nil, common.NewError(common.CodeForbidden, "application is supervised by someone else", nil)
	}
	return app, nil
}
