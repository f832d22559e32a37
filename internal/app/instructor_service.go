package app

import (
	"context"
	"strings"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/notification"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

// InstructorService is the course-instructor stage: claim an unassigned
// application, then approve it (handing off a field supervisor) or reject it
// with a mandatory note.
type InstructorService struct {
	repo     application.Repository
	notifier *Notifier
}

func NewInstructorService(repo application.Repository, notifier *Notifier) *InstructorService {
	return &InstructorService{repo: repo, notifier: notifier}
}

func (s *InstructorService) ListUnclaimed(ctx context.Context, identity user.Identity) ([]application.Application, error) {
	if !identity.Has(user.RoleCourseInstructor) {
		return nil, common.NewError(common.CodeForbidden, "role is not allowed to perform this action", nil)
	}
	return s.repo.ListByStatus(ctx, application.StatusSubmitted)
}

// Claim takes exclusive ownership of a submitted application. The repository
// enforces both the status guard and the null-instructor guard in one write,
// so two instructors cannot claim the same application.
func (s *InstructorService) Claim(ctx context.Context, identity user.Identity, applicationID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := application.Authorize(application.ActionClaim, identity, app.Status); err != nil {
		return nil, err
	}
	if app.CourseInstructorID != nil {
		return nil, common.NewError(common.CodeConflict, "application is already claimed", nil)
	}
	claimed, err := s.repo.Claim(ctx, applicationID, identity.UserID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, claimed.StudentID, notification.TypeApplicationClaimed,
		"Application under review", "A course instructor is reviewing your application.")
	return claimed, nil
}

// Approve hands the application to the committee and assigns the field
// supervisor. The supervisor is set exactly once; reassignment is not a
// supported operation.
func (s *InstructorService) Approve(ctx context.Context, identity user.Identity, applicationID, supervisorID common.UUID) (*application.Application, error) {
	if supervisorID.IsZero() {
		return nil, common.NewValidationError("invalid request", map[string]string{"supervisor_id": "supervisor_id is required"})
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := application.Authorize(application.ActionApprove, identity, app.Status); err != nil {
		return nil, err
	}
	if err := s.requireOwnership(app, identity); err != nil {
		return nil, err
	}
	if app.SupervisorAssigned {
		return nil, common.NewError(common.CodeConflict, "supervisor is already assigned", nil)
	}
	approved, err := s.repo.ApproveByInstructor(ctx, applicationID, supervisorID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, approved.StudentID, notification.TypeApplicationApproved,
		"Application approved by instructor", "Your application moved on to the review committee.")
	return approved, nil
}

// Reject is terminal and requires a non-empty note.
func (s *InstructorService) Reject(ctx context.Context, identity user.Identity, applicationID common.UUID, note string) (*application.Application, error) {
	if strings.TrimSpace(note) == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"note": "a rejection note is required"})
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := application.Authorize(application.ActionReject, identity, app.Status); err != nil {
		return nil, err
	}
	if err := s.requireOwnership(app, identity); err != nil {
		return nil, err
	}
	rejected, err := s.repo.RejectByInstructor(ctx, applicationID, strings.TrimSpace(note))
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, rejected.StudentID, notification.TypeApplicationRejected,
		"Application rejected", rejected.Feedback)
	return rejected, nil
}

func (s *InstructorService) requireOwnership(app *application.Application, identity user.Identity) error {
	if app.CourseInstructorID == nil || *app.CourseInstructorID != identity.UserID {
		return common.NewError(common.CodeForbidden, "application is claimed by another instructor", nil)
	}
	return nil
}
