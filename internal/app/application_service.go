package app

import (
	"context"
	"strings"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/notification"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/offer"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/supervision"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

// ApplicationService covers student intake and the post-approval lifecycle:
// submitting an application, starting the internship once the company has
// accepted, and the weekly-report progression to internship_ongoing.
type ApplicationService struct {
	repo     application.Repository
	offers   offer.Repository
	reports  supervision.WeeklyReportRepository
	notifier *Notifier
}

func NewApplicationService(repo application.Repository, offers offer.Repository, reports supervision.WeeklyReportRepository, notifier *Notifier) *ApplicationService {
	return &ApplicationService{repo: repo, offers: offers, reports: reports, notifier: notifier}
}

// Submit validates eligibility and creates the application in its initial
// state: the offer must be open and the student must not already hold an
// active application for it.
func (s *ApplicationService) Submit(ctx context.Context, identity user.Identity, offerID common.UUID) (*application.Application, error) {
	if !identity.Has(user.RoleStudent) {
		return nil, common.NewError(common.CodeForbidden, "only students submit applications", nil)
	}
	off, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if off.Status != offer.StatusOpen {
		return nil, common.NewError(common.CodeValidation, "offer is not open for applications", nil)
	}
	if existing, err := s.repo.FindActiveByOfferAndStudent(ctx, offerID, identity.UserID); err == nil && existing != nil {
		return nil, common.NewError(common.CodeConflict, "an active application for this offer already exists", nil)
	} else if err != nil && !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	created, err := s.repo.Create(ctx, application.Application{
		StudentID: identity.UserID,
		OfferID:   offerID,
		Status:    application.StatusSubmitted,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ApplicationService) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

// StartInternship moves company_accepted to internship_started with the
// student-supplied start date and notifies the assigned supervisor.
func (s *ApplicationService) StartInternship(ctx context.Context, identity user.Identity, applicationID common.UUID, startDate time.Time) (*application.Application, error) {
	if startDate.IsZero() {
		return nil, common.NewValidationError("invalid request", map[string]string{"start_date": "start_date is required"})
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := application.Authorize(application.ActionStartInternship, identity, app.Status); err != nil {
		return nil, err
	}
	if app.StudentID != identity.UserID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another student", nil)
	}
	updated, err := s.repo.StartInternship(ctx, applicationID, startDate.UTC())
	if err != nil {
		return nil, err
	}
	if updated.SupervisorID != nil {
		s.notifier.Notify(ctx, *updated.SupervisorID, notification.TypeInternshipStarted,
			"Internship started", "An internship under your supervision has started.")
	}
	return updated, nil
}

// SubmitWeeklyReport stores the student's report and, on the first report,
// advances internship_started to internship_ongoing. A concurrent
// progression is fine: the transition conflict is swallowed because the
// report itself was stored.
func (s *ApplicationService) SubmitWeeklyReport(ctx context.Context, identity user.Identity, applicationID common.UUID, weekNumber int, content string) (*supervision.WeeklyReport, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"content": "content is required"})
	}
	if weekNumber < 1 {
		return nil, common.NewValidationError("invalid request", map[string]string{"week_number": "week_number must be positive"})
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.StudentID != identity.UserID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another student", nil)
	}
	if app.Status != application.StatusInternshipStarted && app.Status != application.StatusInternshipOngoing {
		return nil, common.NewError(common.CodeConflict, "internship is not in progress", nil)
	}
	report, err := s.reports.Create(ctx, supervision.WeeklyReport{
		ApplicationID: applicationID,
		WeekNumber:    weekNumber,
		Content:       content,
	})
	if err != nil {
		return nil, err
	}
	if app.Status == application.StatusInternshipStarted {
		if _, err := s.repo.UpdateStatusFrom(ctx, applicationID, application.StatusInternshipStarted, application.StatusInternshipOngoing, ""); err != nil && !common.Is(err, common.CodeConflict) {
			return nil, err
		}
	}
	return report, nil
}
