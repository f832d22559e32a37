package app

import (
	"context"
	"strings"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/document"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/notification"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

// NumberingConfig carries the document-number formatting knobs.
type NumberingConfig struct {
	Prefix string
	Suffix string
	Digits int
}

// StaffService is the administrative stage: a strict linear pipeline from
// committee approval through document preparation and dispatch to the
// external organization, plus closing the file at the very end.
type StaffService struct {
	repo      application.Repository
	documents *DocumentService
	prints    document.PrintRecordRepository
	numbering NumberingConfig
	notifier  *Notifier
}

func NewStaffService(repo application.Repository, documents *DocumentService, prints document.PrintRecordRepository, numbering NumberingConfig, notifier *Notifier) *StaffService {
	return &StaffService{repo: repo, documents: documents, prints: prints, numbering: numbering, notifier: notifier}
}

func (s *StaffService) ListByStatus(ctx context.Context, identity user.Identity, status application.Status) ([]application.Application, error) {
	if !identity.Has(user.RoleStaff) {
		return nil, common.NewError(common.CodeForbidden, "role is not allowed to perform this action", nil)
	}
	return s.repo.ListByStatus(ctx, status)
}

// PrepareFailure reports one application of a print batch that could not be
// advanced, typically because a concurrent actor moved it first.
type PrepareFailure struct {
	ApplicationID common.UUID `json:"application_id"`
	Reason        string      `json:"reason"`
}

type PrepareDocumentsResult struct {
	Record   *document.PrintRecord     `json:"print_record"`
	Prepared []application.Application `json:"applications"`
	Failed   []PrepareFailure          `json:"failed,omitempty"`
}

// PrepareDocuments allocates one document number for a batch of
// committee-approved applications, advances each and records the print
// batch. The print record links only the applications that were actually
// advanced; the rest are reported in Failed. If no application could be
// advanced the allocated number is archived so it is not left dangling as
// live.
func (s *StaffService) PrepareDocuments(ctx context.Context, identity user.Identity, applicationIDs []common.UUID, documentDate time.Time, notes string) (*PrepareDocumentsResult, error) {
	if len(applicationIDs) == 0 {
		return nil, common.NewValidationError("invalid request", map[string]string{"application_ids": "at least one application is required"})
	}
	if documentDate.IsZero() {
		return nil, common.NewValidationError("invalid request", map[string]string{"document_date": "document_date is required"})
	}

	for _, id := range applicationIDs {
		app, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if _, err := application.Authorize(application.ActionPrepareDocuments, identity, app.Status); err != nil {
			return nil, err
		}
	}

	number, formatted, err := s.documents.Allocate(ctx, s.numbering.Prefix, s.numbering.Suffix, s.numbering.Digits)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var prepared []application.Application
	preparedIDs := make([]common.UUID, 0, len(applicationIDs))
	var failed []PrepareFailure
	var lastErr error
	for _, id := range applicationIDs {
		app, err := s.repo.MarkDocumentsPrepared(ctx, id, notes, now)
		if err != nil {
			failed = append(failed, PrepareFailure{ApplicationID: id, Reason: err.Error()})
			lastErr = err
			continue
		}
		prepared = append(prepared, *app)
		preparedIDs = append(preparedIDs, id)
	}
	if len(prepared) == 0 {
		_ = s.documents.ArchiveVoided(ctx, number, "print batch abandoned: no application could be advanced")
		if lastErr == nil {
			lastErr = common.NewError(common.CodeConflict, "no application could be advanced", nil)
		}
		return nil, lastErr
	}

	record, err := s.prints.Create(ctx, document.PrintRecord{
		Number:         number,
		FormattedNo:    formatted,
		DocumentDate:   documentDate,
		ApplicationIDs: preparedIDs,
		CreatedBy:      identity.UserID,
	})
	if err != nil {
		return nil, err
	}
	for _, app := range prepared {
		s.notifier.Notify(ctx, app.StudentID, notification.TypeDocumentsPrepared,
			"Documents prepared", "Placement documents were prepared under number "+formatted+".")
	}
	return &PrepareDocumentsResult{Record: record, Prepared: prepared, Failed: failed}, nil
}

// Reprint returns the most recent print record for an application; it never
// allocates a new number.
func (s *StaffService) Reprint(ctx context.Context, identity user.Identity, applicationID common.UUID) (*document.PrintRecord, error) {
	if !identity.Has(user.RoleStaff) {
		return nil, common.NewError(common.CodeForbidden, "role is not allowed to perform this action", nil)
	}
	return s.prints.GetLatestByApplication(ctx, applicationID)
}

func (s *StaffService) SendToCompany(ctx context.Context, identity user.Identity, applicationID common.UUID, notes string) (*application.Application, error) {
	return s.advance(ctx, identity, applicationID, application.ActionSendToCompany, notes)
}

func (s *StaffService) RecordCompanyAcceptance(ctx context.Context, identity user.Identity, applicationID common.UUID) (*application.Application, error) {
	updated, err := s.advance(ctx, identity, applicationID, application.ActionCompanyAccept, "")
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, updated.StudentID, notification.TypeCompanyAccepted,
		"Company accepted", "The company accepted your placement. You can now start the internship.")
	return updated, nil
}

func (s *StaffService) MarkOngoing(ctx context.Context, identity user.Identity, applicationID common.UUID) (*application.Application, error) {
	return s.advance(ctx, identity, applicationID, application.ActionMarkOngoing, "")
}

func (s *StaffService) Close(ctx context.Context, identity user.Identity, applicationID common.UUID) (*application.Application, error) {
	return s.advance(ctx, identity, applicationID, application.ActionClose, "")
}

func (s *StaffService) advance(ctx context.Context, identity user.Identity, applicationID common.UUID, action application.Action, notes string) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	rule, err := application.Authorize(action, identity, app.Status)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateStatusFrom(ctx, applicationID, app.Status, rule.To, strings.TrimSpace(notes))
}
