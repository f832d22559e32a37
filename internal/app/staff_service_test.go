package app

import (
	"context"
	"testing"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/notification"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

type staffFixture struct {
	service       *StaffService
	repo          *fakeApplicationRepo
	sequences     *fakeSequenceRepo
	prints        *fakePrintRecordRepo
	notifications *fakeNotificationRepo
}

func newStaffFixture() *staffFixture {
	repo := newFakeApplicationRepo()
	sequences := newFakeSequenceRepo()
	prints := newFakePrintRecordRepo()
	notifier, notifications := testNotifier()
	service := NewStaffService(repo, NewDocumentService(sequences), prints, NumberingConfig{Prefix: "DOC", Digits: 5}, notifier)
	return &staffFixture{service: service, repo: repo, sequences: sequences, prints: prints, notifications: notifications}
}

func (f *staffFixture) addApplication(t *testing.T, status application.Status) *application.Application {
	t.Helper()
	created, err := f.repo.Create(context.Background(), application.Application{
		StudentID: common.NewUUID(),
		OfferID:   common.NewUUID(),
		Status:    status,
	})
	if err != nil {
		t.Fatalf("expected application created, got %v", err)
	}
	return created
}

func TestStaffServicePrepareDocuments_BatchSharesOneNumber(t *testing.T) {
	f := newStaffFixture()
	clerk := identityWith(user.RoleStaff)
	first := f.addApplication(t, application.StatusCommitteeApproved)
	second := f.addApplication(t, application.StatusCommitteeApproved)
	documentDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	result, err := f.service.PrepareDocuments(context.Background(), clerk, []common.UUID{first.ID, second.ID}, documentDate, "batch A")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Record.Number != 1 || result.Record.FormattedNo != "DOC00001" {
		t.Fatalf("expected number 1 as DOC00001, got %d %q", result.Record.Number, result.Record.FormattedNo)
	}
	if len(result.Record.ApplicationIDs) != 2 {
		t.Fatalf("expected 2 linked applications, got %d", len(result.Record.ApplicationIDs))
	}
	if len(result.Prepared) != 2 {
		t.Fatalf("expected 2 advanced applications, got %d", len(result.Prepared))
	}
	if len(result.Failed) != 0 {
		t.Fatalf("expected no failures, got %+v", result.Failed)
	}
	for _, app := range result.Prepared {
		if app.Status != application.StatusDocumentsPrepared {
			t.Fatalf("expected documents_prepared, got %s", app.Status)
		}
		if !app.DocumentsPrepared || app.DocumentsPreparedAt == nil {
			t.Fatal("expected documents_prepared bookkeeping to be set")
		}
		if app.StaffWorkflowNotes != "batch A" {
			t.Fatalf("expected notes to be stored, got %q", app.StaffWorkflowNotes)
		}
	}
	if f.notifications.countByType(notification.TypeDocumentsPrepared) != 2 {
		t.Fatal("expected both students to be notified")
	}
}

func TestStaffServicePrepareDocuments_PartialBatchLinksOnlyAdvanced(t *testing.T) {
	f := newStaffFixture()
	clerk := identityWith(user.RoleStaff)
	winner := f.addApplication(t, application.StatusCommitteeApproved)
	loser := f.addApplication(t, application.StatusCommitteeApproved)
	f.repo.failMarkPreparedFor = loser.ID

	result, err := f.service.PrepareDocuments(context.Background(), clerk, []common.UUID{winner.ID, loser.ID}, time.Now(), "")
	if err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if len(result.Prepared) != 1 || result.Prepared[0].ID != winner.ID {
		t.Fatalf("expected only the advanced application, got %+v", result.Prepared)
	}
	if len(result.Record.ApplicationIDs) != 1 || result.Record.ApplicationIDs[0] != winner.ID {
		t.Fatalf("expected the record to link only the advanced application, got %+v", result.Record.ApplicationIDs)
	}
	if len(result.Failed) != 1 || result.Failed[0].ApplicationID != loser.ID {
		t.Fatalf("expected the lost application to be reported, got %+v", result.Failed)
	}
	if result.Failed[0].Reason == "" {
		t.Fatal("expected the failure reason to be filled in")
	}
	if f.notifications.countByType(notification.TypeDocumentsPrepared) != 1 {
		t.Fatal("expected only the advanced application's student to be notified")
	}
	// The lost application must not be reachable through the print record.
	if _, err := f.service.Reprint(context.Background(), clerk, loser.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected no print record for the lost application, got %v", err)
	}
}

func TestStaffServicePrepareDocuments_RejectsWrongStage(t *testing.T) {
	f := newStaffFixture()
	clerk := identityWith(user.RoleStaff)
	ok := f.addApplication(t, application.StatusCommitteeApproved)
	wrong := f.addApplication(t, application.StatusSubmitted)

	_, err := f.service.PrepareDocuments(context.Background(), clerk, []common.UUID{ok.ID, wrong.ID}, time.Now(), "")
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if f.sequences.next != 1 {
		t.Fatal("expected no number to be allocated when validation fails")
	}
}

func TestStaffServicePrepareDocuments_ArchivesAbandonedNumber(t *testing.T) {
	f := newStaffFixture()
	clerk := identityWith(user.RoleStaff)
	app := f.addApplication(t, application.StatusCommitteeApproved)
	f.repo.failMarkPrepared = true

	_, err := f.service.PrepareDocuments(context.Background(), clerk, []common.UUID{app.ID}, time.Now(), "")
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if len(f.sequences.archived) != 1 {
		t.Fatalf("expected 1 archived number, got %d", len(f.sequences.archived))
	}
	if f.sequences.archived[0].Number != 1 {
		t.Fatalf("expected number 1 to be archived, got %d", f.sequences.archived[0].Number)
	}
	// The counter never moves back: the next batch gets a fresh number.
	if f.sequences.next != 2 {
		t.Fatalf("expected counter at 2, got %d", f.sequences.next)
	}
}

func TestStaffServiceReprint_ReturnsLatestWithoutAllocating(t *testing.T) {
	f := newStaffFixture()
	clerk := identityWith(user.RoleStaff)
	app := f.addApplication(t, application.StatusCommitteeApproved)

	result, err := f.service.PrepareDocuments(context.Background(), clerk, []common.UUID{app.ID}, time.Now(), "")
	if err != nil {
		t.Fatalf("expected prepare to succeed, got %v", err)
	}
	record := result.Record
	before := f.sequences.next

	reprinted, err := f.service.Reprint(context.Background(), clerk, app.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if reprinted.ID != record.ID || reprinted.FormattedNo != record.FormattedNo {
		t.Fatal("expected the original print record back")
	}
	if f.sequences.next != before {
		t.Fatal("expected reprint to allocate nothing")
	}
}

func TestStaffServiceReprint_NotFoundWithoutRecord(t *testing.T) {
	f := newStaffFixture()
	_, err := f.service.Reprint(context.Background(), identityWith(user.RoleStaff), common.NewUUID())
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestStaffServiceSendToCompany_AdvancesAndAppendsNotes(t *testing.T) {
	f := newStaffFixture()
	clerk := identityWith(user.RoleStaff)
	app := f.addApplication(t, application.StatusDocumentsPrepared)

	updated, err := f.service.SendToCompany(context.Background(), clerk, app.ID, "sent by registered mail")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Status != application.StatusAwaitingExternalResponse {
		t.Fatalf("expected awaiting_external_response, got %s", updated.Status)
	}
	if updated.StaffWorkflowNotes != "sent by registered mail" {
		t.Fatalf("expected notes to be appended, got %q", updated.StaffWorkflowNotes)
	}
}

func TestStaffServiceRecordCompanyAcceptance_Notifies(t *testing.T) {
	f := newStaffFixture()
	clerk := identityWith(user.RoleStaff)
	app := f.addApplication(t, application.StatusAwaitingExternalResponse)

	updated, err := f.service.RecordCompanyAcceptance(context.Background(), clerk, app.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Status != application.StatusCompanyAccepted {
		t.Fatalf("expected company_accepted, got %s", updated.Status)
	}
	if f.notifications.countByType(notification.TypeCompanyAccepted) != 1 {
		t.Fatal("expected the student to be notified")
	}
}

func TestStaffServiceAdvance_WrongStateConflicts(t *testing.T) {
	f := newStaffFixture()
	clerk := identityWith(user.RoleStaff)
	app := f.addApplication(t, application.StatusSubmitted)

	_, err := f.service.SendToCompany(context.Background(), clerk, app.ID, "")
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	after, _ := f.repo.GetByID(context.Background(), app.ID)
	if after.Status != application.StatusSubmitted {
		t.Fatalf("expected status unchanged, got %s", after.Status)
	}
}

func TestStaffServiceAdvance_RequiresStaffRole(t *testing.T) {
	f := newStaffFixture()
	app := f.addApplication(t, application.StatusDocumentsPrepared)

	_, err := f.service.SendToCompany(context.Background(), identityWith(user.RoleStudent), app.ID, "")
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestStaffServiceClose_CompletesWorkflow(t *testing.T) {
	f := newStaffFixture()
	clerk := identityWith(user.RoleStaff)
	app := f.addApplication(t, application.StatusInternshipCompleted)

	closed, err := f.service.Close(context.Background(), clerk, app.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if closed.Status != application.StatusCompleted {
		t.Fatalf("expected completed, got %s", closed.Status)
	}
}
