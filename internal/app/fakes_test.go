package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/committee"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/document"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/notification"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/offer"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/supervision"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

func identityWith(role user.Role) user.Identity {
	return user.Identity{UserID: common.NewUUID(), Roles: []user.Role{role}, Active: role}
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[common.UUID]*application.Application

	failMarkPrepared    bool
	failMarkPreparedFor common.UUID

	interceptCommitteeOutcome func(*application.Application)
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[common.UUID]*application.Application)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	stored := app
	r.apps[app.ID] = &stored
	return copyApp(&stored), nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(id)
}

func (r *fakeApplicationRepo) getLocked(id common.UUID) (*application.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return copyApp(app), nil
}

func (r *fakeApplicationRepo) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	return r.listWhere(func(a *application.Application) bool { return a.StudentID == studentID })
}

func (r *fakeApplicationRepo) ListByStatus(ctx context.Context, status application.Status) ([]application.Application, error) {
	return r.listWhere(func(a *application.Application) bool { return a.Status == status })
}

func (r *fakeApplicationRepo) ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]application.Application, error) {
	return r.listWhere(func(a *application.Application) bool {
		return a.SupervisorID != nil && *a.SupervisorID == supervisorID
	})
}

func (r *fakeApplicationRepo) listWhere(match func(*application.Application) bool) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.apps {
		if match(app) {
			items = append(items, *copyApp(app))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *fakeApplicationRepo) FindActiveByOfferAndStudent(ctx context.Context, offerID, studentID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.OfferID == offerID && app.StudentID == studentID && app.Status.IsActive() {
			return copyApp(app), nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) Claim(ctx context.Context, id, instructorID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.Status != application.StatusSubmitted || app.CourseInstructorID != nil {
		return nil, common.NewError(common.CodeConflict, "application was claimed by someone else", nil)
	}
	app.Status = application.StatusCourseInstructorPending
	app.CourseInstructorID = &instructorID
	app.UpdatedAt = time.Now().UTC()
	return copyApp(app), nil
}

func (r *fakeApplicationRepo) ApproveByInstructor(ctx context.Context, id, supervisorID common.UUID, at time.Time) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.Status != application.StatusCourseInstructorPending || app.SupervisorAssigned {
		return nil, common.NewError(common.CodeConflict, "application status changed", nil)
	}
	app.Status = application.StatusCourseInstructorApproved
	app.SupervisorID = &supervisorID
	app.SupervisorAssigned = true
	app.SupervisorAssignedAt = &at
	app.UpdatedAt = at
	return copyApp(app), nil
}

func (r *fakeApplicationRepo) RejectByInstructor(ctx context.Context, id common.UUID, note string) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.Status != application.StatusCourseInstructorPending {
		return nil, common.NewError(common.CodeConflict, "application status changed", nil)
	}
	app.Status = application.StatusCourseInstructorRejected
	app.Feedback = note
	app.UpdatedAt = time.Now().UTC()
	return copyApp(app), nil
}

func (r *fakeApplicationRepo) SetCommitteeOutcome(ctx context.Context, id common.UUID, from, to application.Status, approved bool, approvedAt *time.Time) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if hook := r.interceptCommitteeOutcome; hook != nil {
		r.interceptCommitteeOutcome = nil
		hook(app)
	}
	if app.Status != from {
		return nil, common.NewError(common.CodeConflict, "application status changed", nil)
	}
	app.Status = to
	app.CommitteeApproved = approved
	app.CommitteeApprovedAt = approvedAt
	app.UpdatedAt = time.Now().UTC()
	return copyApp(app), nil
}

func (r *fakeApplicationRepo) MarkDocumentsPrepared(ctx context.Context, id common.UUID, notes string, at time.Time) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if r.failMarkPrepared || id == r.failMarkPreparedFor || app.Status != application.StatusCommitteeApproved {
		return nil, common.NewError(common.CodeConflict, "application status changed", nil)
	}
	app.Status = application.StatusDocumentsPrepared
	app.DocumentsPrepared = true
	app.DocumentsPreparedAt = &at
	appendNotes(app, notes)
	app.UpdatedAt = at
	return copyApp(app), nil
}

func (r *fakeApplicationRepo) UpdateStatusFrom(ctx context.Context, id common.UUID, from, to application.Status, notes string) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.Status != from {
		return nil, common.NewError(common.CodeConflict, "application status changed", nil)
	}
	app.Status = to
	appendNotes(app, notes)
	app.UpdatedAt = time.Now().UTC()
	return copyApp(app), nil
}

func (r *fakeApplicationRepo) StartInternship(ctx context.Context, id common.UUID, startDate time.Time) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.Status != application.StatusCompanyAccepted {
		return nil, common.NewError(common.CodeConflict, "application status changed", nil)
	}
	app.Status = application.StatusInternshipStarted
	app.InternshipStartDate = &startDate
	app.UpdatedAt = time.Now().UTC()
	return copyApp(app), nil
}

func appendNotes(app *application.Application, notes string) {
	if notes == "" {
		return
	}
	if app.StaffWorkflowNotes == "" {
		app.StaffWorkflowNotes = notes
		return
	}
	app.StaffWorkflowNotes += "\n" + notes
}

func copyApp(app *application.Application) *application.Application {
	clone := *app
	return &clone
}

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[common.UUID]*offer.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[common.UUID]*offer.Offer)}
}

func (r *fakeOfferRepo) Create(ctx context.Context, o offer.Offer) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = common.NewUUID()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	stored := o
	r.offers[o.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeOfferRepo) Update(ctx context.Context, o offer.Offer) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[o.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "offer not found", nil)
	}
	o.UpdatedAt = time.Now().UTC()
	stored := o
	r.offers[o.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeOfferRepo) GetByID(ctx context.Context, id common.UUID) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "offer not found", nil)
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOfferRepo) ListOpen(ctx context.Context, limit, offset int) ([]offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []offer.Offer
	for _, o := range r.offers {
		if o.Status == offer.StatusOpen {
			items = append(items, *o)
		}
	}
	return items, nil
}

func (r *fakeOfferRepo) addOpen() *offer.Offer {
	created, _ := r.Create(context.Background(), offer.Offer{
		CompanyName: "Acme Logistics",
		Title:       "Backend intern",
		Status:      offer.StatusOpen,
	})
	return created
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[common.UUID]map[common.UUID]*committee.Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[common.UUID]map[common.UUID]*committee.Vote)}
}

func (r *fakeVoteRepo) Upsert(ctx context.Context, vote committee.Vote) (*committee.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byMember, ok := r.votes[vote.ApplicationID]
	if !ok {
		byMember = make(map[common.UUID]*committee.Vote)
		r.votes[vote.ApplicationID] = byMember
	}
	vote.VotedAt = time.Now().UTC()
	if existing, ok := byMember[vote.CommitteeID]; ok {
		vote.ID = existing.ID
	} else {
		vote.ID = common.NewUUID()
	}
	stored := vote
	byMember[vote.CommitteeID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeVoteRepo) ListByApplication(ctx context.Context, applicationID common.UUID) ([]committee.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []committee.Vote
	for _, vote := range r.votes[applicationID] {
		items = append(items, *vote)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].VotedAt.Before(items[j].VotedAt) })
	return items, nil
}

type fakeSequenceRepo struct {
	mu       sync.Mutex
	next     int64
	archived []document.ArchiveEntry
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{next: 1}
}

func (r *fakeSequenceRepo) Allocate(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	number := r.next
	r.next++
	return number, nil
}

func (r *fakeSequenceRepo) ArchiveVoided(ctx context.Context, number int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archived = append(r.archived, document.ArchiveEntry{
		ID:         common.NewUUID(),
		Number:     number,
		Reason:     reason,
		ArchivedAt: time.Now().UTC(),
	})
	return nil
}

type fakePrintRecordRepo struct {
	mu      sync.Mutex
	records []document.PrintRecord
}

func newFakePrintRecordRepo() *fakePrintRecordRepo {
	return &fakePrintRecordRepo{}
}

func (r *fakePrintRecordRepo) Create(ctx context.Context, record document.PrintRecord) (*document.PrintRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = common.NewUUID()
	record.CreatedAt = time.Now().UTC()
	r.records = append(r.records, record)
	clone := record
	return &clone, nil
}

func (r *fakePrintRecordRepo) GetLatestByApplication(ctx context.Context, applicationID common.UUID) (*document.PrintRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		for _, id := range r.records[i].ApplicationIDs {
			if id == applicationID {
				clone := r.records[i]
				return &clone, nil
			}
		}
	}
	return nil, common.NewError(common.CodeNotFound, "print record not found", nil)
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[common.UUID]*supervision.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[common.UUID]*supervision.Assignment)}
}

func (r *fakeAssignmentRepo) Confirm(ctx context.Context, assignment supervision.Assignment) (*supervision.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment.ConfirmedAt = time.Now().UTC()
	if existing, ok := r.assignments[assignment.ApplicationID]; ok {
		assignment.ID = existing.ID
	} else {
		assignment.ID = common.NewUUID()
	}
	stored := assignment
	r.assignments[assignment.ApplicationID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeAssignmentRepo) GetByApplication(ctx context.Context, applicationID common.UUID) (*supervision.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.assignments[applicationID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "assignment not found", nil)
	}
	clone := *assignment
	return &clone, nil
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[common.UUID]*supervision.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[common.UUID]*supervision.Appointment)}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment supervision.Appointment) (*supervision.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment.ID = common.NewUUID()
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	stored := appointment
	r.appointments[appointment.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id common.UUID) (*supervision.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "appointment not found", nil)
	}
	clone := *appointment
	return &clone, nil
}

func (r *fakeAppointmentRepo) ListByApplication(ctx context.Context, applicationID common.UUID) ([]supervision.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []supervision.Appointment
	for _, appointment := range r.appointments {
		if appointment.ApplicationID == applicationID {
			items = append(items, *appointment)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ScheduledAt.Before(items[j].ScheduledAt) })
	return items, nil
}

func (r *fakeAppointmentRepo) Complete(ctx context.Context, id common.UUID, report string, at time.Time) (*supervision.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "appointment not found", nil)
	}
	if appointment.Status != supervision.AppointmentScheduled {
		return nil, common.NewError(common.CodeConflict, "appointment is already completed", nil)
	}
	appointment.Status = supervision.AppointmentCompleted
	appointment.Report = report
	appointment.CompletedAt = &at
	appointment.UpdatedAt = at
	clone := *appointment
	return &clone, nil
}

type fakeWeeklyReportRepo struct {
	mu      sync.Mutex
	reports []supervision.WeeklyReport
}

func newFakeWeeklyReportRepo() *fakeWeeklyReportRepo {
	return &fakeWeeklyReportRepo{}
}

func (r *fakeWeeklyReportRepo) Create(ctx context.Context, report supervision.WeeklyReport) (*supervision.WeeklyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = common.NewUUID()
	report.SubmittedAt = time.Now().UTC()
	r.reports = append(r.reports, report)
	clone := report
	return &clone, nil
}

func (r *fakeWeeklyReportRepo) ListByApplication(ctx context.Context, applicationID common.UUID) ([]supervision.WeeklyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []supervision.WeeklyReport
	for _, report := range r.reports {
		if report.ApplicationID == applicationID {
			items = append(items, report)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].WeekNumber < items[j].WeekNumber })
	return items, nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = common.NewUUID()
	n.CreatedAt = time.Now().UTC()
	r.items = append(r.items, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID common.UUID, limit, offset int) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []notification.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			items = append(items, n)
		}
	}
	return items, nil
}

func (r *fakeNotificationRepo) countByType(typ notification.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.Type == typ {
			count++
		}
	}
	return count
}

func weeklyReportFor(applicationID common.UUID, week int) supervision.WeeklyReport {
	return supervision.WeeklyReport{ApplicationID: applicationID, WeekNumber: week, Content: "week summary"}
}

func testNotifier() (*Notifier, *fakeNotificationRepo) {
	repo := newFakeNotificationRepo()
	return NewNotifier(repo, nil), repo
}
