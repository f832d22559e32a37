package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
)

const applicationColumns = `id, student_id, offer_id, status, course_instructor_id,
	supervisor_id, supervisor_assigned, supervisor_assigned_at,
	committee_approved, committee_approved_at,
	documents_prepared, documents_prepared_at, staff_workflow_notes,
	feedback, internship_start_date, created_at, updated_at`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, student_id, offer_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		app.ID, app.StudentID, app.OfferID, app.Status, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
}

func (r *ApplicationRepository) ListByStatus(ctx context.Context, status application.Status) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE status = $1 ORDER BY created_at`, status)
}

func (r *ApplicationRepository) ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE supervisor_id = $1 ORDER BY created_at`, supervisorID)
}

func (r *ApplicationRepository) FindActiveByOfferAndStudent(ctx context.Context, offerID, studentID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE offer_id = $1 AND student_id = $2 AND status NOT IN ($3, $4)
		ORDER BY created_at DESC LIMIT 1`,
		offerID, studentID, application.StatusCourseInstructorRejected, application.StatusCompleted)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

// Claim sets the instructor only while the row is still submitted and
// unclaimed; losing the race surfaces as a conflict, not a silent overwrite.
func (r *ApplicationRepository) Claim(ctx context.Context, id, instructorID common.UUID) (*application.Application, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications
		SET status = $1, course_instructor_id = $2, updated_at = $3
		WHERE id = $4 AND status = $5 AND course_instructor_id IS NULL`,
		application.StatusCourseInstructorPending, instructorID, time.Now().UTC(), id, application.StatusSubmitted)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to claim application", err)
	}
	return r.afterGuardedWrite(ctx, id, res, "application was claimed by someone else")
}

func (r *ApplicationRepository) ApproveByInstructor(ctx context.Context, id, supervisorID common.UUID, at time.Time) (*application.Application, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications
		SET status = $1, supervisor_id = $2, supervisor_assigned = TRUE, supervisor_assigned_at = $3, updated_at = $3
		WHERE id = $4 AND status = $5 AND supervisor_assigned = FALSE`,
		application.StatusCourseInstructorApproved, supervisorID, at, id, application.StatusCourseInstructorPending)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to approve application", err)
	}
	return r.afterGuardedWrite(ctx, id, res, "application status changed")
}

func (r *ApplicationRepository) RejectByInstructor(ctx context.Context, id common.UUID, note string) (*application.Application, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications
		SET status = $1, feedback = $2, updated_at = $3
		WHERE id = $4 AND status = $5`,
		application.StatusCourseInstructorRejected, note, time.Now().UTC(), id, application.StatusCourseInstructorPending)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to reject application", err)
	}
	return r.afterGuardedWrite(ctx, id, res, "application status changed")
}

func (r *ApplicationRepository) SetCommitteeOutcome(ctx context.Context, id common.UUID, from, to application.Status, approved bool, approvedAt *time.Time) (*application.Application, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications
		SET status = $1, committee_approved = $2, committee_approved_at = $3, updated_at = $4
		WHERE id = $5 AND status = $6`,
		to, approved, approvedAt, time.Now().UTC(), id, from)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to store committee outcome", err)
	}
	return r.afterGuardedWrite(ctx, id, res, "application status changed")
}

func (r *ApplicationRepository) MarkDocumentsPrepared(ctx context.Context, id common.UUID, notes string, at time.Time) (*application.Application, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications
		SET status = $1, documents_prepared = TRUE, documents_prepared_at = $2,
		    staff_workflow_notes = CASE WHEN $3::text = '' THEN staff_workflow_notes
		                                WHEN staff_workflow_notes = '' THEN $3::text
		                                ELSE staff_workflow_notes || E'\n' || $3::text END,
		    updated_at = $2
		WHERE id = $4 AND status = $5`,
		application.StatusDocumentsPrepared, at, notes, id, application.StatusCommitteeApproved)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to mark documents prepared", err)
	}
	return r.afterGuardedWrite(ctx, id, res, "application status changed")
}

func (r *ApplicationRepository) UpdateStatusFrom(ctx context.Context, id common.UUID, from, to application.Status, notes string) (*application.Application, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications
		SET status = $1,
		    staff_workflow_notes = CASE WHEN $2::text = '' THEN staff_workflow_notes
		                                WHEN staff_workflow_notes = '' THEN $2::text
		                                ELSE staff_workflow_notes || E'\n' || $2::text END,
		    updated_at = $3
		WHERE id = $4 AND status = $5`,
		to, notes, time.Now().UTC(), id, from)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application status", err)
	}
	return r.afterGuardedWrite(ctx, id, res, "application status changed")
}

func (r *ApplicationRepository) StartInternship(ctx context.Context, id common.UUID, startDate time.Time) (*application.Application, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE applications
		SET status = $1, internship_start_date = $2, updated_at = $3
		WHERE id = $4 AND status = $5`,
		application.StatusInternshipStarted, startDate, time.Now().UTC(), id, application.StatusCompanyAccepted)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to start internship", err)
	}
	return r.afterGuardedWrite(ctx, id, res, "application status changed")
}

// afterGuardedWrite turns a zero-row optimistic update into NotFound or
// Conflict depending on whether the row still exists.
func (r *ApplicationRepository) afterGuardedWrite(ctx context.Context, id common.UUID, res sql.Result, conflictMsg string) (*application.Application, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to inspect update result", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, common.NewError(common.CodeConflict, conflictMsg, nil)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	var instructorID, supervisorID sql.NullString
	var supervisorAt, committeeAt, documentsAt, startDate sql.NullTime
	var notes, feedback sql.NullString
	err := row.Scan(&app.ID, &app.StudentID, &app.OfferID, &app.Status, &instructorID,
		&supervisorID, &app.SupervisorAssigned, &supervisorAt,
		&app.CommitteeApproved, &committeeAt,
		&app.DocumentsPrepared, &documentsAt, &notes,
		&feedback, &startDate, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if instructorID.Valid {
		id := common.UUID(instructorID.String)
		app.CourseInstructorID = &id
	}
	if supervisorID.Valid {
		id := common.UUID(supervisorID.String)
		app.SupervisorID = &id
	}
	if supervisorAt.Valid {
		t := supervisorAt.Time
		app.SupervisorAssignedAt = &t
	}
	if committeeAt.Valid {
		t := committeeAt.Time
		app.CommitteeApprovedAt = &t
	}
	if documentsAt.Valid {
		t := documentsAt.Time
		app.DocumentsPreparedAt = &t
	}
	if startDate.Valid {
		t := startDate.Time
		app.InternshipStartDate = &t
	}
	if notes.Valid {
		app.StaffWorkflowNotes = notes.String
	}
	if feedback.Valid {
		app.Feedback = feedback.String
	}
	return &app, nil
}
