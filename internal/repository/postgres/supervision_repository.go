package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/supervision"
)

type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Confirm upserts on application_id: confirming again refreshes the
// timestamp instead of duplicating the assignment.
func (r *AssignmentRepository) Confirm(ctx context.Context, assignment supervision.Assignment) (*supervision.Assignment, error) {
	assignment.ID = common.NewUUID()
	assignment.ConfirmedAt = time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `INSERT INTO supervisor_assignments (id, application_id, supervisor_id, confirmed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (application_id)
		DO UPDATE SET supervisor_id = EXCLUDED.supervisor_id, confirmed_at = EXCLUDED.confirmed_at
		RETURNING id, application_id, supervisor_id, confirmed_at`,
		assignment.ID, assignment.ApplicationID, assignment.SupervisorID, assignment.ConfirmedAt)
	var stored supervision.Assignment
	if err := row.Scan(&stored.ID, &stored.ApplicationID, &stored.SupervisorID, &stored.ConfirmedAt); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to confirm assignment", err)
	}
	return &stored, nil
}

func (r *AssignmentRepository) GetByApplication(ctx context.Context, applicationID common.UUID) (*supervision.Assignment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, application_id, supervisor_id, confirmed_at
		FROM supervisor_assignments WHERE application_id = $1`, applicationID)
	var assignment supervision.Assignment
	if err := row.Scan(&assignment.ID, &assignment.ApplicationID, &assignment.SupervisorID, &assignment.ConfirmedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "assignment not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load assignment", err)
	}
	return &assignment, nil
}

type AppointmentRepository struct {
	db *sql.DB
}

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment supervision.Appointment) (*supervision.Appointment, error) {
	appointment.ID = common.NewUUID()
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO supervisor_appointments (id, application_id, supervisor_id, scheduled_at, location, status, report, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		appointment.ID, appointment.ApplicationID, appointment.SupervisorID, appointment.ScheduledAt,
		appointment.Location, appointment.Status, appointment.Report, appointment.CreatedAt, appointment.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create appointment", err)
	}
	return &appointment, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id common.UUID) (*supervision.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, application_id, supervisor_id, scheduled_at, location, status, report, completed_at, created_at, updated_at
		FROM supervisor_appointments WHERE id = $1`, id)
	appointment, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "appointment not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load appointment", err)
	}
	return appointment, nil
}

func (r *AppointmentRepository) ListByApplication(ctx context.Context, applicationID common.UUID) ([]supervision.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, application_id, supervisor_id, scheduled_at, location, status, report, completed_at, created_at, updated_at
		FROM supervisor_appointments WHERE application_id = $1 ORDER BY scheduled_at`, applicationID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list appointments", err)
	}
	defer rows.Close()
	var items []supervision.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan appointment", err)
		}
		items = append(items, *appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list appointments", err)
	}
	return items, nil
}

func (r *AppointmentRepository) Complete(ctx context.Context, id common.UUID, report string, at time.Time) (*supervision.Appointment, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE supervisor_appointments
		SET status = $1, report = $2, completed_at = $3, updated_at = $3
		WHERE id = $4 AND status = $5`,
		supervision.AppointmentCompleted, report, at, id, supervision.AppointmentScheduled)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to complete appointment", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to inspect update result", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, common.NewError(common.CodeConflict, "appointment is already completed", nil)
	}
	return r.GetByID(ctx, id)
}

func scanAppointment(row rowScanner) (*supervision.Appointment, error) {
	var appointment supervision.Appointment
	var report sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(&appointment.ID, &appointment.ApplicationID, &appointment.SupervisorID, &appointment.ScheduledAt,
		&appointment.Location, &appointment.Status, &report, &completedAt, &appointment.CreatedAt, &appointment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if report.Valid {
		appointment.Report = report.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		appointment.CompletedAt = &t
	}
	return &appointment, nil
}

type WeeklyReportRepository struct {
	db *sql.DB
}

func NewWeeklyReportRepository(db *sql.DB) *WeeklyReportRepository {
	return &WeeklyReportRepository{db: db}
}

func (r *WeeklyReportRepository) Create(ctx context.Context, report supervision.WeeklyReport) (*supervision.WeeklyReport, error) {
	report.ID = common.NewUUID()
	report.SubmittedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO weekly_reports (id, application_id, week_number, content, submitted_at)
		VALUES ($1, $2, $3, $4, $5)`,
		report.ID, report.ApplicationID, report.WeekNumber, report.Content, report.SubmittedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create weekly report", err)
	}
	return &report, nil
}

func (r *WeeklyReportRepository) ListByApplication(ctx context.Context, applicationID common.UUID) ([]supervision.WeeklyReport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, application_id, week_number, content, submitted_at
		FROM weekly_reports WHERE application_id = $1 ORDER BY week_number`, applicationID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list weekly reports", err)
	}
	defer rows.Close()
	var items []supervision.WeeklyReport
	for rows.Next() {
		var report supervision.WeeklyReport
		if err := rows.Scan(&report.ID, &report.ApplicationID, &report.WeekNumber, &report.Content, &report.SubmittedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan weekly report", err)
		}
		items = append(items, report)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list weekly reports", err)
	}
	return items, nil
}
