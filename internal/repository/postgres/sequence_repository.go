package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

// counterID pins the singleton counter row.
const counterID = 1

// pgSerializationFailure is the SQLSTATE a serializable transaction aborts
// with when it loses to a concurrent writer. pgUniqueViolation is what the
// loser of a racing first-ever counter insert gets; the retry then finds
// the winner's row and increments it.
const (
	pgSerializationFailure = "40001"
	pgUniqueViolation      = "23505"
)

const allocateAttempts = 3

// SequenceRepository is the one repository that needs an explicit atomic
// read-modify-write: the whole read/initialize/increment runs inside a
// single serializable transaction so concurrent callers can never observe
// the same counter value. Row locking makes the common path a plain wait;
// the serialization-failure retry covers the aborts that remain.
type SequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

func (r *SequenceRepository) Allocate(ctx context.Context) (int64, error) {
	var lastErr error
	for attempt := 0; attempt < allocateAttempts; attempt++ {
		number, err := r.allocateOnce(ctx)
		if err == nil {
			return number, nil
		}
		if !isRetryableAllocateErr(err) {
			return 0, err
		}
		lastErr = err
	}
	return 0, common.NewError(common.CodeInternal, "failed to allocate document number", lastErr)
}

func (r *SequenceRepository) allocateOnce(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to begin allocation", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int64
	err = tx.QueryRowContext(ctx, `SELECT next_value FROM document_sequence_counters WHERE id = $1 FOR UPDATE`, counterID).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		// First allocation ever: create the counter inside the same
		// transaction so initialization cannot race either.
		next = 1
		if _, err := tx.ExecContext(ctx, `INSERT INTO document_sequence_counters (id, next_value, updated_at) VALUES ($1, $2, $3)`,
			counterID, next+1, time.Now().UTC()); err != nil {
			return 0, wrapAllocateErr(err)
		}
	} else if err != nil {
		return 0, wrapAllocateErr(err)
	} else {
		if _, err := tx.ExecContext(ctx, `UPDATE document_sequence_counters SET next_value = $1, updated_at = $2 WHERE id = $3`,
			next+1, time.Now().UTC(), counterID); err != nil {
			return 0, wrapAllocateErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, wrapAllocateErr(err)
	}
	return next, nil
}

// ArchiveVoided records a voided number. It never touches the counter: the
// number stays burned and is never handed out again.
func (r *SequenceRepository) ArchiveVoided(ctx context.Context, number int64, reason string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO document_number_archive (id, number, reason, archived_at) VALUES ($1, $2, $3, $4)`,
		common.NewUUID(), number, reason, time.Now().UTC())
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to archive document number", err)
	}
	return nil
}

func wrapAllocateErr(err error) error {
	if isRetryableAllocateErr(err) {
		return err
	}
	return common.NewError(common.CodeInternal, "failed to allocate document number", err)
}

func isRetryableAllocateErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgUniqueViolation
	}
	return false
}
