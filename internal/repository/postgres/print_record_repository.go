package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/document"
)

type PrintRecordRepository struct {
	db *sql.DB
}

func NewPrintRecordRepository(db *sql.DB) *PrintRecordRepository {
	return &PrintRecordRepository{db: db}
}

func (r *PrintRecordRepository) Create(ctx context.Context, record document.PrintRecord) (*document.PrintRecord, error) {
	record.ID = common.NewUUID()
	record.CreatedAt = time.Now().UTC()
	ids := make([]string, 0, len(record.ApplicationIDs))
	for _, id := range record.ApplicationIDs {
		ids = append(ids, id.String())
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO print_records (id, number, formatted_no, document_date, application_ids, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.Number, record.FormattedNo, record.DocumentDate, pq.Array(ids), record.CreatedBy, record.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create print record", err)
	}
	return &record, nil
}

// GetLatestByApplication serves reprints: the most recent record the
// application is linked to, without allocating anything.
func (r *PrintRecordRepository) GetLatestByApplication(ctx context.Context, applicationID common.UUID) (*document.PrintRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, number, formatted_no, document_date, application_ids, created_by, created_at
		FROM print_records
		WHERE $1 = ANY(application_ids)
		ORDER BY created_at DESC LIMIT 1`, applicationID.String())
	var record document.PrintRecord
	var ids []string
	if err := row.Scan(&record.ID, &record.Number, &record.FormattedNo, &record.DocumentDate, pq.Array(&ids), &record.CreatedBy, &record.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "print record not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load print record", err)
	}
	record.ApplicationIDs = make([]common.UUID, 0, len(ids))
	for _, id := range ids {
		record.ApplicationIDs = append(record.ApplicationIDs, common.UUID(id))
	}
	return &record, nil
}
