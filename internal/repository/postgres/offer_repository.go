package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/offer"
)

type OfferRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(ctx context.Context, o offer.Offer) (*offer.Offer, error) {
	o.ID = common.NewUUID()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO offers (id, company_name, title, description, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.CompanyName, o.Title, o.Description, o.Location, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create offer", err)
	}
	return &o, nil
}

func (r *OfferRepository) Update(ctx context.Context, o offer.Offer) (*offer.Offer, error) {
	o.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE offers SET company_name = $1, title = $2, description = $3, location = $4, status = $5, updated_at = $6
		WHERE id = $7`,
		o.CompanyName, o.Title, o.Description, o.Location, o.Status, o.UpdatedAt, o.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update offer", err)
	}
	return r.GetByID(ctx, o.ID)
}

func (r *OfferRepository) GetByID(ctx context.Context, id common.UUID) (*offer.Offer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, company_name, title, description, location, status, created_at, updated_at
		FROM offers WHERE id = $1`, id)
	var o offer.Offer
	if err := row.Scan(&o.ID, &o.CompanyName, &o.Title, &o.Description, &o.Location, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "offer not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load offer", err)
	}
	return &o, nil
}

func (r *OfferRepository) ListOpen(ctx context.Context, limit, offset int) ([]offer.Offer, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, company_name, title, description, location, status, created_at, updated_at
		FROM offers WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, offer.StatusOpen, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list offers", err)
	}
	defer rows.Close()
	var items []offer.Offer
	for rows.Next() {
		var o offer.Offer
		if err := rows.Scan(&o.ID, &o.CompanyName, &o.Title, &o.Description, &o.Location, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan offer", err)
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list offers", err)
	}
	return items, nil
}
