package offer

import (
	"context"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

type Repository interface {
	Create(ctx context.Context, offer Offer) (*Offer, error)
	Update(ctx context.Context, offer Offer) (*Offer, error)
	GetByID(ctx context.Context, id common.UUID) (*Offer, error)
	ListOpen(ctx context.Context, limit, offset int) ([]Offer, error)
}
