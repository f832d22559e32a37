package app

import (
	"context"
	"strings"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/offer"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

// OfferService maintains the internship position offers students apply to.
// Offers are staff-curated lookup data as far as the workflow is concerned.
type OfferService struct {
	repo offer.Repository
}

func NewOfferService(repo offer.Repository) *OfferService {
	return &OfferService{repo: repo}
}

func (s *OfferService) Create(ctx context.Context, identity user.Identity, o offer.Offer) (*offer.Offer, error) {
	if !identity.Has(user.RoleStaff) {
		return nil, common.NewError(common.CodeForbidden, "only staff manage offers", nil)
	}
	fields := map[string]string{}
	if strings.TrimSpace(o.CompanyName) == "" {
		fields["company_name"] = "company_name is required"
	}
	if strings.TrimSpace(o.Title) == "" {
		fields["title"] = "title is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid offer", fields)
	}
	if o.Status == "" {
		o.Status = offer.StatusOpen
	}
	if err := validateOfferStatus(o.Status); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, o)
}

func (s *OfferService) UpdateStatus(ctx context.Context, identity user.Identity, offerID common.UUID, status offer.Status) (*offer.Offer, error) {
	if !identity.Has(user.RoleStaff) {
		return nil, common.NewError(common.CodeForbidden, "only staff manage offers", nil)
	}
	normalized := offer.Status(strings.ToLower(strings.TrimSpace(string(status))))
	if err := validateOfferStatus(normalized); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	current.Status = normalized
	return s.repo.Update(ctx, *current)
}

func (s *OfferService) Get(ctx context.Context, id common.UUID) (*offer.Offer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OfferService) ListOpen(ctx context.Context, limit, offset int) ([]offer.Offer, error) {
	return s.repo.ListOpen(ctx, limit, offset)
}

func validateOfferStatus(status offer.Status) error {
	switch status {
	case offer.StatusDraft, offer.StatusOpen, offer.StatusClosed:
		return nil
	default:
		return common.NewValidationError("invalid offer status", map[string]string{"status": "status must be draft, open, or closed"})
	}
}
