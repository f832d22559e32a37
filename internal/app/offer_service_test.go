package app

import (
	"context"
	"testing"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/offer"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

func TestOfferServiceCreate_DefaultsToOpen(t *testing.T) {
	service := NewOfferService(newFakeOfferRepo())

	created, err := service.Create(context.Background(), identityWith(user.RoleStaff), offer.Offer{
		CompanyName: "Acme Logistics",
		Title:       "Backend intern",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Status != offer.StatusOpen {
		t.Fatalf("expected open, got %s", created.Status)
	}
}

func TestOfferServiceCreate_Validates(t *testing.T) {
	service := NewOfferService(newFakeOfferRepo())

	_, err := service.Create(context.Background(), identityWith(user.RoleStaff), offer.Offer{})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOfferServiceCreate_RequiresStaff(t *testing.T) {
	service := NewOfferService(newFakeOfferRepo())

	_, err := service.Create(context.Background(), identityWith(user.RoleStudent), offer.Offer{CompanyName: "Acme", Title: "Intern"})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestOfferServiceUpdateStatus_ClosesOffer(t *testing.T) {
	repo := newFakeOfferRepo()
	service := NewOfferService(repo)
	open := repo.addOpen()

	updated, err := service.UpdateStatus(context.Background(), identityWith(user.RoleStaff), open.ID, " Closed ")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Status != offer.StatusClosed {
		t.Fatalf("expected closed, got %s", updated.Status)
	}

	if _, err := service.UpdateStatus(context.Background(), identityWith(user.RoleStaff), open.ID, "published"); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}
