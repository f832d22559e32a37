package committee

import (
	"context"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Vote is a single member's decision on an application. At most one vote
// exists per (committee member, application) pair; re-voting replaces it.
type Vote struct {
	ID            common.UUID `json:"id"`
	ApplicationID common.UUID `json:"application_id"`
	CommitteeID   common.UUID `json:"committee_id"`
	Decision      Decision    `json:"decision"`
	Notes         string      `json:"notes,omitempty"`
	VotedAt       time.Time   `json:"voted_at"`
}

type VoteRepository interface {
	// Upsert inserts the member's vote or overwrites their previous one,
	// keyed on (committee_id, application_id).
	Upsert(ctx context.Context, vote Vote) (*Vote, error)
	ListByApplication(ctx context.Context, applicationID common.UUID) ([]Vote, error)
}
