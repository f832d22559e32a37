package notification

import (
	"context"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

type Type string

const (
	TypeApplicationClaimed   Type = "application.claimed"
	TypeApplicationApproved  Type = "application.approved"
	TypeApplicationRejected  Type = "application.rejected"
	TypeCommitteeOutcome     Type = "application.committee_outcome"
	TypeDocumentsPrepared    Type = "application.documents_prepared"
	TypeCompanyAccepted      Type = "application.company_accepted"
	TypeInternshipStarted    Type = "internship.started"
	TypeInternshipCompleted  Type = "internship.completed"
	TypeAppointmentScheduled Type = "appointment.scheduled"
)

// Notification is the stored obligation to inform a user. Delivery transport
// is out of scope; rows are written best-effort and failures never roll back
// the transition that produced them.
type Notification struct {
	ID        common.UUID `json:"id"`
	UserID    common.UUID `json:"user_id"`
	Type      Type        `json:"type"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID common.UUID, limit, offset int) ([]Notification, error)
}
