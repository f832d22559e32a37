package application

import (
	"context"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

// Repository persists Applications. Every mutating method that moves the
// status carries the expected current status and must apply the change only
// if the stored status still matches it, so two concurrent actors cannot
// both leave the same state.
type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	ListByStudent(ctx context.Context, studentID common.UUID) ([]Application, error)
	ListByStatus(ctx context.Context, status Status) ([]Application, error)
	ListBySupervisor(ctx context.Context, supervisorID common.UUID) ([]Application, error)
	FindActiveByOfferAndStudent(ctx context.Context, offerID, studentID common.UUID) (*Application, error)

	// Claim sets the course instructor on an unclaimed submitted application.
	Claim(ctx context.Context, id, instructorID common.UUID) (*Application, error)
	// ApproveByInstructor hands the application to the committee and pins the
	// field supervisor; the supervisor is immutable once assigned.
	ApproveByInstructor(ctx context.Context, id, supervisorID common.UUID, at time.Time) (*Application, error)
	// RejectByInstructor is terminal and stores the mandatory note.
	RejectByInstructor(ctx context.Context, id common.UUID, note string) (*Application, error)
	// SetCommitteeOutcome writes the status derived from the vote tally,
	// guarded by the status observed when the tally was taken.
	SetCommitteeOutcome(ctx context.Context, id common.UUID, from, to Status, approved bool, approvedAt *time.Time) (*Application, error)
	// MarkDocumentsPrepared flips the staff bookkeeping fields.
	MarkDocumentsPrepared(ctx context.Context, id common.UUID, notes string, at time.Time) (*Application, error)
	// UpdateStatusFrom covers the single-field transitions (send, accept,
	// ongoing, complete, close).
	UpdateStatusFrom(ctx context.Context, id common.UUID, from, to Status, notes string) (*Application, error)
	// StartInternship records the start date supplied by the student.
	StartInternship(ctx context.Context, id common.UUID, startDate time.Time) (*Application, error)
}
