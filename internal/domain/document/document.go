package document

import (
	"context"
	"fmt"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

const DefaultDigits = 5

// PrintRecord groups one or more applications under one allocated document
// number and a human-entered document date. An application is linked to at
// most one active record; reprinting reads the latest record instead of
// allocating a new number.
type PrintRecord struct {
	ID             common.UUID   `json:"id"`
	Number         int64         `json:"number"`
	FormattedNo    string        `json:"formatted_no"`
	DocumentDate   time.Time     `json:"document_date"`
	ApplicationIDs []common.UUID `json:"application_ids"`
	CreatedBy      common.UUID   `json:"created_by"`
	CreatedAt      time.Time     `json:"created_at"`
}

// ArchiveEntry records a voided number so it is never treated as live. The
// number does not return to the free pool and the counter never moves back.
type ArchiveEntry struct {
	ID         common.UUID `json:"id"`
	Number     int64       `json:"number"`
	Reason     string      `json:"reason"`
	ArchivedAt time.Time   `json:"archived_at"`
}

// SequenceRepository is the one place in the system that needs an atomic
// read-modify-write: Allocate must read the counter, hand out its value and
// persist the increment inside a single transaction.
type SequenceRepository interface {
	Allocate(ctx context.Context) (int64, error)
	ArchiveVoided(ctx context.Context, number int64, reason string) error
}

type PrintRecordRepository interface {
	Create(ctx context.Context, record PrintRecord) (*PrintRecord, error)
	GetLatestByApplication(ctx context.Context, applicationID common.UUID) (*PrintRecord, error)
}

// FormatNumber renders an allocated number as prefix + zero-padded numeral +
// suffix. Width falls back to DefaultDigits; numbers wider than the padding
// are kept intact.
func FormatNumber(prefix string, number int64, digits int, suffix string) string {
	if digits <= 0 {
		digits = DefaultDigits
	}
	return fmt.Sprintf("%s%0*d%s", prefix, digits, number, suffix)
}
