package app

import (
	"context"
	"strings"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/document"
)

// DocumentService fronts the sequence allocator: it hands out unique,
// sequential document numbers and archives the ones that get voided.
type DocumentService struct {
	sequences document.SequenceRepository
}

func NewDocumentService(sequences document.SequenceRepository) *DocumentService {
	return &DocumentService{sequences: sequences}
}

// Allocate returns the next number and its formatted rendering. Uniqueness
// under concurrent callers is the repository's contract; this layer only
// formats.
func (s *DocumentService) Allocate(ctx context.Context, prefix, suffix string, digits int) (int64, string, error) {
	number, err := s.sequences.Allocate(ctx)
	if err != nil {
		return 0, "", err
	}
	return number, document.FormatNumber(prefix, number, digits, suffix), nil
}

// ArchiveVoided records that an issued number must no longer be treated as
// live. The counter is untouched: voided numbers never return to the pool.
func (s *DocumentService) ArchiveVoided(ctx context.Context, number int64, reason string) error {
	if number < 1 {
		return common.NewValidationError("invalid request", map[string]string{"number": "number must be positive"})
	}
	if strings.TrimSpace(reason) == "" {
		return common.NewValidationError("invalid request", map[string]string{"reason": "reason is required"})
	}
	return s.sequences.ArchiveVoided(ctx, number, strings.TrimSpace(reason))
}
