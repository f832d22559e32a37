package offer

import (
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Offer is a single internship/co-op position a student can apply to.
type Offer struct {
	ID          common.UUID `json:"id"`
	CompanyName string      `json:"company_name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
