package application

import (
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

type Status string

const (
	StatusSubmitted                  Status = "submitted"
	StatusCourseInstructorPending    Status = "course_instructor_pending"
	StatusCourseInstructorApproved   Status = "course_instructor_approved"
	StatusCourseInstructorRejected   Status = "course_instructor_rejected"
	StatusCommitteePending           Status = "committee_pending"
	StatusCommitteePartiallyApproved Status = "committee_partially_approved"
	StatusCommitteeApproved          Status = "committee_approved"
	StatusDocumentsPrepared          Status = "documents_prepared"
	StatusAwaitingExternalResponse   Status = "awaiting_external_response"
	StatusCompanyAccepted            Status = "company_accepted"
	StatusInternshipStarted          Status = "internship_started"
	StatusInternshipOngoing          Status = "internship_ongoing"
	StatusInternshipCompleted        Status = "internship_completed"
	StatusCompleted                  Status = "completed"
)

// Application is the central aggregate of the placement workflow. Its status
// is the single source of truth for workflow position and only ever changes
// through the transition table in transitions.go.
type Application struct {
	ID        common.UUID `json:"id"`
	StudentID common.UUID `json:"student_id"`
	OfferID   common.UUID `json:"offer_id"`
	Status    Status      `json:"status"`

	CourseInstructorID *common.UUID `json:"course_instructor_id,omitempty"`

	SupervisorID         *common.UUID `json:"supervisor_id,omitempty"`
	SupervisorAssigned   bool         `json:"supervisor_assigned"`
	SupervisorAssignedAt *time.Time   `json:"supervisor_assigned_at,omitempty"`

	CommitteeApproved   bool       `json:"committee_approved"`
	CommitteeApprovedAt *time.Time `json:"committee_approved_at,omitempty"`

	DocumentsPrepared   bool       `json:"documents_prepared"`
	DocumentsPreparedAt *time.Time `json:"documents_prepared_at,omitempty"`
	StaffWorkflowNotes  string     `json:"staff_workflow_notes,omitempty"`

	Feedback string `json:"feedback,omitempty"`

	InternshipStartDate *time.Time `json:"internship_start_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal reports whether no further transition is defined for the status.
func (s Status) IsTerminal() bool {
	return s == StatusCourseInstructorRejected || s == StatusCompleted
}

// IsActive reports whether the application still occupies the student's slot
// for its offer. Rejected and fully completed applications do not.
func (s Status) IsActive() bool {
	return !s.IsTerminal()
}
