package committee

import (
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
)

// Policy holds the quorum thresholds. Both are configuration, not constants:
// the rejection threshold in particular is awaiting product confirmation.
type Policy struct {
	RequiredApprovals  int
	RequiredRejections int
}

type Tally struct {
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func TallyVotes(votes []Vote) Tally {
	var t Tally
	for _, v := range votes {
		switch v.Decision {
		case DecisionApprove:
			t.Approved++
		case DecisionReject:
			t.Rejected++
		}
	}
	return t
}

// Outcome derives the application status from a vote tally. It is pure:
// given the same tally it always returns the same status, which is what lets
// concurrent voters each recompute it from a fresh read without coordination.
// Approval wins when both thresholds are somehow met at once.
func (p Policy) Outcome(t Tally) application.Status {
	switch {
	case t.Approved >= p.RequiredApprovals:
		return application.StatusCommitteeApproved
	case t.Rejected >= p.RequiredRejections:
		return application.StatusCourseInstructorRejected
	case t.Approved > 0:
		return application.StatusCommitteePartiallyApproved
	default:
		return application.StatusCommitteePending
	}
}
