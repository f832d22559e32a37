package application

import (
	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

type Action string

const (
	ActionClaim              Action = "claim"
	ActionApprove            Action = "approve"
	ActionReject             Action = "reject"
	ActionCommitteeVote      Action = "committee_vote"
	ActionPrepareDocuments   Action = "prepare_documents"
	ActionSendToCompany      Action = "send_to_company"
	ActionCompanyAccept      Action = "company_accept"
	ActionStartInternship    Action = "start_internship"
	ActionMarkOngoing        Action = "mark_ongoing"
	ActionCompleteInternship Action = "complete_internship"
	ActionClose              Action = "close"
)

// Rule is one row of the transition table: which statuses an action may
// leave from, which role may invoke it, and where it lands. Actions whose
// target is derived (committee voting) leave To empty and resolve it
// elsewhere from the vote tally.
type Rule struct {
	From  []Status
	Roles []user.Role
	To    Status
}

var transitions = map[Action]Rule{
	ActionClaim: {
		From:  []Status{StatusSubmitted},
		Roles: []user.Role{user.RoleCourseInstructor},
		To:    StatusCourseInstructorPending,
	},
	ActionApprove: {
		From:  []Status{StatusCourseInstructorPending},
		Roles: []user.Role{user.RoleCourseInstructor},
		To:    StatusCourseInstructorApproved,
	},
	ActionReject: {
		From:  []Status{StatusCourseInstructorPending},
		Roles: []user.Role{user.RoleCourseInstructor},
		To:    StatusCourseInstructorRejected,
	},
	ActionCommitteeVote: {
		From:  []Status{StatusCourseInstructorApproved, StatusCommitteePending, StatusCommitteePartiallyApproved},
		Roles: []user.Role{user.RoleCommittee},
	},
	ActionPrepareDocuments: {
		From:  []Status{StatusCommitteeApproved},
		Roles: []user.Role{user.RoleStaff},
		To:    StatusDocumentsPrepared,
	},
	ActionSendToCompany: {
		From:  []Status{StatusDocumentsPrepared},
		Roles: []user.Role{user.RoleStaff},
		To:    StatusAwaitingExternalResponse,
	},
	ActionCompanyAccept: {
		From:  []Status{StatusAwaitingExternalResponse},
		Roles: []user.Role{user.RoleStaff},
		To:    StatusCompanyAccepted,
	},
	ActionStartInternship: {
		From:  []Status{StatusCompanyAccepted},
		Roles: []user.Role{user.RoleStudent},
		To:    StatusInternshipStarted,
	},
	ActionMarkOngoing: {
		From:  []Status{StatusInternshipStarted},
		Roles: []user.Role{user.RoleStudent, user.RoleStaff},
		To:    StatusInternshipOngoing,
	},
	ActionCompleteInternship: {
		From:  []Status{StatusInternshipOngoing},
		Roles: []user.Role{user.RoleSupervisor},
		To:    StatusInternshipCompleted,
	},
	ActionClose: {
		From:  []Status{StatusInternshipCompleted},
		Roles: []user.Role{user.RoleStaff},
		To:    StatusCompleted,
	},
}

func RuleFor(action Action) (Rule, bool) {
	rule, ok := transitions[action]
	return rule, ok
}

func (r Rule) AllowsFrom(status Status) bool {
	for _, s := range r.From {
		if s == status {
			return true
		}
	}
	return false
}

func (r Rule) AllowsRole(identity user.Identity) bool {
	for _, role := range r.Roles {
		if identity.Has(role) {
			return true
		}
	}
	return false
}

// Authorize checks the table for action against the caller and the current
// status. Role failures win over state failures so an outsider learns
// nothing about where the application sits.
func Authorize(action Action, identity user.Identity, current Status) (Rule, error) {
	rule, ok := RuleFor(action)
	if !ok {
		return Rule{}, common.NewError(common.CodeInternal, "unknown workflow action", nil)
	}
	if !rule.AllowsRole(identity) {
		return Rule{}, common.NewError(common.CodeForbidden, "role is not allowed to perform this action", nil)
	}
	if !rule.AllowsFrom(current) {
		return Rule{}, common.NewError(common.CodeConflict, "application is not in a state that allows this action", nil)
	}
	return rule, nil
}
