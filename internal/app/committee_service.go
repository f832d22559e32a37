package app

import (
	"context"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/committee"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/notification"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
)

// CommitteeService fans several independent member votes into one derived
// application status. The derivation never trusts an in-memory count: after
// the member's vote is durably stored, all votes are re-read and the outcome
// recomputed from scratch, so simultaneous voters converge on the same
// result.
type CommitteeService struct {
	repo     application.Repository
	votes    committee.VoteRepository
	policy   committee.Policy
	notifier *Notifier
}

func NewCommitteeService(repo application.Repository, votes committee.VoteRepository, policy committee.Policy, notifier *Notifier) *CommitteeService {
	return &CommitteeService{repo: repo, votes: votes, policy: policy, notifier: notifier}
}

type VoteResult struct {
	Application *application.Application `json:"application"`
	Vote        *committee.Vote          `json:"vote"`
	Tally       committee.Tally          `json:"tally"`
}

func (s *CommitteeService) Vote(ctx context.Context, identity user.Identity, applicationID common.UUID, decision committee.Decision, notes string) (*VoteResult, error) {
	if decision != committee.DecisionApprove && decision != committee.DecisionReject {
		return nil, common.NewValidationError("invalid request", map[string]string{"decision": "decision must be approve or reject"})
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := application.Authorize(application.ActionCommitteeVote, identity, app.Status); err != nil {
		return nil, err
	}

	stored, err := s.votes.Upsert(ctx, committee.Vote{
		ApplicationID: applicationID,
		CommitteeID:   identity.UserID,
		Decision:      decision,
		Notes:         notes,
	})
	if err != nil {
		return nil, err
	}

	updated, tally, err := s.recompute(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return &VoteResult{Application: updated, Vote: stored, Tally: tally}, nil
}

const recomputeAttempts = 5

// recompute re-reads the full vote set, derives the status and persists it
// under the optimistic guard of the status it was derived against. A guard
// conflict means another writer moved the row between the read and the
// write; that writer may not have seen this member's vote yet, so the loop
// re-reads votes and status and re-applies until the stored status matches
// the derivation or the application has left the committee stages.
func (s *CommitteeService) recompute(ctx context.Context, applicationID common.UUID) (*application.Application, committee.Tally, error) {
	rule, _ := application.RuleFor(application.ActionCommitteeVote)
	for attempt := 0; attempt < recomputeAttempts; attempt++ {
		votes, err := s.votes.ListByApplication(ctx, applicationID)
		if err != nil {
			return nil, committee.Tally{}, err
		}
		tally := committee.TallyVotes(votes)
		outcome := s.policy.Outcome(tally)

		app, err := s.repo.GetByID(ctx, applicationID)
		if err != nil {
			return nil, committee.Tally{}, err
		}
		if !rule.AllowsFrom(app.Status) || app.Status == outcome {
			return app, tally, nil
		}

		var approvedAt *time.Time
		approved := outcome == application.StatusCommitteeApproved
		if approved {
			now := time.Now().UTC()
			approvedAt = &now
		}
		updated, err := s.repo.SetCommitteeOutcome(ctx, applicationID, app.Status, outcome, approved, approvedAt)
		if common.Is(err, common.CodeConflict) {
			continue
		}
		if err != nil {
			return nil, committee.Tally{}, err
		}

		switch outcome {
		case application.StatusCommitteeApproved:
			s.notifier.Notify(ctx, updated.StudentID, notification.TypeCommitteeOutcome,
				"Committee approved", "The review committee approved your application.")
		case application.StatusCourseInstructorRejected:
			s.notifier.Notify(ctx, updated.StudentID, notification.TypeCommitteeOutcome,
				"Committee rejected", "The review committee rejected your application.")
		}
		return updated, tally, nil
	}
	return nil, committee.Tally{}, common.NewError(common.CodeConflict, "committee outcome is contended, retry the vote", nil)
}

func (s *CommitteeService) ListPending(ctx context.Context, identity user.Identity) ([]application.Application, error) {
	if !identity.Has(user.RoleCommittee) {
		return nil, common.NewError(common.CodeForbidden, "role is not allowed to perform this action", nil)
	}
	rule, _ := application.RuleFor(application.ActionCommitteeVote)
	var items []application.Application
	for _, status := range rule.From {
		page, err := s.repo.ListByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
	}
	return items, nil
}

func (s *CommitteeService) VotesFor(ctx context.Context, identity user.Identity, applicationID common.UUID) ([]committee.Vote, committee.Tally, error) {
	if !identity.Has(user.RoleCommittee) && !identity.Has(user.RoleStaff) {
		return nil, committee.Tally{}, common.NewError(common.CodeForbidden, "role is not allowed to perform this action", nil)
	}
	votes, err := s.votes.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, committee.Tally{}, err
	}
	return votes, committee.TallyVotes(votes), nil
}
