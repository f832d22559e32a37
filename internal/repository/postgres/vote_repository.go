package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/committee"
)

type VoteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Upsert keys on (committee_id, application_id): a member re-voting
// overwrites their previous decision instead of adding a second row, which
// keeps the tally double-count free.
func (r *VoteRepository) Upsert(ctx context.Context, vote committee.Vote) (*committee.Vote, error) {
	vote.ID = common.NewUUID()
	vote.VotedAt = time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `INSERT INTO committee_votes (id, application_id, committee_id, decision, notes, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (committee_id, application_id)
		DO UPDATE SET decision = EXCLUDED.decision, notes = EXCLUDED.notes, voted_at = EXCLUDED.voted_at
		RETURNING id, application_id, committee_id, decision, notes, voted_at`,
		vote.ID, vote.ApplicationID, vote.CommitteeID, vote.Decision, vote.Notes, vote.VotedAt)
	var stored committee.Vote
	var notes sql.NullString
	if err := row.Scan(&stored.ID, &stored.ApplicationID, &stored.CommitteeID, &stored.Decision, &notes, &stored.VotedAt); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to store committee vote", err)
	}
	if notes.Valid {
		stored.Notes = notes.String
	}
	return &stored, nil
}

func (r *VoteRepository) ListByApplication(ctx context.Context, applicationID common.UUID) ([]committee.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, application_id, committee_id, decision, notes, voted_at
		FROM committee_votes WHERE application_id = $1 ORDER BY voted_at`, applicationID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list committee votes", err)
	}
	defer rows.Close()
	var items []committee.Vote
	for rows.Next() {
		var vote committee.Vote
		var notes sql.NullString
		if err := rows.Scan(&vote.ID, &vote.ApplicationID, &vote.CommitteeID, &vote.Decision, &notes, &vote.VotedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan committee vote", err)
		}
		if notes.Valid {
			vote.Notes = notes.String
		}
		items = append(items, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list committee votes", err)
	}
	return items, nil
}
