package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// SaveVote inserts a vote unless the identity already holds one in the
// deduplication scope: the whole poll when pollScope is true, the single
// option otherwise. Option-scope casts collide on the partial unique
// indexes. Poll-scope casts serialize on a per-poll advisory lock first:
// two concurrent same-identity casts on different options would pass the
// NOT EXISTS guard and land on different index keys, so the lock is what
// makes the poll-wide constraint hold. Returns inserted=false when the
// guard (or an index race) swallowed the row.
func (s *Storage) SaveVote(ctx context.Context, vote entity.Vote, pollScope bool) (int64, bool, error) {
	const op = "storage.postgres.SaveVote"

	scopeColumn := "option_id"
	scopeValue := vote.OptionID
	if pollScope {
		scopeColumn = "poll_id"
		scopeValue = vote.PollID
	}

	var (
		query string
		args  []any
	)
	if vote.UserID != nil {
		query = fmt.Sprintf(`INSERT INTO votes (poll_id, option_id, user_id, voter_ip)
            SELECT $1, $2, $3, ''
            WHERE NOT EXISTS (SELECT 1 FROM votes WHERE %s = $4 AND user_id = $3)
            RETURNING id`, scopeColumn)
		args = []any{vote.PollID, vote.OptionID, *vote.UserID, scopeValue}
	} else {
		query = fmt.Sprintf(`INSERT INTO votes (poll_id, option_id, user_id, voter_ip)
            SELECT $1, $2, NULL, $3
            WHERE NOT EXISTS (SELECT 1 FROM votes WHERE %s = $4 AND user_id IS NULL AND voter_ip = $3)
            RETURNING id`, scopeColumn)
		args = []any{vote.PollID, vote.OptionID, vote.VoterIP, scopeValue}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	if pollScope {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, vote.PollID); err != nil {
			return 0, false, fmt.Errorf("%s: lock poll: %w", op, err)
		}
	}

	var id int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("%s: commit: %w", op, err)
	}

	return id, true, nil
}

func (s *Storage) GetVotesByPollID(ctx context.Context, pollID int64) ([]entity.Vote, error) {
	const op = "storage.postgres.GetVotesByPollID"

	query := `SELECT id, poll_id, option_id, user_id, voter_ip, voted_at
              FROM votes WHERE poll_id = $1 ORDER BY voted_at DESC`

	return s.queryVotes(ctx, op, query, pollID)
}

func (s *Storage) GetVotesByOptionID(ctx context.Context, optionID int64) ([]entity.Vote, error) {
	const op = "storage.postgres.GetVotesByOptionID"

	query := `SELECT id, poll_id, option_id, user_id, voter_ip, voted_at
              FROM votes WHERE option_id = $1 ORDER BY voted_at DESC`

	return s.queryVotes(ctx, op, query, optionID)
}

func (s *Storage) queryVotes(ctx context.Context, op, query string, args ...any) ([]entity.Vote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var votes []entity.Vote
	for rows.Next() {
		var vote entity.Vote
		if err := rows.Scan(&vote.ID, &vote.PollID, &vote.OptionID, &vote.UserID, &vote.VoterIP, &vote.VotedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		votes = append(votes, vote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return votes, nil
}

func (s *Storage) CountVotesByPollID(ctx context.Context, pollID int64) (int, error) {
	const op = "storage.postgres.CountVotesByPollID"

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE poll_id = $1`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (s *Storage) CountVotesOnPollsByCreator(ctx context.Context, creatorID int64) (int, error) {
	const op = "storage.postgres.CountVotesOnPollsByCreator"

	query := `SELECT COUNT(*) FROM votes v JOIN polls p ON p.id = v.poll_id WHERE p.creator_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, creatorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
