package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/repo"
	_ "github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(postgresURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) SavePoll(ctx context.Context, poll entity.Poll) (int64, error) {
	const op = "storage.postgres.SavePoll"

	query := `INSERT INTO polls (question, creator_id, end_date, allow_multiple, allow_anonymous)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		poll.Question, poll.CreatorID, poll.EndDate, poll.AllowMultiple, poll.AllowAnonymous).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetPollByID(ctx context.Context, id int64) (entity.Poll, error) {
	const op = "storage.postgres.GetPollByID"

	query := `SELECT id, question, creator_id, end_date, allow_multiple, allow_anonymous, created_at
              FROM polls WHERE id = $1`

	var poll entity.Poll
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&poll.ID, &poll.Question, &poll.CreatorID, &poll.EndDate,
		&poll.AllowMultiple, &poll.AllowAnonymous, &poll.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
		}
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return poll, nil
}

func (s *Storage) GetPolls(ctx context.Context) ([]entity.Poll, error) {
	const op = "storage.postgres.GetPolls"

	query := `SELECT id, question, creator_id, end_date, allow_multiple, allow_anonymous, created_at
              FROM polls ORDER BY created_at DESC`

	return s.queryPolls(ctx, op, query)
}

func (s *Storage) GetPollsByCreatorID(ctx context.Context, creatorID int64) ([]entity.Poll, error) {
	const op = "storage.postgres.GetPollsByCreatorID"

	query := `SELECT id, question, creator_id, end_date, allow_multiple, allow_anonymous, created_at
              FROM polls WHERE creator_id = $1 ORDER BY created_at DESC`

	return s.queryPolls(ctx, op, query, creatorID)
}

func (s *Storage) queryPolls(ctx context.Context, op, query string, args ...any) ([]entity.Poll, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var polls []entity.Poll
	for rows.Next() {
		var poll entity.Poll
		if err := rows.Scan(&poll.ID, &poll.Question, &poll.CreatorID, &poll.EndDate,
			&poll.AllowMultiple, &poll.AllowAnonymous, &poll.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		polls = append(polls, poll)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return polls, nil
}

// ApplyPollEdit runs the whole edit in one transaction: the destructive wipe
// of votes and likes when the question changed, the poll row update, and the
// option set reconciliation. Votes on removed options go with the option via
// the FK cascade.
func (s *Storage) ApplyPollEdit(ctx context.Context, edit entity.PollEdit) error {
	const op = "storage.postgres.ApplyPollEdit"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if edit.QuestionChanged {
		if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE poll_id = $1`, edit.Poll.ID); err != nil {
			return fmt.Errorf("%s: delete votes: %w", op, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE poll_id = $1`, edit.Poll.ID); err != nil {
			return fmt.Errorf("%s: delete likes: %w", op, err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE polls SET question = $1, end_date = $2, allow_multiple = $3, allow_anonymous = $4 WHERE id = $5`,
		edit.Poll.Question, edit.Poll.EndDate, edit.Poll.AllowMultiple, edit.Poll.AllowAnonymous, edit.Poll.ID)
	if err != nil {
		return fmt.Errorf("%s: update poll: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}

	for _, optionID := range edit.RemoveOptionIDs {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM options WHERE id = $1 AND poll_id = $2`, optionID, edit.Poll.ID); err != nil {
			return fmt.Errorf("%s: delete option: %w", op, err)
		}
	}

	for _, text := range edit.AddOptionTexts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO options (poll_id, text) VALUES ($1, $2)`, edit.Poll.ID, text); err != nil {
			return fmt.Errorf("%s: insert option: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func (s *Storage) DeletePoll(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeletePoll"

	query := `DELETE FROM polls WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrPollNotFound
	}

	return nil
}

func (s *Storage) SaveOption(ctx context.Context, pollID int64, text string) (int64, error) {
	const op = "storage.postgres.SaveOption"

	query := `INSERT INTO options (poll_id, text) VALUES ($1, $2) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, pollID, text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetOptionByID(ctx context.Context, id int64) (entity.Option, error) {
	const op = "storage.postgres.GetOptionByID"

	query := `SELECT id, poll_id, text FROM options WHERE id = $1`

	var option entity.Option
	err := s.db.QueryRowContext(ctx, query, id).Scan(&option.ID, &option.PollID, &option.Text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Option{}, fmt.Errorf("%s: %w", op, repo.ErrOptionNotFound)
		}
		return entity.Option{}, fmt.Errorf("%s: %w", op, err)
	}

	return option, nil
}

func (s *Storage) GetOptionsByPollID(ctx context.Context, pollID int64) ([]entity.Option, error) {
	const op = "storage.postgres.GetOptionsByPollID"

	query := `SELECT id, poll_id, text FROM options WHERE poll_id = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var options []entity.Option
	for rows.Next() {
		var option entity.Option
		if err := rows.Scan(&option.ID, &option.PollID, &option.Text); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		options = append(options, option)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return options, nil
}
