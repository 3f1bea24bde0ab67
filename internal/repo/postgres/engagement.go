package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/repo"
)

func (s *Storage) GetLike(ctx context.Context, pollID, userID int64) (entity.Like, error) {
	const op = "storage.postgres.GetLike"

	query := `SELECT id, poll_id, user_id, created_at FROM likes WHERE poll_id = $1 AND user_id = $2`

	var like entity.Like
	err := s.db.QueryRowContext(ctx, query, pollID, userID).Scan(&like.ID, &like.PollID, &like.UserID, &like.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Like{}, fmt.Errorf("%s: %w", op, repo.ErrLikeNotFound)
		}
		return entity.Like{}, fmt.Errorf("%s: %w", op, err)
	}

	return like, nil
}

func (s *Storage) SaveLike(ctx context.Context, pollID, userID int64) (int64, error) {
	const op = "storage.postgres.SaveLike"

	query := `INSERT INTO likes (poll_id, user_id) VALUES ($1, $2) RETURNING id`

	var id int64
	if err := s.db.QueryRowContext(ctx, query, pollID, userID).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) DeleteLike(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteLike"

	res, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrLikeNotFound
	}

	return nil
}

func (s *Storage) CountLikesByPollID(ctx context.Context, pollID int64) (int, error) {
	const op = "storage.postgres.CountLikesByPollID"

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE poll_id = $1`, pollID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (s *Storage) CountLikesOnPollsByCreator(ctx context.Context, creatorID int64) (int, error) {
	const op = "storage.postgres.CountLikesOnPollsByCreator"

	query := `SELECT COUNT(*) FROM likes l JOIN polls p ON p.id = l.poll_id WHERE p.creator_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, creatorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (s *Storage) SaveComment(ctx context.Context, pollID, userID int64, text string) (entity.Comment, error) {
	const op = "storage.postgres.SaveComment"

	query := `INSERT INTO comments (poll_id, user_id, text) VALUES ($1, $2, $3) RETURNING id, created_at`

	comment := entity.Comment{PollID: pollID, UserID: userID, Text: text}
	if err := s.db.QueryRowContext(ctx, query, pollID, userID, text).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return entity.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

func (s *Storage) GetCommentsByPollID(ctx context.Context, pollID int64) ([]entity.Comment, error) {
	const op = "storage.postgres.GetCommentsByPollID"

	query := `SELECT id, poll_id, user_id, text, created_at FROM comments WHERE poll_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var comments []entity.Comment
	for rows.Next() {
		var comment entity.Comment
		if err := rows.Scan(&comment.ID, &comment.PollID, &comment.UserID, &comment.Text, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return comments, nil
}

func (s *Storage) CountCommentsByPollID(ctx context.Context, pollID int64) (int, error) {
	const op = "storage.postgres.CountCommentsByPollID"

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE poll_id = $1`, pollID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (s *Storage) CountCommentsByUserID(ctx context.Context, userID int64) (int, error) {
	const op = "storage.postgres.CountCommentsByUserID"

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (s *Storage) SaveReport(ctx context.Context, pollID, userID int64, message string) (entity.Report, error) {
	const op = "storage.postgres.SaveReport"

	query := `INSERT INTO reports (poll_id, user_id, message) VALUES ($1, $2, $3) RETURNING id, created_at`

	report := entity.Report{PollID: pollID, UserID: userID, Message: message}
	if err := s.db.QueryRowContext(ctx, query, pollID, userID, message).Scan(&report.ID, &report.CreatedAt); err != nil {
		return entity.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	return report, nil
}

func (s *Storage) GetReportByID(ctx context.Context, id int64) (entity.Report, error) {
	const op = "storage.postgres.GetReportByID"

	query := `SELECT id, poll_id, user_id, message, closed, created_at FROM reports WHERE id = $1`

	var report entity.Report
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID, &report.PollID, &report.UserID, &report.Message, &report.Closed, &report.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Report{}, fmt.Errorf("%s: %w", op, repo.ErrReportNotFound)
		}
		return entity.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	return report, nil
}

func (s *Storage) CloseReport(ctx context.Context, id int64) error {
	const op = "storage.postgres.CloseReport"

	res, err := s.db.ExecContext(ctx, `UPDATE reports SET closed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrReportNotFound
	}

	return nil
}

func (s *Storage) GetOpenReports(ctx context.Context) ([]entity.Report, error) {
	const op = "storage.postgres.GetOpenReports"

	query := `SELECT id, poll_id, user_id, message, closed, created_at
              FROM reports WHERE closed = FALSE ORDER BY created_at DESC`

	return s.queryReports(ctx, op, query)
}

func (s *Storage) GetReportsByUserID(ctx context.Context, userID int64) ([]entity.Report, error) {
	const op = "storage.postgres.GetReportsByUserID"

	query := `SELECT id, poll_id, user_id, message, closed, created_at
              FROM reports WHERE user_id = $1 ORDER BY created_at DESC`

	return s.queryReports(ctx, op, query, userID)
}

func (s *Storage) queryReports(ctx context.Context, op, query string, args ...any) ([]entity.Report, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var reports []entity.Report
	for rows.Next() {
		var report entity.Report
		if err := rows.Scan(&report.ID, &report.PollID, &report.UserID, &report.Message, &report.Closed, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return reports, nil
}
