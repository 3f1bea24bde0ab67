package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/repo"
)

type Engagement struct {
	log            *slog.Logger
	pollStorage    PollStorage
	likeStorage    LikeStorage
	commentStorage CommentStorage
	reportStorage  ReportStorage
	userStorage    UserStorage
}

func NewEngagement(
	log *slog.Logger,
	pollStorage PollStorage,
	likeStorage LikeStorage,
	commentStorage CommentStorage,
	reportStorage ReportStorage,
	userStorage UserStorage,
) *Engagement {
	return &Engagement{
		log:            log,
		pollStorage:    pollStorage,
		likeStorage:    likeStorage,
		commentStorage: commentStorage,
		reportStorage:  reportStorage,
		userStorage:    userStorage,
	}
}

// ToggleLike flips the user's like on a poll and reports the resulting state.
// Two calls in a row restore whatever was there before.
func (e *Engagement) ToggleLike(ctx context.Context, pollID, userID int64) (bool, error) {
	const op = "engagement.ToggleLike"

	if _, err := e.pollStorage.GetPollByID(ctx, pollID); err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return false, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	like, err := e.likeStorage.GetLike(ctx, pollID, userID)
	switch {
	case err == nil:
		if err := e.likeStorage.DeleteLike(ctx, like.ID); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return false, nil
	case errors.Is(err, repo.ErrLikeNotFound):
		if _, err := e.likeStorage.SaveLike(ctx, pollID, userID); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("%s: %w", op, err)
	}
}

func (e *Engagement) AddComment(ctx context.Context, pollID, userID int64, text string) (entity.Comment, error) {
	const op = "engagement.AddComment"

	if strings.TrimSpace(text) == "" {
		return entity.Comment{}, &ValidationError{Fields: []string{"comment text is empty"}}
	}

	if _, err := e.pollStorage.GetPollByID(ctx, pollID); err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return entity.Comment{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return entity.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	comment, err := e.commentStorage.SaveComment(ctx, pollID, userID, text)
	if err != nil {
		return entity.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

func (e *Engagement) FileReport(ctx context.Context, pollID, userID int64, message string) (entity.Report, error) {
	const op = "engagement.FileReport"

	if strings.TrimSpace(message) == "" {
		return entity.Report{}, &ValidationError{Fields: []string{"report message is empty"}}
	}

	if _, err := e.pollStorage.GetPollByID(ctx, pollID); err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return entity.Report{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return entity.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	report, err := e.reportStorage.SaveReport(ctx, pollID, userID, message)
	if err != nil {
		return entity.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	e.log.Info("report filed",
		slog.String("op", op), slog.Int64("pollID", pollID), slog.Int64("userID", userID))

	return report, nil
}

// CloseReport marks a report handled. Administrators only.
func (e *Engagement) CloseReport(ctx context.Context, reportID, requesterID int64) error {
	const op = "engagement.CloseReport"

	isAdmin, err := e.userStorage.IsAdmin(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !isAdmin {
		e.log.Warn("close report denied",
			slog.String("op", op), slog.Int64("reportID", reportID), slog.Int64("requesterID", requesterID))
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if err := e.reportStorage.CloseReport(ctx, reportID); err != nil {
		if errors.Is(err, repo.ErrReportNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListReports returns the open queue together with the requester's own
// filings. Any authenticated user sees the queue; only closing it is
// restricted to administrators.
func (e *Engagement) ListReports(ctx context.Context, requesterID int64) (open, own []entity.Report, err error) {
	const op = "engagement.ListReports"

	open, err = e.reportStorage.GetOpenReports(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	own, err = e.reportStorage.GetReportsByUserID(ctx, requesterID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return open, own, nil
}
