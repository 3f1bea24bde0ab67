package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/repo"
)

const (
	minPollOptions = 2
	maxPollOptions = 25
)

// PollInput is an incoming create/edit request with every field already
// resolved at the boundary: checkbox presence folded into the booleans, an
// empty end date folded into nil.
type PollInput struct {
	Question       string
	Options        []string
	EndDate        *time.Time
	AllowMultiple  bool
	AllowAnonymous bool
}

type Polls struct {
	log            *slog.Logger
	pollStorage    PollStorage
	optionStorage  OptionStorage
	voteStorage    VoteStorage
	likeStorage    LikeStorage
	commentStorage CommentStorage
	userStorage    UserStorage
}

func NewPolls(
	log *slog.Logger,
	pollStorage PollStorage,
	optionStorage OptionStorage,
	voteStorage VoteStorage,
	likeStorage LikeStorage,
	commentStorage CommentStorage,
	userStorage UserStorage,
) *Polls {
	return &Polls{
		log:            log,
		pollStorage:    pollStorage,
		optionStorage:  optionStorage,
		voteStorage:    voteStorage,
		likeStorage:    likeStorage,
		commentStorage: commentStorage,
		userStorage:    userStorage,
	}
}

func validatePollInput(input PollInput) error {
	var fields []string

	if strings.TrimSpace(input.Question) == "" {
		fields = append(fields, "poll question is empty")
	}
	if len(input.Options) < minPollOptions || len(input.Options) > maxPollOptions {
		fields = append(fields, "invalid number of options")
	}
	for _, option := range input.Options {
		if strings.TrimSpace(option) == "" {
			fields = append(fields, "not all option fields are filled")
			break
		}
	}
	if input.EndDate != nil {
		today := time.Now()
		probe := entity.Poll{EndDate: input.EndDate}
		if probe.ClosedAt(today) {
			fields = append(fields, "end date must be in the future")
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (p *Polls) CreatePoll(ctx context.Context, creatorID int64, input PollInput) (int64, error) {
	const op = "polls.CreatePoll"

	log := p.log.With(slog.String("op", op), slog.Int64("creatorID", creatorID))

	if err := validatePollInput(input); err != nil {
		return 0, err
	}

	poll := entity.Poll{
		Question:       strings.TrimSpace(input.Question),
		CreatorID:      creatorID,
		EndDate:        input.EndDate,
		AllowMultiple:  input.AllowMultiple,
		AllowAnonymous: input.AllowAnonymous,
	}

	pollID, err := p.pollStorage.SavePoll(ctx, poll)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, text := range input.Options {
		if _, err := p.optionStorage.SaveOption(ctx, pollID, text); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("poll created", slog.Int64("pollID", pollID))

	return pollID, nil
}

// GetPoll loads a poll with its tallies and the viewer annotations: which
// options this identity already voted for and whether it liked the poll.
func (p *Polls) GetPoll(ctx context.Context, id int64, viewer entity.Identity) (entity.PollDetails, error) {
	const op = "polls.GetPoll"

	poll, err := p.pollStorage.GetPollByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return entity.PollDetails{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return entity.PollDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	options, err := p.optionStorage.GetOptionsByPollID(ctx, id)
	if err != nil {
		return entity.PollDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	details := entity.PollDetails{
		Poll:   poll,
		Kind:   poll.Kind(),
		Closed: poll.ClosedAt(time.Now()),
	}

	for _, option := range options {
		votes, err := p.voteStorage.GetVotesByOptionID(ctx, option.ID)
		if err != nil {
			return entity.PollDetails{}, fmt.Errorf("%s: %w", op, err)
		}
		details.Options = append(details.Options, entity.OptionResult{Option: option, VotesCount: len(votes)})
		details.VotesCount += len(votes)

		for _, vote := range votes {
			if viewer.Matches(vote) {
				details.VotedOptionIDs = append(details.VotedOptionIDs, option.ID)
				break
			}
		}
	}

	details.LikesCount, err = p.likeStorage.CountLikesByPollID(ctx, id)
	if err != nil {
		return entity.PollDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	if viewer.Authenticated() {
		_, err := p.likeStorage.GetLike(ctx, id, viewer.UserID)
		switch {
		case err == nil:
			details.LikedByViewer = true
		case errors.Is(err, repo.ErrLikeNotFound):
		default:
			return entity.PollDetails{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	details.Comments, err = p.commentStorage.GetCommentsByPollID(ctx, id)
	if err != nil {
		return entity.PollDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	return details, nil
}

func (p *Polls) ListPolls(ctx context.Context) ([]entity.PollSummary, error) {
	const op = "polls.ListPolls"

	polls, err := p.pollStorage.GetPolls(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summaries := make([]entity.PollSummary, 0, len(polls))
	for _, poll := range polls {
		summary := entity.PollSummary{
			Poll:   poll,
			Kind:   poll.Kind(),
			Closed: poll.ClosedAt(time.Now()),
		}

		if summary.VotesCount, err = p.voteStorage.CountVotesByPollID(ctx, poll.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if summary.LikesCount, err = p.likeStorage.CountLikesByPollID(ctx, poll.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if summary.CommentsCount, err = p.commentStorage.CountCommentsByPollID(ctx, poll.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// EditPoll applies an edit on behalf of the poll owner. A changed question
// text makes the edit destructive: every vote and like on the poll is wiped,
// since the poll now effectively asks something else. Options are reconciled
// by text; matches survive with their votes, the rest are replaced. The whole
// edit is one storage transaction.
func (p *Polls) EditPoll(ctx context.Context, pollID, requesterID int64, input PollInput) error {
	const op = "polls.EditPoll"

	log := p.log.With(slog.String("op", op), slog.Int64("pollID", pollID))

	poll, err := p.pollStorage.GetPollByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if poll.CreatorID != requesterID {
		log.Warn("edit denied", slog.Int64("requesterID", requesterID))
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if err := validatePollInput(input); err != nil {
		return err
	}

	existing, err := p.optionStorage.GetOptionsByPollID(ctx, pollID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	question := strings.TrimSpace(input.Question)
	edit := entity.PollEdit{
		Poll: entity.Poll{
			ID:             pollID,
			Question:       question,
			CreatorID:      poll.CreatorID,
			EndDate:        input.EndDate,
			AllowMultiple:  input.AllowMultiple,
			AllowAnonymous: input.AllowAnonymous,
		},
		QuestionChanged: poll.Question != question,
	}

	// Options whose text is absent from the submission are dropped; each
	// submitted text then consumes at most one surviving option, and the
	// leftovers are created fresh.
	remaining := slices.Clone(input.Options)
	for _, option := range existing {
		if !slices.Contains(remaining, option.Text) {
			edit.RemoveOptionIDs = append(edit.RemoveOptionIDs, option.ID)
		}
	}
	for _, option := range existing {
		if i := slices.Index(remaining, option.Text); i >= 0 {
			remaining = slices.Delete(remaining, i, i+1)
		}
	}
	edit.AddOptionTexts = remaining

	if err := p.pollStorage.ApplyPollEdit(ctx, edit); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("poll edited", slog.Bool("destructive", edit.QuestionChanged))

	return nil
}

func (p *Polls) DeletePoll(ctx context.Context, pollID, requesterID int64) error {
	const op = "polls.DeletePoll"

	log := p.log.With(slog.String("op", op), slog.Int64("pollID", pollID))

	poll, err := p.pollStorage.GetPollByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if poll.CreatorID != requesterID {
		isAdmin, err := p.userStorage.IsAdmin(ctx, requesterID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !isAdmin {
			log.Warn("delete denied", slog.Int64("requesterID", requesterID))
			return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
		}
	}

	if err := p.pollStorage.DeletePoll(ctx, pollID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("poll deleted", slog.Int64("requesterID", requesterID))

	return nil
}
