package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/repo"
)

// Votes is the vote ledger. It validates and records casts; a cast that the
// rules reject (closed poll, duplicate identity) is dropped without an error
// so the response never tells a probing client whether the vote landed.
type Votes struct {
	log           *slog.Logger
	pollStorage   PollStorage
	optionStorage OptionStorage
	voteStorage   VoteStorage
}

func NewVotes(log *slog.Logger, pollStorage PollStorage, optionStorage OptionStorage, voteStorage VoteStorage) *Votes {
	return &Votes{
		log:           log,
		pollStorage:   pollStorage,
		optionStorage: optionStorage,
		voteStorage:   voteStorage,
	}
}

// CastVote records one vote for the option under the poll's multiplicity
// rules. Deduplication is keyed by user id for authenticated identities and
// by client IP otherwise. With AllowMultiple off one vote per identity is
// allowed across the whole poll; with it on, one per option. The
// AllowAnonymous flag is stored on the poll but not consulted here.
func (v *Votes) CastVote(ctx context.Context, pollID, optionID int64, identity entity.Identity) error {
	const op = "votes.CastVote"

	log := v.log.With(slog.String("op", op), slog.Int64("optionID", optionID))

	option, err := v.optionStorage.GetOptionByID(ctx, optionID)
	if err != nil {
		if errors.Is(err, repo.ErrOptionNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if option.PollID != pollID {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	poll, err := v.pollStorage.GetPollByID(ctx, option.PollID)
	if err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if poll.ClosedAt(time.Now()) {
		log.Debug("vote dropped: poll closed", slog.Int64("pollID", poll.ID))
		return nil
	}

	if dup, err := v.hasVoted(ctx, poll, option, identity); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if dup {
		log.Debug("vote dropped: duplicate identity", slog.Int64("pollID", poll.ID))
		return nil
	}

	vote := entity.Vote{
		PollID:   poll.ID,
		OptionID: option.ID,
		VoterIP:  identity.IP,
	}
	if identity.Authenticated() {
		userID := identity.UserID
		vote.UserID = &userID
		vote.VoterIP = ""
	}

	// pollScope mirrors the dedup rule. The storage serializes concurrent
	// same-identity casts: a per-poll advisory lock for poll scope, the
	// unique indexes for option scope.
	_, inserted, err := v.voteStorage.SaveVote(ctx, vote, !poll.AllowMultiple)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !inserted {
		log.Debug("vote dropped: lost insert race", slog.Int64("pollID", poll.ID))
	}

	return nil
}

func (v *Votes) hasVoted(ctx context.Context, poll entity.Poll, option entity.Option, identity entity.Identity) (bool, error) {
	var (
		votes []entity.Vote
		err   error
	)
	if poll.AllowMultiple {
		votes, err = v.voteStorage.GetVotesByOptionID(ctx, option.ID)
	} else {
		votes, err = v.voteStorage.GetVotesByPollID(ctx, poll.ID)
	}
	if err != nil {
		return false, err
	}

	for _, vote := range votes {
		if identity.Matches(vote) {
			return true, nil
		}
	}
	return false, nil
}
