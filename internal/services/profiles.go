package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/repo"
)

type Profiles struct {
	log            *slog.Logger
	userStorage    UserStorage
	profileStorage ProfileStorage
	pollStorage    PollStorage
	voteStorage    VoteStorage
	likeStorage    LikeStorage
	commentStorage CommentStorage
}

func NewProfiles(
	log *slog.Logger,
	userStorage UserStorage,
	profileStorage ProfileStorage,
	pollStorage PollStorage,
	voteStorage VoteStorage,
	likeStorage LikeStorage,
	commentStorage CommentStorage,
) *Profiles {
	return &Profiles{
		log:            log,
		userStorage:    userStorage,
		profileStorage: profileStorage,
		pollStorage:    pollStorage,
		voteStorage:    voteStorage,
		likeStorage:    likeStorage,
		commentStorage: commentStorage,
	}
}

// GetProfile returns the profile with the aggregates shown on the profile
// page. The email is blanked unless the owner opted into showing it.
func (p *Profiles) GetProfile(ctx context.Context, userID int64) (entity.ProfileView, error) {
	const op = "profiles.GetProfile"

	user, err := p.userStorage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return entity.ProfileView{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return entity.ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := p.profileStorage.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrProfileNotFound) {
			return entity.ProfileView{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return entity.ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}

	view := entity.ProfileView{Profile: profile, RegisteredAt: user.CreatedAt}
	if profile.ShowEmail {
		view.Email = user.Email
	}

	polls, err := p.pollStorage.GetPollsByCreatorID(ctx, userID)
	if err != nil {
		return entity.ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}
	view.PollsCount = len(polls)

	if view.LikesReceived, err = p.likeStorage.CountLikesOnPollsByCreator(ctx, userID); err != nil {
		return entity.ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}
	if view.VotesReceived, err = p.voteStorage.CountVotesOnPollsByCreator(ctx, userID); err != nil {
		return entity.ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}
	if view.CommentsWritten, err = p.commentStorage.CountCommentsByUserID(ctx, userID); err != nil {
		return entity.ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}

	return view, nil
}

// UpdateProfile writes the scalar profile fields. Owners only; avatar
// handling lives outside this service.
func (p *Profiles) UpdateProfile(ctx context.Context, userID, requesterID int64, profile entity.Profile) error {
	const op = "profiles.UpdateProfile"

	if userID != requesterID {
		p.log.Warn("profile update denied",
			slog.String("op", op), slog.Int64("userID", userID), slog.Int64("requesterID", requesterID))
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	profile.UserID = userID
	if err := p.profileStorage.UpdateProfile(ctx, profile); err != nil {
		if errors.Is(err, repo.ErrProfileNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
