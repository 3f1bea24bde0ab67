package services

import (
	"context"

	"github.com/freng35/simple-votings/internal/entity"
)

type PollStorage interface {
	SavePoll(ctx context.Context, poll entity.Poll) (int64, error)
	GetPollByID(ctx context.Context, id int64) (entity.Poll, error)
	GetPolls(ctx context.Context) ([]entity.Poll, error)
	GetPollsByCreatorID(ctx context.Context, creatorID int64) ([]entity.Poll, error)
	ApplyPollEdit(ctx context.Context, edit entity.PollEdit) error
	DeletePoll(ctx context.Context, id int64) error
}

type OptionStorage interface {
	SaveOption(ctx context.Context, pollID int64, text string) (int64, error)
	GetOptionByID(ctx context.Context, id int64) (entity.Option, error)
	GetOptionsByPollID(ctx context.Context, pollID int64) ([]entity.Option, error)
}

type VoteStorage interface {
	SaveVote(ctx context.Context, vote entity.Vote, pollScope bool) (int64, bool, error)
	GetVotesByPollID(ctx context.Context, pollID int64) ([]entity.Vote, error)
	GetVotesByOptionID(ctx context.Context, optionID int64) ([]entity.Vote, error)
	CountVotesByPollID(ctx context.Context, pollID int64) (int, error)
	CountVotesOnPollsByCreator(ctx context.Context, creatorID int64) (int, error)
}

type LikeStorage interface {
	GetLike(ctx context.Context, pollID, userID int64) (entity.Like, error)
	SaveLike(ctx context.Context, pollID, userID int64) (int64, error)
	DeleteLike(ctx context.Context, id int64) error
	CountLikesByPollID(ctx context.Context, pollID int64) (int, error)
	CountLikesOnPollsByCreator(ctx context.Context, creatorID int64) (int, error)
}

type CommentStorage interface {
	SaveComment(ctx context.Context, pollID, userID int64, text string) (entity.Comment, error)
	GetCommentsByPollID(ctx context.Context, pollID int64) ([]entity.Comment, error)
	CountCommentsByPollID(ctx context.Context, pollID int64) (int, error)
	CountCommentsByUserID(ctx context.Context, userID int64) (int, error)
}

type ReportStorage interface {
	SaveReport(ctx context.Context, pollID, userID int64, message string) (entity.Report, error)
	GetReportByID(ctx context.Context, id int64) (entity.Report, error)
	CloseReport(ctx context.Context, id int64) error
	GetOpenReports(ctx context.Context) ([]entity.Report, error)
	GetReportsByUserID(ctx context.Context, userID int64) ([]entity.Report, error)
}

type UserStorage interface {
	SaveUser(ctx context.Context, email string, passHash []byte) (int64, error)
	UserByEmail(ctx context.Context, email string) (entity.User, error)
	UserByID(ctx context.Context, id int64) (entity.User, error)
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

type ProfileStorage interface {
	SaveProfile(ctx context.Context, userID int64) error
	GetProfile(ctx context.Context, userID int64) (entity.Profile, error)
	UpdateProfile(ctx context.Context, profile entity.Profile) error
}
