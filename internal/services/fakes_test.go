package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"sort"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/repo"
)

var errOptionInsert = errors.New("option insert failed")

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStorage is an in-memory stand-in for the postgres storage, implementing
// every storage interface the services consume. It mirrors the SQL behavior
// the services rely on: sentinel errors, the guarded vote insert, and the
// cascades of poll deletion and option removal.
type fakeStorage struct {
	nextID   int64
	polls    map[int64]entity.Poll
	options  map[int64]entity.Option
	votes    map[int64]entity.Vote
	likes    map[int64]entity.Like
	comments map[int64]entity.Comment
	reports  map[int64]entity.Report
	users    map[int64]entity.User
	profiles map[int64]entity.Profile

	// failOptionText makes ApplyPollEdit error when inserting an option
	// with this text, after the rest of the edit has been staged.
	failOptionText string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		polls:    make(map[int64]entity.Poll),
		options:  make(map[int64]entity.Option),
		votes:    make(map[int64]entity.Vote),
		likes:    make(map[int64]entity.Like),
		comments: make(map[int64]entity.Comment),
		reports:  make(map[int64]entity.Report),
		users:    make(map[int64]entity.User),
		profiles: make(map[int64]entity.Profile),
	}
}

func (f *fakeStorage) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStorage) SavePoll(_ context.Context, poll entity.Poll) (int64, error) {
	poll.ID = f.id()
	f.polls[poll.ID] = poll
	return poll.ID, nil
}

func (f *fakeStorage) GetPollByID(_ context.Context, id int64) (entity.Poll, error) {
	poll, ok := f.polls[id]
	if !ok {
		return entity.Poll{}, repo.ErrPollNotFound
	}
	return poll, nil
}

func (f *fakeStorage) GetPolls(_ context.Context) ([]entity.Poll, error) {
	var polls []entity.Poll
	for _, poll := range f.polls {
		polls = append(polls, poll)
	}
	sort.Slice(polls, func(i, j int) bool { return polls[i].ID > polls[j].ID })
	return polls, nil
}

func (f *fakeStorage) GetPollsByCreatorID(_ context.Context, creatorID int64) ([]entity.Poll, error) {
	var polls []entity.Poll
	for _, poll := range f.polls {
		if poll.CreatorID == creatorID {
			polls = append(polls, poll)
		}
	}
	return polls, nil
}

func (f *fakeStorage) ApplyPollEdit(_ context.Context, edit entity.PollEdit) error {
	poll, ok := f.polls[edit.Poll.ID]
	if !ok {
		return repo.ErrPollNotFound
	}

	// Mutations are staged on copies and assigned back only when the whole
	// edit succeeds, mirroring the transaction in the SQL storage.
	votes := maps.Clone(f.votes)
	likes := maps.Clone(f.likes)
	options := maps.Clone(f.options)

	if edit.QuestionChanged {
		for id, vote := range votes {
			if vote.PollID == edit.Poll.ID {
				delete(votes, id)
			}
		}
		for id, like := range likes {
			if like.PollID == edit.Poll.ID {
				delete(likes, id)
			}
		}
	}

	poll.Question = edit.Poll.Question
	poll.EndDate = edit.Poll.EndDate
	poll.AllowMultiple = edit.Poll.AllowMultiple
	poll.AllowAnonymous = edit.Poll.AllowAnonymous

	for _, optionID := range edit.RemoveOptionIDs {
		delete(options, optionID)
		for id, vote := range votes {
			if vote.OptionID == optionID {
				delete(votes, id)
			}
		}
	}

	for _, text := range edit.AddOptionTexts {
		if f.failOptionText != "" && text == f.failOptionText {
			return errOptionInsert
		}
		option := entity.Option{ID: f.id(), PollID: poll.ID, Text: text}
		options[option.ID] = option
	}

	f.polls[poll.ID] = poll
	f.votes = votes
	f.likes = likes
	f.options = options

	return nil
}

func (f *fakeStorage) DeletePoll(_ context.Context, id int64) error {
	if _, ok := f.polls[id]; !ok {
		return repo.ErrPollNotFound
	}
	delete(f.polls, id)
	for optionID, option := range f.options {
		if option.PollID == id {
			delete(f.options, optionID)
		}
	}
	for voteID, vote := range f.votes {
		if vote.PollID == id {
			delete(f.votes, voteID)
		}
	}
	for likeID, like := range f.likes {
		if like.PollID == id {
			delete(f.likes, likeID)
		}
	}
	for commentID, comment := range f.comments {
		if comment.PollID == id {
			delete(f.comments, commentID)
		}
	}
	for reportID, report := range f.reports {
		if report.PollID == id {
			delete(f.reports, reportID)
		}
	}
	return nil
}

func (f *fakeStorage) SaveOption(_ context.Context, pollID int64, text string) (int64, error) {
	option := entity.Option{ID: f.id(), PollID: pollID, Text: text}
	f.options[option.ID] = option
	return option.ID, nil
}

func (f *fakeStorage) GetOptionByID(_ context.Context, id int64) (entity.Option, error) {
	option, ok := f.options[id]
	if !ok {
		return entity.Option{}, repo.ErrOptionNotFound
	}
	return option, nil
}

func (f *fakeStorage) GetOptionsByPollID(_ context.Context, pollID int64) ([]entity.Option, error) {
	var options []entity.Option
	for _, option := range f.options {
		if option.PollID == pollID {
			options = append(options, option)
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].ID < options[j].ID })
	return options, nil
}

func (f *fakeStorage) SaveVote(_ context.Context, vote entity.Vote, pollScope bool) (int64, bool, error) {
	identity := entity.Identity{IP: vote.VoterIP}
	if vote.UserID != nil {
		identity = entity.Identity{UserID: *vote.UserID}
	}
	for _, existing := range f.votes {
		inScope := existing.OptionID == vote.OptionID
		if pollScope {
			inScope = existing.PollID == vote.PollID
		}
		if inScope && identity.Matches(existing) {
			return 0, false, nil
		}
	}
	vote.ID = f.id()
	f.votes[vote.ID] = vote
	return vote.ID, true, nil
}

func (f *fakeStorage) GetVotesByPollID(_ context.Context, pollID int64) ([]entity.Vote, error) {
	var votes []entity.Vote
	for _, vote := range f.votes {
		if vote.PollID == pollID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

func (f *fakeStorage) GetVotesByOptionID(_ context.Context, optionID int64) ([]entity.Vote, error) {
	var votes []entity.Vote
	for _, vote := range f.votes {
		if vote.OptionID == optionID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

func (f *fakeStorage) CountVotesByPollID(_ context.Context, pollID int64) (int, error) {
	count := 0
	for _, vote := range f.votes {
		if vote.PollID == pollID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStorage) CountVotesOnPollsByCreator(_ context.Context, creatorID int64) (int, error) {
	count := 0
	for _, vote := range f.votes {
		if poll, ok := f.polls[vote.PollID]; ok && poll.CreatorID == creatorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStorage) GetLike(_ context.Context, pollID, userID int64) (entity.Like, error) {
	for _, like := range f.likes {
		if like.PollID == pollID && like.UserID == userID {
			return like, nil
		}
	}
	return entity.Like{}, repo.ErrLikeNotFound
}

func (f *fakeStorage) SaveLike(_ context.Context, pollID, userID int64) (int64, error) {
	like := entity.Like{ID: f.id(), PollID: pollID, UserID: userID}
	f.likes[like.ID] = like
	return like.ID, nil
}

func (f *fakeStorage) DeleteLike(_ context.Context, id int64) error {
	if _, ok := f.likes[id]; !ok {
		return repo.ErrLikeNotFound
	}
	delete(f.likes, id)
	return nil
}

func (f *fakeStorage) CountLikesByPollID(_ context.Context, pollID int64) (int, error) {
	count := 0
	for _, like := range f.likes {
		if like.PollID == pollID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStorage) CountLikesOnPollsByCreator(_ context.Context, creatorID int64) (int, error) {
	count := 0
	for _, like := range f.likes {
		if poll, ok := f.polls[like.PollID]; ok && poll.CreatorID == creatorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStorage) SaveComment(_ context.Context, pollID, userID int64, text string) (entity.Comment, error) {
	comment := entity.Comment{ID: f.id(), PollID: pollID, UserID: userID, Text: text}
	f.comments[comment.ID] = comment
	return comment, nil
}

func (f *fakeStorage) GetCommentsByPollID(_ context.Context, pollID int64) ([]entity.Comment, error) {
	var comments []entity.Comment
	for _, comment := range f.comments {
		if comment.PollID == pollID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (f *fakeStorage) CountCommentsByPollID(_ context.Context, pollID int64) (int, error) {
	comments, _ := f.GetCommentsByPollID(context.Background(), pollID)
	return len(comments), nil
}

func (f *fakeStorage) CountCommentsByUserID(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, comment := range f.comments {
		if comment.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStorage) SaveReport(_ context.Context, pollID, userID int64, message string) (entity.Report, error) {
	report := entity.Report{ID: f.id(), PollID: pollID, UserID: userID, Message: message}
	f.reports[report.ID] = report
	return report, nil
}

func (f *fakeStorage) GetReportByID(_ context.Context, id int64) (entity.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return entity.Report{}, repo.ErrReportNotFound
	}
	return report, nil
}

func (f *fakeStorage) CloseReport(_ context.Context, id int64) error {
	report, ok := f.reports[id]
	if !ok {
		return repo.ErrReportNotFound
	}
	report.Closed = true
	f.reports[id] = report
	return nil
}

func (f *fakeStorage) GetOpenReports(_ context.Context) ([]entity.Report, error) {
	var reports []entity.Report
	for _, report := range f.reports {
		if !report.Closed {
			reports = append(reports, report)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	return reports, nil
}

func (f *fakeStorage) GetReportsByUserID(_ context.Context, userID int64) ([]entity.Report, error) {
	var reports []entity.Report
	for _, report := range f.reports {
		if report.UserID == userID {
			reports = append(reports, report)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	return reports, nil
}

func (f *fakeStorage) SaveUser(_ context.Context, email string, passHash []byte) (int64, error) {
	for _, user := range f.users {
		if user.Email == email {
			return 0, repo.ErrUserExists
		}
	}
	user := entity.User{ID: f.id(), Email: email, PassHash: passHash}
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeStorage) UserByEmail(_ context.Context, email string) (entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return entity.User{}, repo.ErrUserNotFound
}

func (f *fakeStorage) UserByID(_ context.Context, id int64) (entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return entity.User{}, repo.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStorage) IsAdmin(_ context.Context, userID int64) (bool, error) {
	user, ok := f.users[userID]
	if !ok {
		return false, repo.ErrUserNotFound
	}
	return user.IsAdmin, nil
}

func (f *fakeStorage) SaveProfile(_ context.Context, userID int64) error {
	if _, ok := f.profiles[userID]; ok {
		return nil
	}
	f.profiles[userID] = entity.Profile{UserID: userID}
	return nil
}

func (f *fakeStorage) GetProfile(_ context.Context, userID int64) (entity.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return entity.Profile{}, repo.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeStorage) UpdateProfile(_ context.Context, profile entity.Profile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return repo.ErrProfileNotFound
	}
	f.profiles[profile.UserID] = profile
	return nil
}

// Test setup helpers.

func (f *fakeStorage) addUser(email string, isAdmin bool) int64 {
	user := entity.User{ID: f.id(), Email: email, IsAdmin: isAdmin}
	f.users[user.ID] = user
	return user.ID
}

func (f *fakeStorage) addPoll(poll entity.Poll) int64 {
	poll.ID = f.id()
	f.polls[poll.ID] = poll
	return poll.ID
}

func (f *fakeStorage) addOption(pollID int64, text string) int64 {
	option := entity.Option{ID: f.id(), PollID: pollID, Text: text}
	f.options[option.ID] = option
	return option.ID
}

func (f *fakeStorage) addVote(pollID, optionID int64, identity entity.Identity) int64 {
	vote := entity.Vote{ID: f.id(), PollID: pollID, OptionID: optionID, VoterIP: identity.IP}
	if identity.Authenticated() {
		userID := identity.UserID
		vote.UserID = &userID
		vote.VoterIP = ""
	}
	f.votes[vote.ID] = vote
	return vote.ID
}

func (f *fakeStorage) addLike(pollID, userID int64) int64 {
	like := entity.Like{ID: f.id(), PollID: pollID, UserID: userID}
	f.likes[like.ID] = like
	return like.ID
}
