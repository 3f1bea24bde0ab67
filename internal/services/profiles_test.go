package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freng35/simple-votings/internal/entity"
)

func newProfilesService(f *fakeStorage) *Profiles {
	return NewProfiles(newTestLogger(), f, f, f, f, f, f)
}

func TestGetProfile_Stats(t *testing.T) {
	f := newFakeStorage()
	profiles := newProfilesService(f)
	owner := f.addUser("owner@test.com", false)
	other := f.addUser("other@test.com", false)
	require.NoError(t, f.SaveProfile(context.Background(), owner))

	pollID := f.addPoll(entity.Poll{Question: "Q", CreatorID: owner})
	optionA := f.addOption(pollID, "A")
	f.addVote(pollID, optionA, entity.Identity{UserID: other})
	f.addVote(pollID, optionA, entity.Identity{IP: "10.0.0.1"})
	f.addLike(pollID, other)
	_, err := f.SaveComment(context.Background(), pollID, owner, "thanks for voting")
	require.NoError(t, err)

	view, err := profiles.GetProfile(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 1, view.PollsCount)
	assert.Equal(t, 2, view.VotesReceived)
	assert.Equal(t, 1, view.LikesReceived)
	assert.Equal(t, 1, view.CommentsWritten)
}

func TestGetProfile_EmailHiddenByDefault(t *testing.T) {
	f := newFakeStorage()
	profiles := newProfilesService(f)
	userID := f.addUser("user@test.com", false)
	require.NoError(t, f.SaveProfile(context.Background(), userID))

	view, err := profiles.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, view.Email)

	require.NoError(t, f.UpdateProfile(context.Background(), entity.Profile{UserID: userID, ShowEmail: true}))

	view, err = profiles.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "user@test.com", view.Email)
}

func TestGetProfile_UnknownUser(t *testing.T) {
	f := newFakeStorage()
	profiles := newProfilesService(f)

	_, err := profiles.GetProfile(context.Background(), 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile_SelfOnly(t *testing.T) {
	f := newFakeStorage()
	profiles := newProfilesService(f)
	userID := f.addUser("user@test.com", false)
	other := f.addUser("other@test.com", false)
	require.NoError(t, f.SaveProfile(context.Background(), userID))

	err := profiles.UpdateProfile(context.Background(), userID, other, entity.Profile{Job: "hacker"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, profiles.UpdateProfile(context.Background(), userID, userID, entity.Profile{
		Job:     "engineer",
		Country: "NL",
	}))

	profile, err := f.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "engineer", profile.Job)
	assert.Equal(t, "NL", profile.Country)
}
