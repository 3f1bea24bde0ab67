package services

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freng35/simple-votings/internal/lib/jwt"
)

const (
	testSecret     = "test-secret"
	passDefaultLen = 10
)

func newAuthService(f *fakeStorage) *Auth {
	return NewAuth(newTestLogger(), f, f, testSecret, time.Hour)
}

func randomFakePassword() string {
	return gofakeit.Password(true, true, true, true, false, passDefaultLen)
}

func TestRegister_CreatesUserAndProfile(t *testing.T) {
	f := newFakeStorage()
	auth := newAuthService(f)

	email := gofakeit.Email()
	userID, err := auth.Register(context.Background(), email, randomFakePassword())
	require.NoError(t, err)

	user, err := f.UserByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, email, user.Email)
	assert.NotEmpty(t, user.PassHash)

	// Registration creates the profile row explicitly.
	_, err = f.GetProfile(context.Background(), userID)
	require.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFakeStorage()
	auth := newAuthService(f)

	email := gofakeit.Email()
	_, err := auth.Register(context.Background(), email, randomFakePassword())
	require.NoError(t, err)

	_, err = auth.Register(context.Background(), email, randomFakePassword())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegister_EmptyFields(t *testing.T) {
	f := newFakeStorage()
	auth := newAuthService(f)

	_, err := auth.Register(context.Background(), "", randomFakePassword())
	require.Error(t, err)
	_, ok := AsValidationError(err)
	assert.True(t, ok)
}

func TestEnsureProfile_Idempotent(t *testing.T) {
	f := newFakeStorage()
	auth := newAuthService(f)

	userID, err := auth.Register(context.Background(), gofakeit.Email(), randomFakePassword())
	require.NoError(t, err)

	require.NoError(t, auth.EnsureProfile(context.Background(), userID))
	require.NoError(t, auth.EnsureProfile(context.Background(), userID))

	_, err = f.GetProfile(context.Background(), userID)
	require.NoError(t, err)
}

func TestLogin_Success(t *testing.T) {
	f := newFakeStorage()
	auth := newAuthService(f)

	email := gofakeit.Email()
	password := randomFakePassword()
	userID, err := auth.Register(context.Background(), email, password)
	require.NoError(t, err)

	token, loggedID, err := auth.Login(context.Background(), email, password)
	require.NoError(t, err)
	assert.Equal(t, userID, loggedID)

	claims, err := jwt.Parse(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, email, claims.Email)
	assert.False(t, claims.IsAdmin)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFakeStorage()
	auth := newAuthService(f)

	email := gofakeit.Email()
	_, err := auth.Register(context.Background(), email, randomFakePassword())
	require.NoError(t, err)

	_, _, err = auth.Login(context.Background(), email, randomFakePassword())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newFakeStorage()
	auth := newAuthService(f)

	_, _, err := auth.Login(context.Background(), gofakeit.Email(), randomFakePassword())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
