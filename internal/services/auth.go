package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/freng35/simple-votings/internal/lib/jwt"
	"github.com/freng35/simple-votings/internal/repo"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

type Auth struct {
	log            *slog.Logger
	userStorage    UserStorage
	profileStorage ProfileStorage
	secret         string
	tokenTTL       time.Duration
}

func NewAuth(log *slog.Logger, userStorage UserStorage, profileStorage ProfileStorage, secret string, tokenTTL time.Duration) *Auth {
	return &Auth{
		log:            log,
		userStorage:    userStorage,
		profileStorage: profileStorage,
		secret:         secret,
		tokenTTL:       tokenTTL,
	}
}

// Register creates a user and, explicitly, its profile row. Profile creation
// is part of the registration call, not a write-triggered side effect.
func (a *Auth) Register(ctx context.Context, email, password string) (int64, error) {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op), slog.String("email", email))

	if email == "" || password == "" {
		return 0, &ValidationError{Fields: []string{"email and password are required"}}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.userStorage.SaveUser(ctx, email, passHash)
	if err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			log.Warn("user already exists")
			return 0, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.EnsureProfile(ctx, id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int64("userID", id))

	return id, nil
}

// Login verifies the credentials and issues an access token.
func (a *Auth) Login(ctx context.Context, email, password string) (string, int64, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op), slog.String("email", email))

	user, err := a.userStorage.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			log.Warn("user not found")
			return "", 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials")
		return "", 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := jwt.NewAccessToken(user, a.secret, a.tokenTTL)
	if err != nil {
		log.Error("failed to issue token", slog.String("error", err.Error()))
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.Int64("userID", user.ID))

	return token, user.ID, nil
}

// EnsureProfile creates the profile row for a user if it is missing.
// Idempotent.
func (a *Auth) EnsureProfile(ctx context.Context, userID int64) error {
	const op = "auth.EnsureProfile"

	if err := a.profileStorage.SaveProfile(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
