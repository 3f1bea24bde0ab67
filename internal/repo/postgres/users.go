package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/repo"
	"github.com/lib/pq"
)

func (s *Storage) SaveUser(ctx context.Context, email string, passHash []byte) (int64, error) {
	const op = "storage.postgres.SaveUser"

	query := `INSERT INTO users (email, pass_hash) VALUES ($1, $2) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, email, passHash).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, repo.ErrUserExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (entity.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `SELECT id, email, pass_hash, is_admin, created_at FROM users WHERE email = $1`

	var user entity.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PassHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, fmt.Errorf("%s: %w", op, repo.ErrUserNotFound)
		}
		return entity.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id int64) (entity.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT id, email, pass_hash, is_admin, created_at FROM users WHERE id = $1`

	var user entity.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PassHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, fmt.Errorf("%s: %w", op, repo.ErrUserNotFound)
		}
		return entity.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	const op = "storage.postgres.IsAdmin"

	var isAdmin bool
	err := s.db.QueryRowContext(ctx, `SELECT is_admin FROM users WHERE id = $1`, userID).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, repo.ErrUserNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return isAdmin, nil
}

// SaveProfile creates the profile row for a user if it does not exist yet.
func (s *Storage) SaveProfile(ctx context.Context, userID int64) error {
	const op = "storage.postgres.SaveProfile"

	query := `INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetProfile(ctx context.Context, userID int64) (entity.Profile, error) {
	const op = "storage.postgres.GetProfile"

	query := `SELECT user_id, job, biography, gender, country, birth, show_email
              FROM profiles WHERE user_id = $1`

	var profile entity.Profile
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.Job, &profile.Biography, &profile.Gender,
		&profile.Country, &profile.Birth, &profile.ShowEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Profile{}, fmt.Errorf("%s: %w", op, repo.ErrProfileNotFound)
		}
		return entity.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return profile, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, profile entity.Profile) error {
	const op = "storage.postgres.UpdateProfile"

	query := `UPDATE profiles SET job = $1, biography = $2, gender = $3, country = $4, birth = $5, show_email = $6
              WHERE user_id = $7`

	res, err := s.db.ExecContext(ctx, query,
		profile.Job, profile.Biography, profile.Gender, profile.Country,
		profile.Birth, profile.ShowEmail, profile.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrProfileNotFound
	}

	return nil
}
