package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"avotrade/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id, username, password_hash, role FROM users WHERE LOWER(username) = LOWER(?)`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.Persistence("user.get", err)
	}
	return &u, nil
}

// Upsert creates the account or replaces its password hash when the username exists.
func (r *UserRepo) Upsert(ctx context.Context, username, hash, role string) (*domain.User, error) {
	existing, err := r.ByUsername(ctx, username)
	switch {
	case err == nil:
		if _, err := r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE users SET password_hash = ?, role = ? WHERE id = ?`), hash, role, existing.ID); err != nil {
			return nil, domain.Persistence("user.update", err)
		}
		existing.Hash, existing.Role = hash, role
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	u := &domain.User{ID: uuid.NewString(), Username: username, Hash: hash, Role: role}
	if _, err := r.DB.ExecContext(ctx, r.DB.Rebind(`INSERT INTO users (id, username, password_hash, role) VALUES (?, ?, ?, ?)`),
		u.ID, u.Username, u.Hash, u.Role); err != nil {
		return nil, domain.Persistence("user.create", err)
	}
	return u, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, domain.Persistence("user.count", err)
	}
	return n, nil
}
