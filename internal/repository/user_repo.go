package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-travel-planner/internal/model"
)

const userColumns = `id, full_name, email, password_hash, role, COALESCE(avatar, ''), created_at, updated_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, full_name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)

	created, err := scanUser(row)
	if err != nil {
		if pgCode(err) == pgerrcode.UniqueViolation {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == pgerrcode.InvalidTextRepresentation {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// UpdateProfile writes only the non-empty fields of patch and returns the
// stored row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch, now time.Time) (model.User, error) {
	query, args, err := buildProfileUpdate(id, patch, now)
	if err != nil {
		return model.User{}, fmt.Errorf("build profile update: %w", err)
	}

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return model.User{}, model.ErrUserNotFound
	case pgCode(err) == pgerrcode.UniqueViolation:
		return model.User{}, model.ErrEmailTaken
	case err != nil:
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func buildProfileUpdate(id string, patch model.ProfilePatch, now time.Time) (string, []any, error) {
	b := psql.Update("users").Set("updated_at", now)
	if patch.FullName != "" {
		b = b.Set("full_name", patch.FullName)
	}
	if patch.Email != "" {
		b = b.Set("email", patch.Email)
	}
	if patch.PasswordHash != "" {
		b = b.Set("password_hash", patch.PasswordHash)
	}
	if patch.Avatar != "" {
		b = b.Set("avatar", patch.Avatar)
	}

	return b.Where(sq.Eq{"id": id}).Suffix("RETURNING " + userColumns).ToSql()
}
