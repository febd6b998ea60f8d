package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikif9/user-account-service/internal/model"
)

const uniqueViolationCode = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a user and returns the server-assigned record. A unique
// username violation surfaces as model.ErrUserAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, username string, passwordDigest string, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_digest, email)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, password_digest, email, created_at`,
		username, passwordDigest, email).
		Scan(&u.ID, &u.Username, &u.PasswordDigest, &u.Email, &u.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return model.User{}, model.ErrUserAlreadyExists
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_digest, email, created_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.PasswordDigest, &u.Email, &u.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_digest, email, created_at
		 FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordDigest, &u.Email, &u.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// Update applies only the supplied fields. PasswordDigest must already be
// hashed by the caller.
func (r *UserRepository) Update(ctx context.Context, id int64, username *string, email *string, passwordDigest *string) error {
	assignments := make([]string, 0, 3)
	args := make([]any, 0, 4)

	appendAssignment := func(column string, value string) {
		args = append(args, value)
		assignments = append(assignments, column+" = $"+strconv.Itoa(len(args)))
	}

	if username != nil {
		appendAssignment("username", *username)
	}
	if email != nil {
		appendAssignment("email", *email)
	}
	if passwordDigest != nil {
		appendAssignment("password_digest", *passwordDigest)
	}

	if len(assignments) == 0 {
		return model.ErrInvalidInput
	}

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(assignments, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
