package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aylinkal/band-events/internal/model"
	"github.com/aylinkal/band-events/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. The password is hashed with
// bcrypt before storage; a duplicate username maps to ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, username, firstName, password, role string, cost int) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, first_name, password_hash, role) VALUES (?,?,?,?)",
		username, firstName, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,first_name,password_hash,role,created_at FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.FirstName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,first_name,password_hash,role,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.FirstName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// DeleteByID removes a user and every dependent row in one transaction:
// likes, comments, sessions and bookings. The schema carries ON DELETE
// CASCADE as a backstop, but cleanup is spelled out here so the booking
// image paths can be collected and their files released after commit.
func (r *UserRepo) DeleteByID(ctx context.Context, id uint64) ([]string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	images, err := collectImagePaths(ctx, tx,
		"SELECT image_path FROM bookings WHERE user_id = ? AND image_path IS NOT NULL", id)
	if err != nil {
		return nil, err
	}
	for _, q := range []string{
		"DELETE FROM likes WHERE user_id = ?",
		"DELETE FROM upcoming_event_likes WHERE user_id = ?",
		"DELETE FROM comments WHERE user_id = ?",
		"DELETE FROM sessions WHERE user_id = ?",
		"DELETE FROM bookings WHERE user_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return nil, err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return images, nil
}

// collectImagePaths scans a single-column query of nullable image paths.
func collectImagePaths(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, rows.Err()
}
