package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/utils"
)

// AdminRepo persists admin accounts.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

const adminColumns = "id, username, password_hash, role, created_at, last_login"

// Create hashes password at the given bcrypt cost and inserts a new admin,
// returning its id. The username is stored as given.
func (r *AdminRepo) Create(ctx context.Context, username, password, role string, cost int) (uint64, error) {
	hash, err := utils.NewPasswordHasher(cost).Hash(password)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admin_users (username, password_hash, role) VALUES (?,?,?)",
		username, hash, role)
	if err != nil {
		if isDuplicateKey(err) {
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

// GetByUsername fetches an admin by exact username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+adminColumns+" FROM admin_users WHERE username = ? LIMIT 1", username)
	return scanAdmin(row)
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (*model.AdminUser, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+adminColumns+" FROM admin_users WHERE id = ? LIMIT 1", id)
	return scanAdmin(row)
}

// TouchLastLogin records a successful login.
func (r *AdminRepo) TouchLastLogin(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE admin_users SET last_login = ? WHERE id = ?", at.UTC(), id)
	return err
}

// UpdatePasswordHash replaces the stored hash in a single statement.
func (r *AdminRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE admin_users SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanAdmin(s scanner) (*model.AdminUser, error) {
	var (
		a         model.AdminUser
		lastLogin sql.NullTime
	)
	if err := s.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt, &lastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLogin = &t
	}
	return &a, nil
}
