// Package postgres implements the PostgreSQL persistence layer for the
// registration service.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pediforte/registry/internal/domain/admin"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AdminRepository implements admin.Repository for PostgreSQL.
type AdminRepository struct {
	conn *Connection
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(conn *Connection) *AdminRepository {
	return &AdminRepository{conn: conn}
}

// Create creates a new admin.
func (r *AdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO admins (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.Username, a.Email, a.PasswordHash, a.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return admin.ErrAdminAlreadyExists
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// GetByID returns an admin by id.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*admin.Admin, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM admins
		WHERE id = $1
	`, id)
	return r.scanAdmin(row)
}

// GetByUsername returns an admin by username.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM admins
		WHERE username = $1
	`, username)
	return r.scanAdmin(row)
}

// Count returns the total number of admins.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

// scanAdmin scans an admin row.
func (r *AdminRepository) scanAdmin(row pgx.Row) (*admin.Admin, error) {
	var a admin.Admin

	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, admin.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to scan admin: %w", err)
	}
	return &a, nil
}
