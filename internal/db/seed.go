package db

import (
	"context"
	"fmt"

	"github.com/garnizeh/workshop/internal/auth"
)

// SeedAdmin creates the admin account when no user with that username exists.
// It reports whether a row was inserted; an existing account is never touched.
func SeedAdmin(ctx context.Context, d *DB, username, password, email string) (bool, error) {
	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&count); err != nil {
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	res, err := d.Exec(ctx, `INSERT OR IGNORE INTO users (username, password, email, role) VALUES (?, ?, ?, 'admin')`, username, hash, nullIfEmpty(email))
	if err != nil {
		return false, fmt.Errorf("insert admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
