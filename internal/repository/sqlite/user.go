package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/workshop/pkg/models"
	"github.com/garnizeh/workshop/pkg/repository"
)

func (r *SQLiteRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, username, password, email, role, created_at FROM users WHERE username = ?`, username)
	var u models.User
	var email sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &email, &u.Role, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	u.Email = nullString(email)

	return &u, nil
}

// SetPassword replaces the stored hash for username.
func (r *SQLiteRepo) SetPassword(ctx context.Context, username, passwordHash string) error {
	if passwordHash == "" {
		return fmt.Errorf("password hash is empty")
	}

	res, err := r.conn.Exec(ctx, `UPDATE users SET password = ? WHERE username = ?`, passwordHash, username)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	return nil
}
