package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Admin is a back-office account allowed to read and triage bookings.
type Admin struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	TokenVersion int
	CreatedAt    time.Time
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const adminColumns = `id, username, email, password_hash, token_version, created_at`

func (r *Repo) CreateAdmin(ctx context.Context, a Admin) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO admins (id, username, email, password_hash)
		VALUES (?, ?, ?, ?)
	`, a.ID, a.Username, strings.ToLower(a.Email), a.PasswordHash)
	if err != nil {
		return eris.Wrap(err, "auth: create admin")
	}
	return nil
}

func (r *Repo) scanOne(row *sql.Row, what string) (*Admin, error) {
	var a Admin
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.TokenVersion, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "auth: get by %s", what)
	}
	return &a, nil
}

// GetByLogin finds an admin by email or username.
func (r *Repo) GetByLogin(ctx context.Context, login string) (*Admin, error) {
	login = strings.TrimSpace(login)
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+adminColumns+`
		FROM admins
		WHERE LOWER(email) = ? OR username = ?
	`, strings.ToLower(login), login)
	return r.scanOne(row, "login")
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Admin, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+adminColumns+`
		FROM admins
		WHERE id = ?
	`, id)
	return r.scanOne(row, "id")
}

func (r *Repo) GetTokenVersion(ctx context.Context, id string) (int, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT token_version FROM admins WHERE id = ?`, id)

	var version int
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, eris.New("auth: admin not found")
		}
		return 0, eris.Wrap(err, "auth: get token version")
	}
	return version, nil
}

func (r *Repo) UpdatePasswordAndBumpTokenVersion(ctx context.Context, id string, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE admins
		SET password_hash = ?, token_version = token_version + 1
		WHERE id = ?
	`, passwordHash, id)
	if err != nil {
		return eris.Wrap(err, "auth: update password")
	}
	return requireAffected(res, "auth: update password")
}

func (r *Repo) BumpTokenVersion(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE admins
		SET token_version = token_version + 1
		WHERE id = ?
	`, id)
	if err != nil {
		return eris.Wrap(err, "auth: bump token version")
	}
	return requireAffected(res, "auth: bump token version")
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "%s rows", op)
	}
	if affected == 0 {
		return eris.Errorf("%s: admin not found", op)
	}
	return nil
}
