package booking

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"consulthub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Status string
	Q      string // matches name, email or company
	Limit  int    // 1-100, default 20; negative means no limit
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const bookingColumns = `id, name, email, phone, company, service_id, preferred_date, message, locale, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (models.Booking, error) {
	var b models.Booking
	var phone, company, serviceID, date, message, locale sql.NullString
	err := s.Scan(&b.ID, &b.Name, &b.Email, &phone, &company, &serviceID, &date, &message, &locale,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	b.Phone = phone.String
	b.Company = company.String
	b.ServiceID = serviceID.String
	b.PreferredDate = date.String
	b.Message = message.String
	b.Locale = locale.String
	return b, err
}

func (r *Repo) Create(ctx context.Context, b models.Booking) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Name, b.Email, b.Phone, b.Company, b.ServiceID, b.PreferredDate, b.Message, b.Locale,
		b.Status, b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	if err != nil {
		return eris.Wrap(err, "booking: insert")
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "booking: get by id")
	}
	return &b, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	var total int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, eris.Wrap(err, "booking: count")
	}
	return total, nil
}

// List returns bookings newest first.
func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Booking, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, eris.Wrap(err, "booking: list")
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, eris.Wrap(err, "booking: list scan")
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "booking: list rows")
	}
	return out, nil
}

// UpdateStatus sets the status and returns the updated booking, or nil when
// the id is unknown.
func (r *Repo) UpdateStatus(ctx context.Context, id, status string, at time.Time) (*models.Booking, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, updated_at = ?
		WHERE id = ?
	`, status, at.UTC(), id)
	if err != nil {
		return nil, eris.Wrap(err, "booking: update status")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, eris.Wrap(err, "booking: update status rows")
	}
	if affected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + bookingColumns + ` FROM bookings`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM bookings`
	}

	var where []string
	var args []any

	if s := strings.ToLower(strings.TrimSpace(q.Status)); s != "" {
		where = append(where, "status = ?")
		args = append(args, s)
	}

	if kw := strings.ToLower(strings.TrimSpace(q.Q)); kw != "" {
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?)")
		like := "%" + kw + "%"
		args = append(args, like, like, like)
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY created_at DESC, id ASC"
		limit := q.Limit
		switch {
		case limit < 0:
			limit = -1
		case limit == 0 || limit > 100:
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		sqlStr += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
