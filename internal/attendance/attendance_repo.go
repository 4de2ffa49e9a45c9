package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	HasOpen(ctx context.Context, userID string) (bool, error)
	FindOpenForUpdate(ctx context.Context, userID string) (*Attendance, error)
	CloseOpen(ctx context.Context, id uuid.UUID, logoutTime time.Time) error
	DayBounds(ctx context.Context, userID string, date time.Time) (DayBounds, error)
	ListByDate(ctx context.Context, userID string, date time.Time) ([]Attendance, error)
	CountPresentOn(ctx context.Context, date time.Time) (int64, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

type querier interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (r *repository) q() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	_, err := r.q().ExecContext(ctx,
		`INSERT INTO attendance (id, user_id, login_time) VALUES ($1, $2, $3)`,
		a.ID, a.UserID, a.LoginTime,
	)
	return err
}

func (r *repository) HasOpen(ctx context.Context, userID string) (bool, error) {
	var one int
	err := r.q().QueryRowContext(ctx,
		`SELECT 1 FROM attendance WHERE user_id = $1 AND logout_time IS NULL LIMIT 1`,
		userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindOpenForUpdate locks the user's open session row so a concurrent
// punch-out cannot close the same record twice. Only meaningful inside a
// transaction.
func (r *repository) FindOpenForUpdate(ctx context.Context, userID string) (*Attendance, error) {
	var a Attendance
	err := r.q().QueryRowContext(ctx,
		`SELECT id, user_id, login_time, logout_time
		 FROM attendance
		 WHERE user_id = $1 AND logout_time IS NULL
		 ORDER BY login_time ASC
		 LIMIT 1
		 FOR UPDATE`,
		userID,
	).Scan(&a.ID, &a.UserID, &a.LoginTime, &a.LogoutTime)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) CloseOpen(ctx context.Context, id uuid.UUID, logoutTime time.Time) error {
	_, err := r.q().ExecContext(ctx,
		`UPDATE attendance SET logout_time = $2 WHERE id = $1 AND logout_time IS NULL`,
		id, logoutTime,
	)
	return err
}

func (r *repository) DayBounds(ctx context.Context, userID string, date time.Time) (DayBounds, error) {
	start := date
	end := date.AddDate(0, 0, 1)

	var bounds DayBounds
	err := r.q().QueryRowContext(ctx,
		`SELECT
			(SELECT MIN(login_time) FROM attendance
			 WHERE user_id = $1 AND login_time >= $2 AND login_time < $3),
			(SELECT MAX(logout_time) FROM attendance
			 WHERE user_id = $1 AND logout_time IS NOT NULL
			   AND logout_time >= $2 AND logout_time < $3)`,
		userID, start, end,
	).Scan(&bounds.FirstLogin, &bounds.LastLogout)
	if err != nil {
		return DayBounds{}, err
	}
	return bounds, nil
}

func (r *repository) ListByDate(ctx context.Context, userID string, date time.Time) ([]Attendance, error) {
	start := date
	end := date.AddDate(0, 0, 1)

	rows, err := r.q().QueryContext(ctx,
		`SELECT id, user_id, login_time, logout_time
		 FROM attendance
		 WHERE user_id = $1 AND login_time >= $2 AND login_time < $3
		 ORDER BY login_time ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(&a.ID, &a.UserID, &a.LoginTime, &a.LogoutTime); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *repository) CountPresentOn(ctx context.Context, date time.Time) (int64, error) {
	start := date
	end := date.AddDate(0, 0, 1)

	var n int64
	err := r.q().QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM attendance
		 WHERE login_time >= $1 AND login_time < $2`,
		start, end,
	).Scan(&n)
	return n, err
}
