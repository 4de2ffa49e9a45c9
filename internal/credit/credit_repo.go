package credit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -source=credit_repo.go -destination=mock/credit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	UpsertMorning(ctx context.Context, userID string, date time.Time, amount int64) error
	UpsertEvening(ctx context.Context, userID string, date time.Time, amount int64) error
	SumEarned(ctx context.Context, userID string) (int64, error)
	SumEarnedInMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) (int64, error)
	GetByDate(ctx context.Context, userID string, date time.Time) (DayCredits, error)
	ListEarningsByMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) ([]DayCredits, error)
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

// upsert inserts a credit event, treating a duplicate (user, date, type) as
// a no-op. The ON CONFLICT clause is the concurrency control here; no
// application-level dedup is involved.
func (r *repository) upsert(ctx context.Context, userID string, date time.Time, creditType string, amount int64) error {
	_, err := r.q().ExecContext(ctx,
		`INSERT INTO credit_events (user_id, date, type, amount)
		 VALUES ($1, $2::date, $3, $4)
		 ON CONFLICT (user_id, date, type) DO NOTHING`,
		userID, date.Format("2006-01-02"), creditType, amount,
	)
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

func (r *repository) UpsertMorning(ctx context.Context, userID string, date time.Time, amount int64) error {
	return r.upsert(ctx, userID, date, TypeMorning, amount)
}

func (r *repository) UpsertEvening(ctx context.Context, userID string, date time.Time, amount int64) error {
	return r.upsert(ctx, userID, date, TypeEvening, amount)
}

func (r *repository) SumEarned(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.q().QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM credit_events WHERE user_id = $1`,
		userID,
	).Scan(&total)
	return total, err
}

func (r *repository) SumEarnedInMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) (int64, error) {
	var total int64
	err := r.q().QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM credit_events
		 WHERE user_id = $1 AND date >= $2::date AND date < $3::date`,
		userID, monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02"),
	).Scan(&total)
	return total, err
}

func (r *repository) GetByDate(ctx context.Context, userID string, date time.Time) (DayCredits, error) {
	dc := DayCredits{Date: date}
	err := r.q().QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN type = 'morning' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'evening' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(amount), 0)
		 FROM credit_events
		 WHERE user_id = $1 AND date = $2::date`,
		userID, date.Format("2006-01-02"),
	).Scan(&dc.MorningCredit, &dc.EveningCredit, &dc.TotalCredit)
	return dc, err
}

func (r *repository) ListEarningsByMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) ([]DayCredits, error) {
	rows, err := r.q().QueryContext(ctx,
		`SELECT date,
			SUM(CASE WHEN type = 'morning' THEN amount ELSE 0 END),
			SUM(CASE WHEN type = 'evening' THEN amount ELSE 0 END),
			SUM(amount)
		 FROM credit_events
		 WHERE user_id = $1 AND date >= $2::date AND date < $3::date
		 GROUP BY date
		 ORDER BY date`,
		userID, monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02"),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DayCredits
	for rows.Next() {
		var dc DayCredits
		if err := rows.Scan(&dc.Date, &dc.MorningCredit, &dc.EveningCredit, &dc.TotalCredit); err != nil {
			return nil, err
		}
		days = append(days, dc)
	}
	return days, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
