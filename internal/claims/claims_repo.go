package claims

import (
	"context"
	"database/sql"
	"time"
)

//go:generate mockgen -source=claims_repo.go -destination=mock/claims_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, c *CreditsClaim) error
	SumClaimed(ctx context.Context, userID string) (int64, error)
	SumClaimedInMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) (int64, error)
	ListByMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) ([]CreditsClaim, error)
	ListUserTotalsSince(ctx context.Context, since time.Time) ([]UserClaimTotals, error)
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

func (r *repository) Insert(ctx context.Context, c *CreditsClaim) error {
	_, err := r.q().ExecContext(ctx,
		`INSERT INTO credits_claims (id, user_id, amount, note, claimed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.UserID, c.Amount, c.Note, c.ClaimedAt,
	)
	return err
}

func (r *repository) SumClaimed(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.q().QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM credits_claims WHERE user_id = $1`,
		userID,
	).Scan(&total)
	return total, err
}

func (r *repository) SumClaimedInMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) (int64, error) {
	var total int64
	err := r.q().QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM credits_claims
		 WHERE user_id = $1 AND claimed_at >= $2 AND claimed_at < $3`,
		userID, monthStart, monthEnd,
	).Scan(&total)
	return total, err
}

func (r *repository) ListByMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) ([]CreditsClaim, error) {
	rows, err := r.q().QueryContext(ctx,
		`SELECT id, user_id, amount, note, claimed_at
		 FROM credits_claims
		 WHERE user_id = $1 AND claimed_at >= $2 AND claimed_at < $3
		 ORDER BY claimed_at DESC`,
		userID, monthStart, monthEnd,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []CreditsClaim
	for rows.Next() {
		var c CreditsClaim
		if err := rows.Scan(&c.ID, &c.UserID, &c.Amount, &c.Note, &c.ClaimedAt); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// ListUserTotalsSince returns, per active user, the amount claimed since the
// given instant alongside the all-time total. Used by the summary mailer.
func (r *repository) ListUserTotalsSince(ctx context.Context, since time.Time) ([]UserClaimTotals, error) {
	rows, err := r.q().QueryContext(ctx,
		`SELECT u.id, u.email,
			COALESCE(SUM(cc.amount) FILTER (WHERE cc.claimed_at >= $1), 0),
			COALESCE(SUM(cc.amount), 0)
		 FROM users u
		 LEFT JOIN credits_claims cc ON cc.user_id = u.id
		 WHERE u.deleted_at IS NULL
		 GROUP BY u.id, u.email
		 ORDER BY u.email ASC`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []UserClaimTotals
	for rows.Next() {
		var t UserClaimTotals
		if err := rows.Scan(&t.UserID, &t.Email, &t.PeriodClaimed, &t.TotalClaimed); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
