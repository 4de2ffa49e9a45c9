package redeem

import (
	"context"
	"database/sql"
)

//go:generate mockgen -source=redeem_repo.go -destination=mock/redeem_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *RedeemRequest) error
	FindByID(ctx context.Context, id string) (*RedeemRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*RedeemRequest, error)
	ListByUser(ctx context.Context, userID string) ([]RedeemRequest, error)
	ListAll(ctx context.Context) ([]RedeemRequest, error)
	CountPending(ctx context.Context) (int64, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	MarkRedeemed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
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

const selectColumns = `id, user_id, amount, note, admin_email, approved, redeemed, created_at`

func scanRequest(row interface{ Scan(...any) error }) (*RedeemRequest, error) {
	var req RedeemRequest
	err := row.Scan(
		&req.ID, &req.UserID, &req.Amount, &req.Note,
		&req.AdminEmail, &req.Approved, &req.Redeemed, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) Create(ctx context.Context, req *RedeemRequest) error {
	_, err := r.q().ExecContext(ctx,
		`INSERT INTO redeem_requests (id, user_id, amount, note, admin_email, approved, redeemed, created_at)
		 VALUES ($1, $2, $3, $4, $5, FALSE, FALSE, $6)`,
		req.ID, req.UserID, req.Amount, req.Note, req.AdminEmail, req.CreatedAt,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*RedeemRequest, error) {
	return scanRequest(r.q().QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM redeem_requests WHERE id = $1`, id,
	))
}

// FindByIDForUpdate locks the request row; the redeemed-flag check and the
// transition to redeemed must happen under this lock so a request can
// credit at most once.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*RedeemRequest, error) {
	return scanRequest(r.q().QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM redeem_requests WHERE id = $1 FOR UPDATE`, id,
	))
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]RedeemRequest, error) {
	return r.list(ctx,
		`SELECT `+selectColumns+` FROM redeem_requests WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
}

func (r *repository) ListAll(ctx context.Context) ([]RedeemRequest, error) {
	return r.list(ctx,
		`SELECT `+selectColumns+` FROM redeem_requests ORDER BY created_at DESC`,
	)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]RedeemRequest, error) {
	rows, err := r.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []RedeemRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (r *repository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.q().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM redeem_requests WHERE redeemed = FALSE`,
	).Scan(&n)
	return n, err
}

func (r *repository) SetApproved(ctx context.Context, id string, approved bool) error {
	res, err := r.q().ExecContext(ctx,
		`UPDATE redeem_requests SET approved = $2 WHERE id = $1`, id, approved,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) MarkRedeemed(ctx context.Context, id string) error {
	res, err := r.q().ExecContext(ctx,
		`UPDATE redeem_requests SET redeemed = TRUE WHERE id = $1 AND redeemed = FALSE`, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.q().ExecContext(ctx,
		`DELETE FROM redeem_requests WHERE id = $1`, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
