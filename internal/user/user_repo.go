package user

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	GetIncentiveRates(ctx context.Context, userID string) (IncentiveRates, error)
	AdminEmails(ctx context.Context) ([]string, error)
	LockForBalance(ctx context.Context, userID string) error
	CountAll(ctx context.Context) (int64, error)
	CountAdmins(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *repository) GetIncentiveRates(ctx context.Context, userID string) (IncentiveRates, error) {
	var u User
	err := r.db.WithContext(ctx).
		Select("morning_incentive", "evening_incentive", "role").
		Where("id = ?", userID).
		First(&u).Error
	if err != nil {
		return IncentiveRates{}, err
	}

	// Admins do not participate in the incentive scheme; zero rates mean
	// their punches never mint credit events.
	if u.Role == RoleAdmin {
		return IncentiveRates{}, nil
	}

	rates := IncentiveRates{
		Morning: DefaultIncentiveRate,
		Evening: DefaultIncentiveRate,
	}
	if u.MorningIncentive != nil {
		rates.Morning = *u.MorningIncentive
	}
	if u.EveningIncentive != nil {
		rates.Evening = *u.EveningIncentive
	}
	return rates, nil
}

func (r *repository) AdminEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("role = ?", RoleAdmin).
		Order("created_at ASC").
		Pluck("email", &emails).Error
	return emails, err
}

// LockForBalance takes a row lock on the user so concurrent balance
// check-then-deduct sequences serialize per user. Must run inside the
// caller's transaction.
func (r *repository) LockForBalance(ctx context.Context, userID string) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID)
		return err
	}
	var u User
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", userID).
		First(&u).Error
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, err
}

func (r *repository) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("role = ?", RoleAdmin).Count(&n).Error
	return n, err
}
