package claims

import (
	"time"

	"github.com/google/uuid"
)

// CreditsClaim is one successful deduction from a user's available balance.
// The table is an append-only transaction log; rows are never updated or
// deleted, so earned-minus-claimed always reconciles.
type CreditsClaim struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Amount    int64     `gorm:"column:amount;not null"`
	Note      *string   `gorm:"column:note;type:text"`
	ClaimedAt time.Time `gorm:"column:claimed_at;type:timestamptz;not null"`
}

func (CreditsClaim) TableName() string {
	return "credits_claims"
}

// UserClaimTotals backs the periodic admin summary emails.
type UserClaimTotals struct {
	UserID        uuid.UUID
	Email         string
	PeriodClaimed int64
	TotalClaimed  int64
}
