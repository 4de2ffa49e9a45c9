package redeem

import (
	"time"

	"github.com/google/uuid"
)

// RedeemRequest is a pending ask to convert available balance into a
// recorded claim. Lifecycle: requested -> approved -> redeemed, or
// requested -> denied (deleted). Redeemed is terminal; the flag is the
// idempotency guard that keeps a request from ever crediting twice.
type RedeemRequest struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Amount     int64     `gorm:"column:amount;not null"`
	Note       *string   `gorm:"column:note;type:text"`
	AdminEmail string    `gorm:"column:admin_email;type:text;not null"`
	Approved   bool      `gorm:"column:approved;not null;default:false"`
	Redeemed   bool      `gorm:"column:redeemed;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamptz;not null"`
}

func (RedeemRequest) TableName() string {
	return "redeem_requests"
}
