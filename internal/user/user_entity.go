package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email            string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password         string         `gorm:"column:password;type:text;not null"`
	Role             string         `gorm:"column:role;type:varchar(20);not null;default:user"`
	MorningIncentive *int64         `gorm:"column:morning_incentive"`
	EveningIncentive *int64         `gorm:"column:evening_incentive"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}

// DefaultIncentiveRate applies when a user has no explicit rate configured.
const DefaultIncentiveRate int64 = 100

// IncentiveRates are the per-user credit amounts for morning and evening
// eligibility. Non-positive values mean "no credit" and are honored as-is;
// only NULL columns fall back to the default.
type IncentiveRates struct {
	Morning int64
	Evening int64
}
