package credit

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeMorning = "morning"
	TypeEvening = "evening"
)

// CreditEvent records that a user earned an incentive amount for a morning
// or evening attendance condition on one business date. Rows are written
// exactly once and never updated; the unique (user_id, date, type) index is
// what caps earnings at one credit per type per day, even under concurrent
// punches.
type CreditEvent struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_credit_events_user_date_type"`
	Date   time.Time `gorm:"column:date;type:date;not null;uniqueIndex:uq_credit_events_user_date_type"`
	Type   string    `gorm:"column:type;type:varchar(10);not null;uniqueIndex:uq_credit_events_user_date_type"`
	Amount int64     `gorm:"column:amount;not null"`
}

func (CreditEvent) TableName() string {
	return "credit_events"
}

// DayCredits is the recorded morning/evening/total for one business date.
type DayCredits struct {
	Date          time.Time
	MorningCredit int64
	EveningCredit int64
	TotalCredit   int64
}
