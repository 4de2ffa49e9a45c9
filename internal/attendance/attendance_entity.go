package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is one login/logout pair. LogoutTime stays NULL while the
// session is open; at most one open session exists per user.
type Attendance struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	LoginTime  time.Time  `gorm:"column:login_time;type:timestamptz;not null"`
	LogoutTime *time.Time `gorm:"column:logout_time;type:timestamptz"`
}

func (Attendance) TableName() string {
	return "attendance"
}

// DayBounds are the first login and last logout recorded for one business
// date. Either side may be nil when nothing was recorded.
type DayBounds struct {
	FirstLogin *time.Time
	LastLogout *time.Time
}
