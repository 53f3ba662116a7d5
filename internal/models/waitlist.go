package models

import "time"

// WaitlistSubscriber is a row of waitlist_subscribers. Rows are insert-only.
type WaitlistSubscriber struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_waitlist_subscribers_email"`
	FirstName *string   `gorm:"type:varchar(100)"`
	LastName  *string   `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"not null"`
}

func (WaitlistSubscriber) TableName() string {
	return "waitlist_subscribers"
}
