package model

import "time"

// Subscription means UserID follows AuthorID.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscriptions_user_author,priority:1;check:chk_subscriptions_no_self,user_id <> author_id" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_subscriptions_user_author,priority:2;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
