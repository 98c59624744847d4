package models

import "time"

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique; the database index is
// what enforces at-most-one-like-per-pair, not application checks. Likes are
// created and hard-deleted only, never updated or soft-deleted.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
