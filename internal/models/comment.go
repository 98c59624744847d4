// Package models contains data structures for the application's domain models.
package models

import "time"

// TombstonePlaceholder replaces the body of a comment that was deleted while
// it still had replies. The substitution is permanent.
const TombstonePlaceholder = "[deleted]"

// DeletionOutcome describes what DeleteComment actually did.
type DeletionOutcome string

const (
	// OutcomeTombstoned means the comment had replies, so it was retained
	// with its content replaced by TombstonePlaceholder.
	OutcomeTombstoned DeletionOutcome = "tombstoned"
	// OutcomeHardDeleted means the comment had no replies and the record
	// was removed entirely.
	OutcomeHardDeleted DeletionOutcome = "hard_deleted"
	// OutcomeAlreadyTombstoned means the comment was tombstoned before the
	// call; the operation was a no-op. This is a success, not an error.
	OutcomeAlreadyTombstoned DeletionOutcome = "already_tombstoned"
)

// Comment represents a comment on a post. Threads are one level deep: a
// top-level comment (ParentID nil) may have replies, replies may not.
//
// Comments do not use gorm soft deletion. Deletion state is the explicit
// Tombstoned flag so the placeholder substitution is a pure function of the
// state transition; childless comments are removed outright instead.
type Comment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Content    string     `gorm:"type:varchar(2000);not null" json:"content"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	PostID     uint       `gorm:"not null;index" json:"post_id"`
	ParentID   *uint      `gorm:"index" json:"parent_id,omitempty"`
	Tombstoned bool       `gorm:"not null;default:false" json:"tombstoned"`
	User       User       `gorm:"foreignKey:UserID" json:"user"`
	Replies    []*Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
