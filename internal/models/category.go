package models

import "time"

// Category groups posts. Name and slug are both unique across all
// categories. The slug is assigned at creation and immutable afterwards;
// slug regeneration is not this service's concern.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:80;uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"size:15;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
