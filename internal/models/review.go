package models

import "time"

// Review is a user's scored opinion about a title.
type Review struct {
	ID       uint      `gorm:"primaryKey"`
	TitleID  uint      `gorm:"not null;index"`
	Title    *Title    `gorm:"constraint:OnDelete:CASCADE;"`
	AuthorID uint      `gorm:"not null;index"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE;"`
	Text     string    `gorm:"type:text;not null"`
	Score    int       `gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `gorm:"autoCreateTime;index"`
}

// OwnerID returns the author of the review.
func (r *Review) OwnerID() uint { return r.AuthorID }

// Comment is a reply to a review.
type Comment struct {
	ID       uint      `gorm:"primaryKey"`
	ReviewID uint      `gorm:"not null;index"`
	Review   *Review   `gorm:"constraint:OnDelete:CASCADE;"`
	AuthorID uint      `gorm:"not null;index"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE;"`
	Text     string    `gorm:"type:text;not null"`
	PubDate  time.Time `gorm:"autoCreateTime;index"`
}

// OwnerID returns the author of the comment.
func (c *Comment) OwnerID() uint { return c.AuthorID }

// All lists every model managed by the schema migrator, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Genre{},
		&Title{},
		&Review{},
		&Comment{},
	}
}
