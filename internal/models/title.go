package models

// Title is a work that users review.
type Title struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(256);not null;index"`
	Year        int       `gorm:"not null;index"`
	Description string    `gorm:"type:text"`
	CategoryID  *uint     `gorm:"index"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL;"`
	Genres      []Genre   `gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`

	// Rating is the average review score, filled only by queries that select it.
	Rating *float64 `gorm:"->;-:migration"`
}
