package models

// Category groups titles by kind (film, book, music and so on).
type Category struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(256);not null"`
	Slug string `json:"slug" gorm:"type:varchar(50);not null;uniqueIndex"`
}

// Genre tags titles. A title may carry several genres.
type Genre struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(256);not null"`
	Slug string `json:"slug" gorm:"type:varchar(50);not null;uniqueIndex"`
}
