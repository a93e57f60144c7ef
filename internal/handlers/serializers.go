package handlers

import (
	"time"

	"yamdb/internal/models"
)

type titleRead struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *float64         `json:"rating"`
	Description string           `json:"description"`
	Genre       []models.Genre   `json:"genre"`
	Category    *models.Category `json:"category"`
}

type titleWrite struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category"`
}

type reviewOut struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type commentOut struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func newTitleRead(t *models.Title) titleRead {
	genres := t.Genres
	if genres == nil {
		genres = []models.Genre{}
	}
	return titleRead{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       genres,
		Category:    t.Category,
	}
}

func newTitleWrite(t *models.Title) titleWrite {
	out := titleWrite{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       make([]string, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		out.Genre = append(out.Genre, g.Slug)
	}
	if t.Category != nil {
		out.Category = &t.Category.Slug
	}
	return out
}

func authorName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

func newReviewOut(r *models.Review) reviewOut {
	return reviewOut{ID: r.ID, Text: r.Text, Author: authorName(r.Author), Score: r.Score, PubDate: r.PubDate}
}

func newCommentOut(c *models.Comment) commentOut {
	return commentOut{ID: c.ID, Text: c.Text, Author: authorName(c.Author), PubDate: c.PubDate}
}
