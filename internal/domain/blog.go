package domain

import "time"

// Estados de publicación de un blog.
const (
	BlogStatusPublished = "published"
	BlogStatusDraft     = "draft"
)

type Blog struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	Image      string    `json:"image"`
	Author     string    `json:"author"`
	Status     string    `json:"status"`
	Tags       []string  `json:"tags"`
	IsFeatured bool      `json:"is_featured"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
