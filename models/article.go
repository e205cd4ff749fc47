package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article is a magazine entry. Content holds the editor's rich document tree
// as raw JSON; rendering to HTML happens at read time.
type Article struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(256);not null" json:"title"`
	Slug        string         `gorm:"type:varchar(256);uniqueIndex;not null" json:"slug"`
	Content     string         `gorm:"type:jsonb;not null" json:"-"`
	CoverURL    string         `gorm:"type:varchar(1024)" json:"cover_url"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Published   bool           `gorm:"not null;default:false" json:"published"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ArticleSummary is the list-view projection with derived reading metadata.
type ArticleSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	CoverURL    string     `json:"cover_url"`
	Excerpt     string     `json:"excerpt"`
	ReadingTime int        `json:"reading_time_minutes"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ArticleView is the detail-view projection with rendered HTML.
type ArticleView struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	CoverURL    string     `json:"cover_url"`
	HTML        string     `json:"html"`
	ReadingTime int        `json:"reading_time_minutes"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// CreateArticleRequest is the admin payload for drafting an article.
type CreateArticleRequest struct {
	Title    string          `json:"title" binding:"required,min=2,max=256"`
	Slug     string          `json:"slug" binding:"required,min=2,max=256"`
	Content  json.RawMessage `json:"content" binding:"required"`
	CoverURL string          `json:"cover_url"`
}

// UpdateArticleRequest is the admin payload for editing an article.
type UpdateArticleRequest struct {
	Title    *string         `json:"title"`
	Slug     *string         `json:"slug"`
	Content  json.RawMessage `json:"content"`
	CoverURL *string         `json:"cover_url"`
}
