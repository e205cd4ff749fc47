package services

import (
	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/richtext"
)

// ArticleRenderer projects stored articles into their public shapes. The
// conversions are total, so an article with malformed content renders as
// empty rather than failing the page.
type ArticleRenderer struct {
	wordsPerMinute int
	excerptLength  int
}

// NewArticleRenderer creates a renderer; non-positive arguments fall back to
// the richtext defaults.
func NewArticleRenderer(wordsPerMinute, excerptLength int) *ArticleRenderer {
	return &ArticleRenderer{
		wordsPerMinute: wordsPerMinute,
		excerptLength:  excerptLength,
	}
}

// Summary builds the list-view projection.
func (r *ArticleRenderer) Summary(article *models.Article) models.ArticleSummary {
	doc := richtext.ParseDocument([]byte(article.Content))
	return models.ArticleSummary{
		ID:          article.ID,
		Title:       article.Title,
		Slug:        article.Slug,
		CoverURL:    article.CoverURL,
		Excerpt:     richtext.Excerpt(doc, r.excerptLength),
		ReadingTime: richtext.ReadingTime(doc, r.wordsPerMinute),
		PublishedAt: article.PublishedAt,
	}
}

// View builds the detail-view projection with rendered HTML.
func (r *ArticleRenderer) View(article *models.Article) *models.ArticleView {
	doc := richtext.ParseDocument([]byte(article.Content))
	return &models.ArticleView{
		ID:          article.ID,
		Title:       article.Title,
		Slug:        article.Slug,
		CoverURL:    article.CoverURL,
		HTML:        richtext.ToHTML(doc),
		ReadingTime: richtext.ReadingTime(doc, r.wordsPerMinute),
		PublishedAt: article.PublishedAt,
	}
}
