package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/inherbver/herbisveritas-sub008/cache"
	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/services"
)

// ---- in-memory article repository ----

type fakeArticleRepo struct {
	byID      map[uuid.UUID]*models.Article
	slugCalls int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{byID: make(map[uuid.UUID]*models.Article)}
}

func (f *fakeArticleRepo) FindPublished(_ context.Context, _, _ int) ([]models.Article, int64, error) {
	var out []models.Article
	for _, a := range f.byID {
		if a.Published {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeArticleRepo) FindPublishedBySlug(_ context.Context, slug string) (*models.Article, error) {
	f.slugCalls++
	for _, a := range f.byID {
		if a.Slug == slug && a.Published {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeArticleRepo) FindAll(_ context.Context, _, _ int) ([]models.Article, int64, error) {
	var out []models.Article
	for _, a := range f.byID {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeArticleRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	if a, ok := f.byID[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeArticleRepo) Create(_ context.Context, article *models.Article) error {
	article.ID = uuid.New()
	stored := *article
	f.byID[article.ID] = &stored
	return nil
}

func (f *fakeArticleRepo) Update(_ context.Context, article *models.Article) error {
	stored := *article
	f.byID[article.ID] = &stored
	return nil
}

func (f *fakeArticleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

// ---- fixtures ----

const herbArticleContent = `{
	"type": "doc",
	"content": [
		{"type": "heading", "attrs": {"level": 2}, "content": [{"type": "text", "text": "Le thym"}]},
		{"type": "paragraph", "content": [
			{"type": "text", "text": "Une plante "},
			{"type": "text", "text": "essentielle", "marks": [{"type": "bold"}]},
			{"type": "text", "text": " du maquis."}
		]}
	]
}`

func publishedArticle(slug string) *models.Article {
	now := time.Now()
	return &models.Article{
		ID:          uuid.New(),
		Title:       "Le thym du maquis",
		Slug:        slug,
		Content:     herbArticleContent,
		AuthorID:    uuid.New(),
		Published:   true,
		PublishedAt: &now,
	}
}

func newMagazineFixture(t *testing.T) (services.MagazineService, *fakeArticleRepo) {
	t.Helper()
	repo := newFakeArticleRepo()
	logger, _ := zap.NewDevelopment()
	svc := services.NewMagazineService(repo, services.NewArticleRenderer(0, 0), cache.New(100), time.Minute, logger)
	return svc, repo
}

// ---- tests ----

func TestGetBySlug_RendersDocumentToHTML(t *testing.T) {
	svc, repo := newMagazineFixture(t)
	article := publishedArticle("le-thym")
	repo.byID[article.ID] = article

	view, svcErr := svc.GetBySlug(context.Background(), "le-thym")

	assert.Nil(t, svcErr)
	assert.Contains(t, view.HTML, "<h2>Le thym</h2>")
	assert.Contains(t, view.HTML, "<strong>essentielle</strong>")
	assert.Greater(t, view.ReadingTime, 0)
}

func TestGetBySlug_SecondReadServedFromCache(t *testing.T) {
	svc, repo := newMagazineFixture(t)
	article := publishedArticle("le-thym")
	repo.byID[article.ID] = article

	_, svcErr := svc.GetBySlug(context.Background(), "le-thym")
	assert.Nil(t, svcErr)
	_, svcErr = svc.GetBySlug(context.Background(), "le-thym")
	assert.Nil(t, svcErr)

	assert.Equal(t, 1, repo.slugCalls)
}

func TestGetBySlug_UnknownIs404(t *testing.T) {
	svc, _ := newMagazineFixture(t)

	view, svcErr := svc.GetBySlug(context.Background(), "absent")

	assert.Nil(t, view)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestGetBySlug_DraftIsInvisible(t *testing.T) {
	svc, repo := newMagazineFixture(t)
	article := publishedArticle("le-thym")
	article.Published = false
	article.PublishedAt = nil
	repo.byID[article.ID] = article

	_, svcErr := svc.GetBySlug(context.Background(), "le-thym")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestSetPublished_UnpublishDropsCachedView(t *testing.T) {
	svc, repo := newMagazineFixture(t)
	article := publishedArticle("le-thym")
	repo.byID[article.ID] = article

	_, svcErr := svc.GetBySlug(context.Background(), "le-thym")
	assert.Nil(t, svcErr)

	_, svcErr = svc.SetPublished(context.Background(), article.ID, false)
	assert.Nil(t, svcErr)

	_, svcErr = svc.GetBySlug(context.Background(), "le-thym")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode, "an unpublished article must not be served from cache")
}

func TestSetPublished_StampsFirstPublication(t *testing.T) {
	svc, repo := newMagazineFixture(t)
	article := publishedArticle("le-thym")
	article.Published = false
	article.PublishedAt = nil
	repo.byID[article.ID] = article

	updated, svcErr := svc.SetPublished(context.Background(), article.ID, true)

	assert.Nil(t, svcErr)
	assert.True(t, updated.Published)
	assert.NotNil(t, updated.PublishedAt)
}

func TestUpdate_ChangesVisibleAfterInvalidation(t *testing.T) {
	svc, repo := newMagazineFixture(t)
	article := publishedArticle("le-thym")
	repo.byID[article.ID] = article

	view, svcErr := svc.GetBySlug(context.Background(), "le-thym")
	assert.Nil(t, svcErr)
	assert.Equal(t, "Le thym du maquis", view.Title)

	newTitle := "Le thym, roi du maquis"
	_, svcErr = svc.Update(context.Background(), article.ID, &models.UpdateArticleRequest{Title: &newTitle})
	assert.Nil(t, svcErr)

	view, svcErr = svc.GetBySlug(context.Background(), "le-thym")
	assert.Nil(t, svcErr)
	assert.Equal(t, "Le thym, roi du maquis", view.Title)
}

func TestCreateArticle_MalformedContentRejected(t *testing.T) {
	svc, _ := newMagazineFixture(t)

	_, svcErr := svc.Create(context.Background(), uuid.New(), &models.CreateArticleRequest{
		Title:   "Brouillon",
		Slug:    "brouillon",
		Content: json.RawMessage(`{"type": "doc",`),
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestListPublished_CarriesExcerptAndReadingTime(t *testing.T) {
	svc, repo := newMagazineFixture(t)
	article := publishedArticle("le-thym")
	repo.byID[article.ID] = article

	draft := publishedArticle("brouillon")
	draft.Published = false
	repo.byID[draft.ID] = draft

	summaries, total, svcErr := svc.ListPublished(context.Background(), 1, 12)

	assert.Nil(t, svcErr)
	assert.Equal(t, int64(1), total, "drafts must not appear in the public listing")
	assert.Len(t, summaries, 1)
	assert.Contains(t, summaries[0].Excerpt, "Le thym")
	assert.Greater(t, summaries[0].ReadingTime, 0)
}
