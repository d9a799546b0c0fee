package portal

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
	"github.com/rs/xid"
	"go.uber.org/zap"
)

// AllCategories is the category picker's "no filter" entry.
const AllCategories = "All"

// News is the article feed. Admins write articles; readers see the
// published ones and may bookmark them.
type News struct {
	repo   repository.ArticleRepository
	logger *zap.Logger
}

func NewNews(repo repository.ArticleRepository, logger *zap.Logger) *News {
	return &News{repo: repo, logger: logger}
}

// List returns published articles in category, newest first. An empty
// category or AllCategories matches everything. includeAll adds drafts.
func (n *News) List(ctx context.Context, category string, includeAll bool) ([]models.Article, error) {
	f := repository.ArticleFilter{Category: strings.TrimSpace(category)}
	if f.Category == AllCategories {
		f.Category = ""
	}
	if !includeAll {
		f.Status = models.ArticlePublished
	}
	return n.repo.List(ctx, f)
}

// Get hides drafts from everyone but admins.
func (n *News) Get(ctx context.Context, actor *Actor, articleID uuid.UUID) (*models.Article, error) {
	a, err := n.repo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if a == nil || (a.Status != models.ArticlePublished && (actor == nil || !actor.IsAdmin())) {
		return nil, apperr.NotFound("article")
	}
	return a, nil
}

func (n *News) Create(ctx context.Context, actor Actor, a models.Article) (*models.Article, error) {
	if err := validateArticle(&a); err != nil {
		return nil, err
	}
	a.AuthorID = &actor.UserID
	out, err := n.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	n.logger.Info("article created",
		zap.Stringer("article_id", out.ID),
		zap.String("status", out.Status),
	)
	return out, nil
}

func (n *News) Update(ctx context.Context, a models.Article) (*models.Article, error) {
	if err := validateArticle(&a); err != nil {
		return nil, err
	}
	out, err := n.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, apperr.NotFound("article")
	}
	return out, nil
}

func (n *News) Delete(ctx context.Context, articleID uuid.UUID) error {
	ok, err := n.repo.Delete(ctx, articleID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("article")
	}
	return nil
}

// Bookmark is idempotent. Only published articles can be bookmarked.
func (n *News) Bookmark(ctx context.Context, actor Actor, articleID uuid.UUID) error {
	if _, err := n.Get(ctx, &actor, articleID); err != nil {
		return err
	}
	return n.repo.Bookmark(ctx, articleID, actor.UserID)
}

func (n *News) Unbookmark(ctx context.Context, userID, articleID uuid.UUID) error {
	return n.repo.Unbookmark(ctx, articleID, userID)
}

func (n *News) Bookmarks(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return n.repo.BookmarkedIDs(ctx, userID)
}

func validateArticle(a *models.Article) error {
	a.Title = strings.TrimSpace(a.Title)
	a.Category = strings.TrimSpace(a.Category)
	if missing := required("title", a.Title, "content", a.Content, "category", a.Category); missing != "" {
		return apperr.Validation("%s is required", missing)
	}
	switch a.Status {
	case "":
		a.Status = models.ArticleDraft
	case models.ArticleDraft, models.ArticlePublished:
	default:
		return apperr.Validation("unknown article status %q", a.Status)
	}
	if a.Slug = Slugify(a.Slug); a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Slug == "" {
		a.Slug = "article-" + xid.New().String()
	}
	return nil
}

// Slugify lowercases s, joins words with "-" and drops anything outside
// [a-z0-9-].
func Slugify(s string) string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
				return r
			}
			return -1
		}, word)
		if word != "" {
			words = append(words, word)
		}
	}
	return strings.Trim(strings.Join(words, "-"), "-")
}
