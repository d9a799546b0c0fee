package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
)

type ArticleStore struct {
	pool *pgxpool.Pool
}

func NewArticleStore(pool *pgxpool.Pool) *ArticleStore {
	return &ArticleStore{pool: pool}
}

const articleColumns = `id, title, slug, content, excerpt, category, image_url, status, featured, author_id, published_at, created_at, updated_at`

// publishedAt stamps the first publish and clears the stamp when an
// article goes back to draft. $1 is the new status.
const publishedAt = `CASE WHEN $1::text = 'published' THEN COALESCE(published_at, now()) ELSE NULL END`

func (s *ArticleStore) Create(ctx context.Context, a models.Article) (*models.Article, error) {
	if a.Status == "" {
		a.Status = models.ArticleDraft
	}
	query := `
		INSERT INTO articles (status, title, slug, content, excerpt, category, image_url, featured, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
		        CASE WHEN $1::text = 'published' THEN now() ELSE NULL END)
		RETURNING ` + articleColumns

	rows, err := s.pool.Query(ctx, query,
		a.Status, a.Title, a.Slug, a.Content, a.Excerpt, a.Category, a.ImageURL, a.Featured, a.AuthorID)
	if err != nil {
		return nil, wrapErr("insert article", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Article])
	if err != nil {
		return nil, wrapErr("insert article", err)
	}
	return &out, nil
}

func (s *ArticleStore) GetByID(ctx context.Context, articleID uuid.UUID) (*models.Article, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, articleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Article])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return &a, nil
}

func (s *ArticleStore) List(ctx context.Context, f repository.ArticleFilter) ([]models.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE ($1::text = '' OR status = $1)
		  AND ($2::text = '' OR category = $2)
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, f.Status, f.Category)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	articles, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Article])
	if err != nil {
		return nil, fmt.Errorf("scan articles: %w", err)
	}
	if articles == nil {
		articles = make([]models.Article, 0)
	}
	return articles, nil
}

// Update returns nil, nil when the article does not exist.
func (s *ArticleStore) Update(ctx context.Context, a models.Article) (*models.Article, error) {
	query := `
		UPDATE articles
		SET status = $1, title = $3, slug = $4, content = $5, excerpt = $6, category = $7,
		    image_url = $8, featured = $9, published_at = ` + publishedAt + `, updated_at = now()
		WHERE id = $2
		RETURNING ` + articleColumns

	rows, err := s.pool.Query(ctx, query,
		a.Status, a.ID, a.Title, a.Slug, a.Content, a.Excerpt, a.Category, a.ImageURL, a.Featured)
	if err != nil {
		return nil, wrapErr("update article", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Article])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("update article", err)
	}
	return &out, nil
}

func (s *ArticleStore) Delete(ctx context.Context, articleID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, articleID)
	if err != nil {
		return false, fmt.Errorf("delete article: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *ArticleStore) Bookmark(ctx context.Context, articleID, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bookmarks (article_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (article_id, user_id) DO NOTHING`, articleID, userID)
	if err != nil {
		return wrapErr("bookmark article", err)
	}
	return nil
}

func (s *ArticleStore) Unbookmark(ctx context.Context, articleID, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM bookmarks WHERE article_id = $1 AND user_id = $2`, articleID, userID)
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

func (s *ArticleStore) BookmarkedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT article_id FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scan bookmarks: %w", err)
	}
	if ids == nil {
		ids = make([]uuid.UUID, 0)
	}
	return ids, nil
}
