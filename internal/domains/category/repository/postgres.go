package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"yamdb-backend/internal/domains/category"
	"yamdb-backend/pkg/cache"
	"yamdb-backend/pkg/database"
)

const slugCacheTTL = 10 * time.Minute

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) category.CategoryRepository {
	return &postgresRepository{pool: pool, cache: c}
}

// slugEntry là bản cache của một category; ID cần được giữ lại nên không
// dùng JSON của model.
type slugEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func slugKey(slug string) string {
	return "category:slug:" + slug
}

func (r *postgresRepository) Create(ctx context.Context, c *category.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Slug,
	).Scan(&c.ID)
	if err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return category.ErrDuplicateSlug.WithErr(err)
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, search string) ([]category.Category, error) {
	query := `SELECT id, name, slug FROM categories`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[category.Category])
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	return items, nil
}

// GetBySlug dùng cache-aside: title writes resolve category slugs qua đây.
func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	var cached slugEntry
	if found, err := r.cache.Get(ctx, slugKey(slug), &cached); err == nil && found {
		return &category.Category{ID: cached.ID, Name: cached.Name, Slug: cached.Slug}, nil
	}

	c := &category.Category{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug FROM categories WHERE slug = $1`, slug,
	).Scan(&c.ID, &c.Name, &c.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}

	if err := r.cache.Set(ctx, slugKey(slug), slugEntry{ID: c.ID, Name: c.Name, Slug: c.Slug}, slugCacheTTL); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("cache category failed")
	}
	return c, nil
}

func (r *postgresRepository) DeleteBySlug(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}

	if err := r.cache.Delete(ctx, slugKey(slug)); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("evict category cache failed")
	}
	return nil
}
