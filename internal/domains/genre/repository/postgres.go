package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"yamdb-backend/internal/domains/genre"
	"yamdb-backend/pkg/cache"
	"yamdb-backend/pkg/database"
)

const slugCacheTTL = 10 * time.Minute

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) genre.GenreRepository {
	return &postgresRepository{pool: pool, cache: c}
}

// slugEntry là bản cache của một genre; ID cần được giữ lại nên không
// dùng JSON của model.
type slugEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func slugKey(slug string) string {
	return "genre:slug:" + slug
}

func (r *postgresRepository) Create(ctx context.Context, g *genre.Genre) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO genres (name, slug) VALUES ($1, $2) RETURNING id`,
		g.Name, g.Slug,
	).Scan(&g.ID)
	if err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return genre.ErrDuplicateSlug.WithErr(err)
		}
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, search string) ([]genre.Genre, error) {
	query := `SELECT id, name, slug FROM genres`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[genre.Genre])
	if err != nil {
		return nil, fmt.Errorf("scan genres: %w", err)
	}
	return items, nil
}

// GetBySlug dùng cache-aside: title writes resolve genre slugs qua đây.
func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*genre.Genre, error) {
	var cached slugEntry
	if found, err := r.cache.Get(ctx, slugKey(slug), &cached); err == nil && found {
		return &genre.Genre{ID: cached.ID, Name: cached.Name, Slug: cached.Slug}, nil
	}

	g := &genre.Genre{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug FROM genres WHERE slug = $1`, slug,
	).Scan(&g.ID, &g.Name, &g.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, genre.ErrGenreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get genre by slug: %w", err)
	}

	if err := r.cache.Set(ctx, slugKey(slug), slugEntry{ID: g.ID, Name: g.Name, Slug: g.Slug}, slugCacheTTL); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("cache genre failed")
	}
	return g, nil
}

func (r *postgresRepository) DeleteBySlug(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM genres WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return genre.ErrGenreNotFound
	}

	if err := r.cache.Delete(ctx, slugKey(slug)); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("evict genre cache failed")
	}
	return nil
}
