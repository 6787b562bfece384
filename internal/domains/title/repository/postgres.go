package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"yamdb-backend/internal/domains/category"
	"yamdb-backend/internal/domains/genre"
	"yamdb-backend/internal/domains/title/model"
	"yamdb-backend/internal/shared/utils"
	"yamdb-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) TitleRepository {
	return &postgresRepository{pool: pool}
}

// titleSelect trả về title cùng category và review stats. Rating được tính
// ở tầng model từ COUNT/SUM.
const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id,
	       c.id, c.name, c.slug,
	       COALESCE(s.review_count, 0), COALESCE(s.score_sum, 0)
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN (
		SELECT title_id, COUNT(*) AS review_count, SUM(score) AS score_sum
		FROM reviews
		GROUP BY title_id
	) s ON s.title_id = t.id`

func scanTitle(row pgx.Row) (*model.Title, error) {
	var (
		t                model.Title
		catID            *int64
		catName, catSlug *string
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Year, &t.Description, &t.CategoryID,
		&catID, &catName, &catSlug,
		&t.ReviewCount, &t.ScoreSum,
	)
	if err != nil {
		return nil, err
	}
	if catID != nil {
		t.Category = &category.Category{ID: *catID, Name: *catName, Slug: *catSlug}
	}
	return &t, nil
}

// ========== CREATE ==========

func (r *postgresRepository) Create(ctx context.Context, t *model.Title, genreIDs []int64) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO titles (name, year, description, category_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			t.Name, t.Year, t.Description, t.CategoryID,
		).Scan(&t.ID)
		if err != nil {
			return err
		}
		return linkGenres(ctx, tx, t.ID, genreIDs)
	})
	return mapWriteError("create title", err)
}

// linkGenres thêm các cặp (genre, title) còn thiếu trong genre_titles.
func linkGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO genre_titles (genre_id, title_id)
		SELECT g, $2 FROM unnest($1::bigint[]) AS g
		ON CONFLICT ON CONSTRAINT unique_genre_title DO NOTHING`,
		pq.Array(genreIDs), titleID,
	)
	return err
}

func mapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrTitleNotFound) {
		return err
	}
	if constraint, ok := database.UniqueViolation(err); ok && constraint == "unique_title" {
		return model.ErrDuplicateTitle.WithErr(err)
	}
	if constraint, ok := database.ForeignKeyViolation(err); ok {
		if constraint == "titles_category_id_fkey" {
			return model.ErrUnknownCategory.WithErr(err)
		}
		return model.ErrUnknownGenre.WithErr(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ========== READ ==========

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Title, error) {
	t, err := scanTitle(r.pool.QueryRow(ctx, titleSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrTitleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get title: %w", err)
	}

	if err := r.loadGenres(ctx, []*model.Title{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.TitleFilter) ([]*model.Title, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM genre_titles gt
			JOIN genres g ON g.id = gt.genre_id
			WHERE gt.title_id = t.id AND g.slug = $%d)`, len(args)))
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		where = append(where, fmt.Sprintf("t.name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		where = append(where, fmt.Sprintf("t.year = $%d", len(args)))
	}

	query := titleSelect
	if len(where) > 0 {
		query += " WHERE " + utils.JoinWithAnd(where)
	}
	query += " ORDER BY t.name, t.id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	titles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Title, error) {
		return scanTitle(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan titles: %w", err)
	}

	if err := r.loadGenres(ctx, titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// loadGenres nạp genres cho một batch titles bằng một query.
func (r *postgresRepository) loadGenres(ctx context.Context, titles []*model.Title) error {
	if len(titles) == 0 {
		return nil
	}
	ids := make([]int64, len(titles))
	byID := make(map[int64]*model.Title, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Genres = []genre.Genre{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT gt.title_id, g.id, g.name, g.slug
		FROM genre_titles gt
		JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = ANY($1)
		ORDER BY g.name, g.id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("load title genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID int64
			g       genre.Genre
		)
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return fmt.Errorf("scan title genre: %w", err)
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, g)
		}
	}
	return rows.Err()
}

// ========== UPDATE ==========

func (r *postgresRepository) Update(ctx context.Context, t *model.Title, genreIDs []int64) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE titles
			SET name = $2, year = $3, description = $4, category_id = $5
			WHERE id = $1`,
			t.ID, t.Name, t.Year, t.Description, t.CategoryID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrTitleNotFound
		}

		if genreIDs == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `
			DELETE FROM genre_titles
			WHERE title_id = $1 AND NOT (genre_id = ANY($2))`,
			t.ID, pq.Array(genreIDs),
		); err != nil {
			return err
		}
		return linkGenres(ctx, tx, t.ID, genreIDs)
	})
	return mapWriteError("update title", err)
}

// ========== DELETE ==========

// Delete xoá title. Reviews, comments và genre links bị xoá theo cascade.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTitleNotFound
	}
	return nil
}
