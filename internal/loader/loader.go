package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"yamdb-backend/pkg/database"
)

// Result là kết quả load một entity.
type Result struct {
	Entity   string
	Read     int
	Inserted int64
	Err      error
}

// Loader nạp fixtures vào database theo thứ tự Entities. Mỗi lần chạy có
// logger riêng, không đụng global logger.
type Loader struct {
	pool     *pgxpool.Pool
	source   Source
	format   Format
	log      zerolog.Logger
	entities []Entity
}

func New(pool *pgxpool.Pool, source Source, format Format, log zerolog.Logger) *Loader {
	return &Loader{
		pool:     pool,
		source:   source,
		format:   format,
		log:      log,
		entities: Entities,
	}
}

// Run load tất cả entities. Lỗi ở một entity được log và entity tiếp theo
// vẫn chạy; chỉ context bị huỷ mới dừng sớm.
func (l *Loader) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(l.entities))
	for _, e := range l.entities {
		if ctx.Err() != nil {
			results = append(results, Result{Entity: e.Name, Err: ctx.Err()})
			continue
		}

		start := time.Now()
		l.log.Debug().Str("entity", e.Name).Msg("start data transfer")

		res := l.loadEntity(ctx, e)
		results = append(results, res)

		if res.Err != nil {
			l.log.Error().Err(res.Err).Str("entity", e.Name).Msg("failed to load entity")
			continue
		}
		l.log.Info().
			Str("entity", e.Name).
			Int("read", res.Read).
			Int64("inserted", res.Inserted).
			Dur("took", time.Since(start)).
			Msg("data successfully loaded")
	}
	return results
}

func (l *Loader) loadEntity(ctx context.Context, e Entity) Result {
	res := Result{Entity: e.Name}

	table, err := l.readTable(ctx, e)
	if err != nil {
		res.Err = err
		return res
	}
	res.Read = len(table.Rows)

	cols, err := e.columns(table.Header)
	if err != nil {
		res.Err = err
		return res
	}

	res.Inserted, res.Err = l.insert(ctx, e, cols, table.Rows)
	return res
}

func (l *Loader) readTable(ctx context.Context, e Entity) (*Table, error) {
	rc, err := l.source.Open(ctx, e.FileName(l.format))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table, err := ReadTable(rc, l.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.FileName(l.format), err)
	}
	return table, nil
}

// insert gửi tất cả rows trong một batch và bump sequence, cùng một transaction.
func (l *Loader) insert(ctx context.Context, e Entity, cols []string, rows [][]string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var inserted int64
	err := database.WithTransaction(ctx, l.pool, func(tx pgx.Tx) error {
		query := e.insertSQL(cols)
		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(query, e.args(cols, row)...)
		}

		br := tx.SendBatch(ctx, batch)
		for i := range rows {
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return fmt.Errorf("row %d: %w", i+2, err)
			}
			inserted += tag.RowsAffected()
		}
		if err := br.Close(); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, e.sequenceSQL(), e.Table); err != nil {
			return fmt.Errorf("bump sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Failed đếm số entity lỗi.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
