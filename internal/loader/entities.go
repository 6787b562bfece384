package loader

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Entity mô tả cách một fixture file map vào một bảng.
type Entity struct {
	Name  string
	File  string // tên file không có extension
	Table string

	// Columns là các cột được phép ghi.
	Columns []string
	// Rename map header của fixture sang tên cột.
	Rename map[string]string
	// Nullable: giá trị rỗng được ghi là NULL.
	Nullable map[string]bool
}

// Entities theo thứ tự load: bảng cha trước bảng con.
var Entities = []Entity{
	{
		Name: "category", File: "category", Table: "categories",
		Columns: []string{"id", "name", "slug"},
	},
	{
		Name: "genre", File: "genre", Table: "genres",
		Columns: []string{"id", "name", "slug"},
	},
	{
		Name: "title", File: "titles", Table: "titles",
		Columns:  []string{"id", "name", "year", "description", "category_id"},
		Rename:   map[string]string{"category": "category_id"},
		Nullable: map[string]bool{"description": true, "category_id": true},
	},
	{
		Name: "genre_title", File: "genre_title", Table: "genre_titles",
		Columns: []string{"id", "genre_id", "title_id"},
	},
	{
		Name: "user", File: "users", Table: "users",
		Columns: []string{"id", "username", "email", "role", "is_superuser", "first_name", "last_name", "bio"},
	},
	{
		Name: "review", File: "review", Table: "reviews",
		Columns: []string{"id", "title_id", "author_id", "text", "score", "pub_date"},
		Rename:  map[string]string{"author": "author_id"},
	},
	{
		Name: "comment", File: "comments", Table: "comments",
		Columns: []string{"id", "review_id", "author_id", "text", "pub_date"},
		Rename:  map[string]string{"author": "author_id"},
	},
}

// FileName trả về tên file của entity theo format.
func (e Entity) FileName(format Format) string {
	return e.File + "." + string(format)
}

// columns map header sang cột của bảng. Header lạ là lỗi.
func (e Entity) columns(header []string) ([]string, error) {
	allowed := make(map[string]bool, len(e.Columns))
	for _, c := range e.Columns {
		allowed[c] = true
	}

	cols := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		col := h
		if renamed, ok := e.Rename[h]; ok {
			col = renamed
		}
		if !allowed[col] {
			return nil, fmt.Errorf("%s: unknown column %q", e.File, h)
		}
		if seen[col] {
			return nil, fmt.Errorf("%s: duplicate column %q", e.File, h)
		}
		seen[col] = true
		cols[i] = col
	}
	return cols, nil
}

// insertSQL build INSERT ... ON CONFLICT DO NOTHING cho các cột đã map.
func (e Entity) insertSQL(cols []string) string {
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		pq.QuoteIdentifier(e.Table), strings.Join(quoted, ", "), strings.Join(params, ", "))
}

// sequenceSQL đẩy identity sequence lên MAX(id) sau khi insert id tường minh.
func (e Entity) sequenceSQL() string {
	return fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence($1, 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM %s",
		pq.QuoteIdentifier(e.Table))
}

// args chuyển một row thành tham số query. Rỗng ở cột nullable thành NULL.
func (e Entity) args(cols []string, row []string) []interface{} {
	out := make([]interface{}, len(cols))
	for i, col := range cols {
		v := strings.TrimSpace(row[i])
		if v == "" && e.Nullable[col] {
			out[i] = nil
			continue
		}
		out[i] = v
	}
	return out
}
