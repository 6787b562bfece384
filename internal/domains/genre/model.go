package genre

// Genre là tag của title (Drama, Rock, Fantasy...). Một title có thể có
// nhiều genre qua bảng genre_titles.
type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
