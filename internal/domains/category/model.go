package category

// Category phân loại title (Books, Films, Music...). Một title có tối đa một
// category.
type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
