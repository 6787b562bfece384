package model

import "time"

// Review là đánh giá của một user cho một title. Mỗi user chỉ có một review
// cho mỗi title.
type Review struct {
	ID             int64
	TitleID        int64
	AuthorID       int64
	AuthorUsername string
	Text           string
	Score          int
	PubDate        time.Time
}

// Comment thuộc về một review.
type Comment struct {
	ID             int64
	ReviewID       int64
	AuthorID       int64
	AuthorUsername string
	Text           string
	PubDate        time.Time
}
