package model

const (
	// Score
	MinScore = 0
	MaxScore = 10

	// RatingPlaces là số chữ số thập phân khi chia, đủ cho float64.
	RatingPlaces = 16
)
