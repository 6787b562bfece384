package model

import "github.com/shopspring/decimal"

// Rating is the mean review score of a title given its review count and the
// sum of their scores. It is invalid (null) when there are no reviews.
func Rating(count int64, sum int64) decimal.NullDecimal {
	if count <= 0 {
		return decimal.NullDecimal{}
	}
	mean := decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), RatingPlaces)
	return decimal.NewNullDecimal(mean)
}

// RatingFloat converts a rating for JSON output.
func RatingFloat(r decimal.NullDecimal) *float64 {
	if !r.Valid {
		return nil
	}
	f := r.Decimal.InexactFloat64()
	return &f
}
