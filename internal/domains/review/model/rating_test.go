package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRating(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		sum   int64
		want  *float64
	}{
		{"no reviews", 0, 0, nil},
		{"single review", 1, 7, ptr(7)},
		{"exact mean", 2, 18, ptr(9)},
		{"repeating mean", 3, 25, ptr(25.0 / 3)},
		{"fractional mean", 8, 69, ptr(8.625)},
		{"all zero scores", 4, 0, ptr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RatingFloat(Rating(tt.count, tt.sum))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.InDelta(t, *tt.want, *got, 1e-9)
			}
		})
	}
}

func TestRating_StaysWithinScoreRange(t *testing.T) {
	for count := int64(1); count <= 20; count++ {
		for _, score := range []int64{MinScore, MaxScore} {
			r := Rating(count, score*count)
			assert.True(t, r.Valid)
			assert.Equal(t, float64(score), r.Decimal.InexactFloat64())
		}
	}
}

func TestCreateReviewRequest_ScoreBounds(t *testing.T) {
	for _, score := range []int{0, 5, 10} {
		s := score
		assert.NoError(t, CreateReviewRequest{Text: "ok", Score: &s}.Validate(), score)
	}
	for _, score := range []int{-1, 11} {
		s := score
		assert.Error(t, CreateReviewRequest{Text: "ok", Score: &s}.Validate(), score)
	}
	assert.Error(t, CreateReviewRequest{Text: "ok"}.Validate())
}

func ptr(f float64) *float64 { return &f }
