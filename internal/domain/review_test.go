package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	r, err := NewReview("drink-1", "heumsi", 4, "good", fixedTime())
	require.NoError(t, err)
	assert.Equal(t, NewReviewID("drink-1", "heumsi"), r.ID)
	assert.Equal(t, ReviewRating(4), r.Rating)
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
}

func TestNewReview_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		drinkID string
		userID  string
		rating  int
		comment string
	}{
		{"empty drink", "", "heumsi", 3, ""},
		{"empty user", "drink-1", "", 3, ""},
		{"rating too high", "drink-1", "heumsi", 6, ""},
		{"comment too long", "drink-1", "heumsi", 3, strings.Repeat("a", MaxCommentLen+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReview(tt.drinkID, tt.userID, tt.rating, tt.comment, fixedTime())
			assert.Error(t, err)
		})
	}
}

func TestNewReview_CommentAtLimit(t *testing.T) {
	_, err := NewReview("drink-1", "heumsi", 0, strings.Repeat("맛", MaxCommentLen), fixedTime())
	assert.NoError(t, err)
}

func TestReview_Revise(t *testing.T) {
	r, err := NewReview("drink-1", "heumsi", 4, "good", fixedTime())
	require.NoError(t, err)

	later := fixedTime().Add(time.Hour)
	require.NoError(t, r.Revise(2, "meh", later))
	assert.Equal(t, ReviewRating(2), r.Rating)
	assert.Equal(t, "meh", r.Comment)
	assert.Equal(t, later, r.UpdatedAt)
	assert.Equal(t, fixedTime(), r.CreatedAt)

	assert.Error(t, r.Revise(9, "x", later))
	assert.Equal(t, ReviewRating(2), r.Rating)
}

func TestEpochSeconds(t *testing.T) {
	assert.InDelta(t, 1.5, EpochSeconds(time.Unix(1, 500_000_000)), 1e-9)
}
