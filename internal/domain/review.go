package domain

import (
	"time"
	"unicode/utf8"

	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
)

const MaxCommentLen = 300

// Review is one user's rating and comment on one drink.
type Review struct {
	ID        string       `json:"id"`
	DrinkID   string       `json:"drink_id"`
	UserID    string       `json:"user_id"`
	Rating    ReviewRating `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewReview validates its inputs and derives the review id from the drink
// and user.
func NewReview(drinkID, userID string, rating int, comment string, now time.Time) (*Review, error) {
	if _, err := ParseDrinkID(drinkID); err != nil {
		return nil, err
	}
	if _, err := ParseUserID(userID); err != nil {
		return nil, err
	}
	r, err := NewReviewRating(rating)
	if err != nil {
		return nil, err
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}
	return &Review{
		ID:        NewReviewID(drinkID, userID),
		DrinkID:   drinkID,
		UserID:    userID,
		Rating:    r,
		Comment:   comment,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Revise replaces the rating and comment.
func (r *Review) Revise(rating int, comment string, now time.Time) error {
	rr, err := NewReviewRating(rating)
	if err != nil {
		return err
	}
	if err := validateComment(comment); err != nil {
		return err
	}
	r.Rating = rr
	r.Comment = comment
	r.UpdatedAt = now.UTC()
	return nil
}

func validateComment(c string) error {
	if n := utf8.RuneCountInString(c); n > MaxCommentLen {
		return apperrors.Invalid("comment must be at most %d characters, got %d", MaxCommentLen, n)
	}
	return nil
}

// EpochSeconds renders t as fractional seconds since the Unix epoch.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
