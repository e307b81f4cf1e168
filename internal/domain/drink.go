package domain

import (
	"strings"
	"time"

	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
)

// Drink is the aggregate root of the catalog. AvgRating is the mean of the
// NumOfReviews ratings currently folded into it.
type Drink struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	ImageURL     string      `json:"image_url"`
	Type         DrinkType   `json:"type"`
	AvgRating    DrinkRating `json:"avg_rating"`
	NumOfReviews int         `json:"num_of_reviews"`
	NumOfWish    int         `json:"num_of_wish"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewDrink builds a drink with zeroed statistics and an id derived from
// name and now.
func NewDrink(name, imageURL, drinkType string, now time.Time) (*Drink, error) {
	t, err := ParseDrinkType(drinkType)
	if err != nil {
		return nil, err
	}
	d := &Drink{
		ID:        NewDrinkID(name, now),
		Name:      name,
		ImageURL:  imageURL,
		Type:      t,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the field invariants. It cannot verify that AvgRating
// matches the ratings behind it.
func (d *Drink) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return apperrors.Invalid("drink name must not be empty")
	}
	if !d.Type.Valid() {
		return apperrors.Invalid("unknown drink type %q", d.Type)
	}
	if _, err := NewDrinkRating(float64(d.AvgRating)); err != nil {
		return err
	}
	if d.NumOfReviews < 0 {
		return apperrors.Invalid("num_of_reviews must not be negative")
	}
	if d.NumOfWish < 0 {
		return apperrors.Invalid("num_of_wish must not be negative")
	}
	if d.NumOfReviews == 0 && d.AvgRating != 0 {
		return apperrors.Invalid("avg_rating must be 0 when there are no reviews")
	}
	return nil
}

// AddRating folds a new rating into the average.
func (d *Drink) AddRating(r ReviewRating) error {
	if _, err := NewReviewRating(int(r)); err != nil {
		return err
	}
	return d.fold(d.NumOfReviews+1, float64(r))
}

// UpdateRating replaces the contribution of old with updated. The review
// count does not change.
func (d *Drink) UpdateRating(old, updated ReviewRating) error {
	if err := validRatings(old, updated); err != nil {
		return err
	}
	if d.NumOfReviews == 0 {
		return apperrors.Invalid("drink %s has no ratings to update", d.ID)
	}
	return d.fold(d.NumOfReviews, float64(updated)-float64(old))
}

// DeleteRating removes the contribution of r. Removing the last rating
// resets the average to 0.
func (d *Drink) DeleteRating(r ReviewRating) error {
	if _, err := NewReviewRating(int(r)); err != nil {
		return err
	}
	if d.NumOfReviews == 0 {
		return apperrors.Invalid("drink %s has no ratings to delete", d.ID)
	}
	if d.NumOfReviews == 1 {
		d.AvgRating = 0
		d.NumOfReviews = 0
		return nil
	}
	return d.fold(d.NumOfReviews-1, -float64(r))
}

// fold applies avg' = (avg*n + delta) / n'.
func (d *Drink) fold(n int, delta float64) error {
	avg := (float64(d.AvgRating)*float64(d.NumOfReviews) + delta) / float64(n)
	switch {
	case avg < MinRating && avg > MinRating-ratingEpsilon:
		avg = MinRating
	case avg > MaxRating && avg < MaxRating+ratingEpsilon:
		avg = MaxRating
	}
	rating, err := NewDrinkRating(avg)
	if err != nil {
		return apperrors.Invalid("rating change on drink %s does not match its recorded ratings", d.ID)
	}
	d.AvgRating = rating
	d.NumOfReviews = n
	return nil
}

// AddWish increments the wish count.
func (d *Drink) AddWish() {
	d.NumOfWish++
}

// DeleteWish decrements the wish count. It fails at zero.
func (d *Drink) DeleteWish() error {
	if d.NumOfWish == 0 {
		return apperrors.Invalid("drink %s has no wishes to delete", d.ID)
	}
	d.NumOfWish--
	return nil
}

func validRatings(rs ...ReviewRating) error {
	for _, r := range rs {
		if _, err := NewReviewRating(int(r)); err != nil {
			return err
		}
	}
	return nil
}
