package domain

import (
	"math"
	"strings"

	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
)

// DrinkType is the closed set of drink categories.
type DrinkType string

const (
	DrinkTypeSoju      DrinkType = "SOJU"
	DrinkTypeBeer      DrinkType = "BEER"
	DrinkTypeWine      DrinkType = "WINE"
	DrinkTypeMakgeolli DrinkType = "MAKGEOLLI"
	DrinkTypeSake      DrinkType = "SAKE"
	DrinkTypeWhiskey   DrinkType = "WHISKEY"
	DrinkTypeLiqueur   DrinkType = "LIQUEUR"
	DrinkTypeEtc       DrinkType = "ETC"
)

// DrinkTypes returns every valid drink type.
func DrinkTypes() []DrinkType {
	return []DrinkType{
		DrinkTypeSoju, DrinkTypeBeer, DrinkTypeWine, DrinkTypeMakgeolli,
		DrinkTypeSake, DrinkTypeWhiskey, DrinkTypeLiqueur, DrinkTypeEtc,
	}
}

// ParseDrinkType maps a label to a DrinkType. Matching ignores case.
func ParseDrinkType(label string) (DrinkType, error) {
	want := DrinkType(strings.ToUpper(strings.TrimSpace(label)))
	for _, t := range DrinkTypes() {
		if t == want {
			return t, nil
		}
	}
	return "", apperrors.Invalid("unknown drink type %q", label)
}

func (t DrinkType) Valid() bool {
	for _, v := range DrinkTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Rating bounds shared by drink averages and review ratings.
const (
	MinRating = 0
	MaxRating = 5
)

// ratingEpsilon absorbs floating-point drift in the running average.
const ratingEpsilon = 1e-9

// DrinkRating is an average rating in [MinRating, MaxRating].
type DrinkRating float64

// NewDrinkRating validates v.
func NewDrinkRating(v float64) (DrinkRating, error) {
	if math.IsNaN(v) || v < MinRating || v > MaxRating {
		return 0, apperrors.Invalid("drink rating %v out of range [%d, %d]", v, MinRating, MaxRating)
	}
	return DrinkRating(v), nil
}

// ReviewRating is a single user's rating, an integer in [MinRating, MaxRating].
type ReviewRating int

// NewReviewRating validates v.
func NewReviewRating(v int) (ReviewRating, error) {
	if v < MinRating || v > MaxRating {
		return 0, apperrors.Invalid("review rating %d out of range [%d, %d]", v, MinRating, MaxRating)
	}
	return ReviewRating(v), nil
}

// OrderType selects the sort order of list queries.
type OrderType string

const (
	OrderLikeDesc OrderType = "like_desc"
	OrderLikeAsc  OrderType = "like_asc"
	OrderNewest   OrderType = "newest"
)

// ParseOrderType never fails: unknown or empty labels mean OrderNewest.
func ParseOrderType(label string) OrderType {
	switch o := OrderType(strings.ToLower(strings.TrimSpace(label))); o {
	case OrderLikeDesc, OrderLikeAsc, OrderNewest:
		return o
	default:
		return OrderNewest
	}
}
