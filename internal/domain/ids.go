package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
)

const (
	MaxUserIDLen   = 30
	MaxReviewIDLen = 100
)

var (
	drinkNamespace  = uuid.NewSHA1(uuid.NameSpaceURL, []byte("drinks/drink"))
	reviewNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("drinks/review"))
)

// NewDrinkID derives a drink id from its name and creation time. The same
// pair always yields the same id, so two creations of one name within the
// same nanosecond collide and the second is rejected by the repository.
func NewDrinkID(name string, createdAt time.Time) string {
	key := name + "|" + strconv.FormatInt(createdAt.UnixNano(), 10)
	return uuid.NewSHA1(drinkNamespace, []byte(key)).String()
}

// NewReviewID derives the id of the single review userID may write for drinkID.
func NewReviewID(drinkID, userID string) string {
	return uuid.NewSHA1(reviewNamespace, []byte(drinkID+"|"+userID)).String()
}

// ParseDrinkID validates a drink id taken from a request.
func ParseDrinkID(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", apperrors.Invalid("drink id must not be empty")
	}
	return s, nil
}

// ParseUserID validates a user id: 1 to MaxUserIDLen characters.
func ParseUserID(s string) (string, error) {
	return boundedID("user id", s, MaxUserIDLen)
}

// ParseReviewID validates a review id: 1 to MaxReviewIDLen characters.
func ParseReviewID(s string) (string, error) {
	return boundedID("review id", s, MaxReviewIDLen)
}

func boundedID(what, s string, max int) (string, error) {
	n := utf8.RuneCountInString(s)
	if n < 1 || n > max {
		return "", apperrors.Invalid("%s must be 1 to %d characters, got %d", what, max, n)
	}
	return s, nil
}
