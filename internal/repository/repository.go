package repository

import (
	"context"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
)

// DrinkQuery defines filter and sort criteria for listing drinks.
type DrinkQuery struct {
	Name    *string
	Type    *domain.DrinkType
	Order   domain.OrderType
	Page    int
	PerPage int
}

// ReviewQuery defines filter and sort criteria for listing reviews.
type ReviewQuery struct {
	DrinkID *string
	UserID  *string
	Order   domain.OrderType
	Page    int
	PerPage int
}

// DrinkRepository defines the interface for drink persistence operations.
type DrinkRepository interface {
	// FindByID returns the drink or an error wrapping ErrNotFound.
	FindByID(ctx context.Context, id string) (*domain.Drink, error)

	// FindAll returns one page of matching drinks along with the total count.
	FindAll(ctx context.Context, query DrinkQuery) ([]domain.Drink, int, error)

	// Add fails with ErrAlreadyExists when the id is taken.
	Add(ctx context.Context, drink *domain.Drink) error

	// Update fails with ErrNotFound when the drink does not exist.
	Update(ctx context.Context, drink *domain.Drink) error

	// DeleteByID fails with ErrNotFound when the drink does not exist.
	DeleteByID(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	FindAll(ctx context.Context, query ReviewQuery) ([]domain.Review, int, error)
	Add(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	DeleteByID(ctx context.Context, id string) error
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Add(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	DeleteByID(ctx context.Context, id string) error
}
