package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/pagination"
)

// DrinkRepository is a map-backed repository.DrinkRepository. Entities are
// stored and returned by value so callers never share state with the store.
type DrinkRepository struct {
	mu     sync.RWMutex
	drinks map[string]domain.Drink
}

// NewDrinkRepository creates an empty in-memory drink repository.
func NewDrinkRepository() *DrinkRepository {
	return &DrinkRepository{drinks: make(map[string]domain.Drink)}
}

func (r *DrinkRepository) FindByID(_ context.Context, id string) (*domain.Drink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drinks[id]
	if !ok {
		return nil, apperrors.NotFound("drink", id)
	}
	return &d, nil
}

func (r *DrinkRepository) FindAll(_ context.Context, q repository.DrinkQuery) ([]domain.Drink, int, error) {
	r.mu.RLock()
	matched := make([]domain.Drink, 0, len(r.drinks))
	for _, d := range r.drinks {
		if q.Name != nil && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(*q.Name)) {
			continue
		}
		if q.Type != nil && d.Type != *q.Type {
			continue
		}
		matched = append(matched, d)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch q.Order {
		case domain.OrderLikeDesc:
			if a.AvgRating != b.AvgRating {
				return a.AvgRating > b.AvgRating
			}
		case domain.OrderLikeAsc:
			if a.AvgRating != b.AvgRating {
				return a.AvgRating < b.AvgRating
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	start, end := pagination.Params{Page: q.Page, PerPage: q.PerPage}.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (r *DrinkRepository) Add(_ context.Context, d *domain.Drink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drinks[d.ID]; ok {
		return apperrors.AlreadyExists("drink", "id", d.ID)
	}
	r.drinks[d.ID] = *d
	return nil
}

func (r *DrinkRepository) Update(_ context.Context, d *domain.Drink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drinks[d.ID]; !ok {
		return apperrors.NotFound("drink", d.ID)
	}
	r.drinks[d.ID] = *d
	return nil
}

func (r *DrinkRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drinks[id]; !ok {
		return apperrors.NotFound("drink", id)
	}
	delete(r.drinks, id)
	return nil
}
