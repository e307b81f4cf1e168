package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/pagination"
)

// ReviewRepository is a map-backed repository.ReviewRepository.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]domain.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{reviews: make(map[string]domain.Review)}
}

func (r *ReviewRepository) FindByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rv, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	return &rv, nil
}

func (r *ReviewRepository) FindAll(_ context.Context, q repository.ReviewQuery) ([]domain.Review, int, error) {
	r.mu.RLock()
	matched := make([]domain.Review, 0, len(r.reviews))
	for _, rv := range r.reviews {
		if q.DrinkID != nil && rv.DrinkID != *q.DrinkID {
			continue
		}
		if q.UserID != nil && rv.UserID != *q.UserID {
			continue
		}
		matched = append(matched, rv)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch q.Order {
		case domain.OrderLikeDesc:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
		case domain.OrderLikeAsc:
			if a.Rating != b.Rating {
				return a.Rating < b.Rating
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

func (r *ReviewRepository) Add(_ context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[rv.ID]; ok {
		return apperrors.AlreadyExists("review", "id", rv.ID)
	}
	r.reviews[rv.ID] = *rv
	return nil
}

func (r *ReviewRepository) Update(_ context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[rv.ID]; !ok {
		return apperrors.NotFound("review", rv.ID)
	}
	r.reviews[rv.ID] = *rv
	return nil
}

func (r *ReviewRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return apperrors.NotFound("review", id)
	}
	delete(r.reviews, id)
	return nil
}
