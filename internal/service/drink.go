package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/event"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/pagination"
)

// DrinkService implements the use cases of the drink aggregate. Every
// method returns either its output or an *apperrors.AppError.
type DrinkService struct {
	repo     repository.DrinkRepository
	producer *event.Producer
	logger   *slog.Logger
	now      func() time.Time
	boundary boundary
}

// NewDrinkService creates a new drink service.
func NewDrinkService(repo repository.DrinkRepository, producer *event.Producer, logger *slog.Logger, opts ...Option) *DrinkService {
	o := buildOptions(opts)
	return &DrinkService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		now:      o.now,
		boundary: boundary{service: "drink", logger: logger},
	}
}

// DrinkOutput is the projection of a drink returned by every drink use case.
type DrinkOutput struct {
	DrinkID      string    `json:"drink_id"`
	Name         string    `json:"drink_name"`
	ImageURL     string    `json:"drink_image_url"`
	Type         string    `json:"drink_type"`
	AvgRating    float64   `json:"avg_rating"`
	NumOfReviews int       `json:"num_of_reviews"`
	NumOfWish    int       `json:"num_of_wish"`
	CreatedAt    time.Time `json:"created_at"`
}

func newDrinkOutput(d *domain.Drink) *DrinkOutput {
	return &DrinkOutput{
		DrinkID:      d.ID,
		Name:         d.Name,
		ImageURL:     d.ImageURL,
		Type:         string(d.Type),
		AvgRating:    float64(d.AvgRating),
		NumOfReviews: d.NumOfReviews,
		NumOfWish:    d.NumOfWish,
		CreatedAt:    d.CreatedAt,
	}
}

// FindDrinkInput identifies one drink.
type FindDrinkInput struct {
	DrinkID string
}

// FindDrinksInput holds the list filters. Empty strings mean no filter and an
// unknown Order means newest first.
type FindDrinksInput struct {
	Name    string
	Type    string
	Order   string
	Page    int
	PerPage int
}

// FindDrinksOutput is one page of drinks.
type FindDrinksOutput struct {
	Items      []DrinkOutput `json:"items"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
}

// CreateDrinkInput holds the parameters for creating a drink.
type CreateDrinkInput struct {
	Name     string
	ImageURL string
	Type     string
}

// UpdateDrinkInput replaces every field of a drink, derived statistics
// included. Nothing is recomputed from the drink's reviews.
type UpdateDrinkInput struct {
	DrinkID      string
	Name         string
	ImageURL     string
	Type         string
	AvgRating    float64
	NumOfReviews int
	NumOfWish    int
}

// DeleteDrinkInput identifies the drink to delete.
type DeleteDrinkInput struct {
	DrinkID string
}

// AddDrinkReviewInput folds Rating into the drink's average.
type AddDrinkReviewInput struct {
	DrinkID string
	Rating  int
}

// UpdateDrinkReviewInput swaps a previously recorded OldRating for NewRating.
type UpdateDrinkReviewInput struct {
	DrinkID   string
	OldRating int
	NewRating int
}

// DeleteDrinkReviewInput removes a previously recorded Rating.
type DeleteDrinkReviewInput struct {
	DrinkID string
	Rating  int
}

// DrinkWishInput identifies the drink whose wish count changes.
type DrinkWishInput struct {
	DrinkID string
}

// FindDrink retrieves a drink by its ID.
func (s *DrinkService) FindDrink(ctx context.Context, input *FindDrinkInput) (out *DrinkOutput, err error) {
	defer s.boundary.done(ctx, "FindDrink", &err)

	d, err := s.load(ctx, input.DrinkID)
	if err != nil {
		return nil, err
	}
	return newDrinkOutput(d), nil
}

// FindDrinks lists drinks. An empty result is not a failure.
func (s *DrinkService) FindDrinks(ctx context.Context, input *FindDrinksInput) (out *FindDrinksOutput, err error) {
	defer s.boundary.done(ctx, "FindDrinks", &err)

	page := pagination.Params{Page: input.Page, PerPage: input.PerPage}.Normalize()
	query := repository.DrinkQuery{
		Order:   domain.ParseOrderType(input.Order),
		Page:    page.Page,
		PerPage: page.PerPage,
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		query.Name = &name
	}
	if input.Type != "" {
		t, err := domain.ParseDrinkType(input.Type)
		if err != nil {
			return nil, err
		}
		query.Type = &t
	}

	drinks, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list drinks: %w", err)
	}

	items := make([]DrinkOutput, 0, len(drinks))
	for i := range drinks {
		items = append(items, *newDrinkOutput(&drinks[i]))
	}

	return &FindDrinksOutput{
		Items:      items,
		TotalCount: total,
		Page:       page.Page,
		PerPage:    page.PerPage,
	}, nil
}

// CreateDrink creates a drink with zeroed statistics. Its id is derived from
// the name and the current time, so a colliding id is reported as a conflict.
func (s *DrinkService) CreateDrink(ctx context.Context, input *CreateDrinkInput) (out *DrinkOutput, err error) {
	defer s.boundary.done(ctx, "CreateDrink", &err)

	d, err := domain.NewDrink(input.Name, input.ImageURL, input.Type, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Add(ctx, d); err != nil {
		return nil, fmt.Errorf("create drink: %w", err)
	}

	if err := s.producer.PublishDrinkCreated(ctx, d); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicDrinkCreated, d.ID, err)
	}

	s.logger.InfoContext(ctx, "drink created",
		slog.String("drink_id", d.ID),
		slog.String("name", d.Name),
		slog.String("type", string(d.Type)),
	)

	return newDrinkOutput(d), nil
}

// UpdateDrink overwrites an existing drink with the caller's values. The
// values must satisfy the drink's field invariants, but the average is
// trusted as given.
func (s *DrinkService) UpdateDrink(ctx context.Context, input *UpdateDrinkInput) (out *DrinkOutput, err error) {
	defer s.boundary.done(ctx, "UpdateDrink", &err)

	existing, err := s.load(ctx, input.DrinkID)
	if err != nil {
		return nil, err
	}

	t, err := domain.ParseDrinkType(input.Type)
	if err != nil {
		return nil, err
	}
	rating, err := domain.NewDrinkRating(input.AvgRating)
	if err != nil {
		return nil, err
	}

	d := &domain.Drink{
		ID:           existing.ID,
		Name:         input.Name,
		ImageURL:     input.ImageURL,
		Type:         t,
		AvgRating:    rating,
		NumOfReviews: input.NumOfReviews,
		NumOfWish:    input.NumOfWish,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    s.now().UTC(),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update drink: %w", err)
	}

	if err := s.producer.PublishDrinkUpdated(ctx, d); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicDrinkUpdated, d.ID, err)
	}

	s.logger.InfoContext(ctx, "drink updated", slog.String("drink_id", d.ID))

	return newDrinkOutput(d), nil
}

// DeleteDrink removes a drink after checking that it exists.
func (s *DrinkService) DeleteDrink(ctx context.Context, input *DeleteDrinkInput) (err error) {
	defer s.boundary.done(ctx, "DeleteDrink", &err)

	d, err := s.load(ctx, input.DrinkID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, d.ID); err != nil {
		return fmt.Errorf("delete drink: %w", err)
	}

	if err := s.producer.PublishDrinkDeleted(ctx, d.ID); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicDrinkDeleted, d.ID, err)
	}

	s.logger.InfoContext(ctx, "drink deleted", slog.String("drink_id", d.ID))

	return nil
}

// AddDrinkReview folds a new rating into the drink's average and count.
func (s *DrinkService) AddDrinkReview(ctx context.Context, input *AddDrinkReviewInput) (out *DrinkOutput, err error) {
	defer s.boundary.done(ctx, "AddDrinkReview", &err)

	return s.rate(ctx, input.DrinkID, "added", func(d *domain.Drink) error {
		return d.AddRating(domain.ReviewRating(input.Rating))
	})
}

// UpdateDrinkReview replaces OldRating's contribution with NewRating's. The
// review count is unchanged.
func (s *DrinkService) UpdateDrinkReview(ctx context.Context, input *UpdateDrinkReviewInput) (out *DrinkOutput, err error) {
	defer s.boundary.done(ctx, "UpdateDrinkReview", &err)

	return s.rate(ctx, input.DrinkID, "updated", func(d *domain.Drink) error {
		return d.UpdateRating(domain.ReviewRating(input.OldRating), domain.ReviewRating(input.NewRating))
	})
}

// DeleteDrinkReview removes a rating's contribution and decrements the count.
func (s *DrinkService) DeleteDrinkReview(ctx context.Context, input *DeleteDrinkReviewInput) (out *DrinkOutput, err error) {
	defer s.boundary.done(ctx, "DeleteDrinkReview", &err)

	return s.rate(ctx, input.DrinkID, "deleted", func(d *domain.Drink) error {
		return d.DeleteRating(domain.ReviewRating(input.Rating))
	})
}

// AddDrinkWish increments the drink's wish count.
func (s *DrinkService) AddDrinkWish(ctx context.Context, input *DrinkWishInput) (out *DrinkOutput, err error) {
	defer s.boundary.done(ctx, "AddDrinkWish", &err)

	return s.wish(ctx, input.DrinkID, 1, func(d *domain.Drink) error {
		d.AddWish()
		return nil
	})
}

// DeleteDrinkWish decrements the drink's wish count. It fails when the count
// is already zero.
func (s *DrinkService) DeleteDrinkWish(ctx context.Context, input *DrinkWishInput) (out *DrinkOutput, err error) {
	defer s.boundary.done(ctx, "DeleteDrinkWish", &err)

	return s.wish(ctx, input.DrinkID, -1, (*domain.Drink).DeleteWish)
}

func (s *DrinkService) rate(ctx context.Context, drinkID, action string, apply func(*domain.Drink) error) (*DrinkOutput, error) {
	d, err := s.mutate(ctx, drinkID, apply)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishDrinkRated(ctx, d, action); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicDrinkRated, d.ID, err)
	}

	s.logger.InfoContext(ctx, "drink rating "+action,
		slog.String("drink_id", d.ID),
		slog.Float64("avg_rating", float64(d.AvgRating)),
		slog.Int("num_of_reviews", d.NumOfReviews),
	)

	return newDrinkOutput(d), nil
}

func (s *DrinkService) wish(ctx context.Context, drinkID string, delta int, apply func(*domain.Drink) error) (*DrinkOutput, error) {
	d, err := s.mutate(ctx, drinkID, apply)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishDrinkWished(ctx, d, delta); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicDrinkWished, d.ID, err)
	}

	s.logger.InfoContext(ctx, "drink wish changed",
		slog.String("drink_id", d.ID),
		slog.Int("delta", delta),
		slog.Int("num_of_wish", d.NumOfWish),
	)

	return newDrinkOutput(d), nil
}

// mutate loads a drink, applies a change and persists it. Concurrent
// mutations of one drink are not serialized: the last write wins.
func (s *DrinkService) mutate(ctx context.Context, drinkID string, apply func(*domain.Drink) error) (*domain.Drink, error) {
	d, err := s.load(ctx, drinkID)
	if err != nil {
		return nil, err
	}

	if err := apply(d); err != nil {
		return nil, err
	}
	d.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update drink: %w", err)
	}

	return d, nil
}

func (s *DrinkService) load(ctx context.Context, drinkID string) (*domain.Drink, error) {
	id, err := domain.ParseDrinkID(drinkID)
	if err != nil {
		return nil, err
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get drink by id: %w", err)
	}
	return d, nil
}
