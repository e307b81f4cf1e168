package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/event"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/pagination"
)

// ReviewService implements the review use cases. It does not touch drinks:
// callers keep the drink's rating in step using the ratings it reports.
type ReviewService struct {
	repo     repository.ReviewRepository
	producer *event.Producer
	logger   *slog.Logger
	now      func() time.Time
	boundary boundary
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, producer *event.Producer, logger *slog.Logger, opts ...Option) *ReviewService {
	o := buildOptions(opts)
	return &ReviewService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		now:      o.now,
		boundary: boundary{service: "review", logger: logger},
	}
}

// ReviewOutput is the projection of a review. Timestamps are seconds since
// the Unix epoch.
type ReviewOutput struct {
	ReviewID  string  `json:"review_id"`
	DrinkID   string  `json:"drink_id"`
	UserID    string  `json:"user_id"`
	Rating    int     `json:"rating"`
	Comment   string  `json:"comment"`
	CreatedAt float64 `json:"created_at"`
	UpdatedAt float64 `json:"updated_at"`
}

func newReviewOutput(r *domain.Review) *ReviewOutput {
	return &ReviewOutput{
		ReviewID:  r.ID,
		DrinkID:   r.DrinkID,
		UserID:    r.UserID,
		Rating:    int(r.Rating),
		Comment:   r.Comment,
		CreatedAt: domain.EpochSeconds(r.CreatedAt),
		UpdatedAt: domain.EpochSeconds(r.UpdatedAt),
	}
}

// FindReviewInput identifies one review.
type FindReviewInput struct {
	ReviewID string
}

// FindReviewsInput filters reviews by drink and/or user.
type FindReviewsInput struct {
	DrinkID string
	UserID  string
	Order   string
	Page    int
	PerPage int
}

// FindReviewsOutput is one page of reviews.
type FindReviewsOutput struct {
	Items      []ReviewOutput `json:"items"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	DrinkID string
	UserID  string
	Rating  int
	Comment string
}

// UpdateReviewInput replaces the rating and comment of a review owned by UserID.
type UpdateReviewInput struct {
	ReviewID string
	UserID   string
	Rating   int
	Comment  string
}

// UpdateReviewOutput carries the updated review and the rating and comment it
// replaced.
type UpdateReviewOutput struct {
	Review     ReviewOutput `json:"review"`
	OldRating  int          `json:"old_rating"`
	OldComment string       `json:"old_comment"`
}

// DeleteReviewInput identifies a review owned by UserID.
type DeleteReviewInput struct {
	ReviewID string
	UserID   string
}

// DeleteReviewOutput carries the review as it was before deletion.
type DeleteReviewOutput struct {
	Review ReviewOutput `json:"review"`

	deleted *domain.Review
}

// FindReview retrieves a review by its ID.
func (s *ReviewService) FindReview(ctx context.Context, input *FindReviewInput) (out *ReviewOutput, err error) {
	defer s.boundary.done(ctx, "FindReview", &err)

	r, err := s.load(ctx, input.ReviewID)
	if err != nil {
		return nil, err
	}
	return newReviewOutput(r), nil
}

// FindReviews lists reviews. An unknown order label means newest first.
func (s *ReviewService) FindReviews(ctx context.Context, input *FindReviewsInput) (out *FindReviewsOutput, err error) {
	defer s.boundary.done(ctx, "FindReviews", &err)

	page := pagination.Params{Page: input.Page, PerPage: input.PerPage}.Normalize()
	query := repository.ReviewQuery{
		Order:   domain.ParseOrderType(input.Order),
		Page:    page.Page,
		PerPage: page.PerPage,
	}
	if input.DrinkID != "" {
		query.DrinkID = &input.DrinkID
	}
	if input.UserID != "" {
		userID, err := domain.ParseUserID(input.UserID)
		if err != nil {
			return nil, err
		}
		query.UserID = &userID
	}

	reviews, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	items := make([]ReviewOutput, 0, len(reviews))
	for i := range reviews {
		items = append(items, *newReviewOutput(&reviews[i]))
	}

	return &FindReviewsOutput{
		Items:      items,
		TotalCount: total,
		Page:       page.Page,
		PerPage:    page.PerPage,
	}, nil
}

// CreateReview records a user's review of a drink. A user can review a drink
// only once; a second review is a conflict.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (out *ReviewOutput, err error) {
	defer s.boundary.done(ctx, "CreateReview", &err)

	r, err := domain.NewReview(input.DrinkID, input.UserID, input.Rating, input.Comment, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Add(ctx, r); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, r); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicReviewCreated, r.ID, err)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", r.ID),
		slog.String("drink_id", r.DrinkID),
		slog.String("user_id", r.UserID),
		slog.Int("rating", int(r.Rating)),
	)

	return newReviewOutput(r), nil
}

// UpdateReview revises a review and reports the rating it replaced.
func (s *ReviewService) UpdateReview(ctx context.Context, input *UpdateReviewInput) (out *UpdateReviewOutput, err error) {
	defer s.boundary.done(ctx, "UpdateReview", &err)

	r, err := s.loadOwned(ctx, input.ReviewID, input.UserID)
	if err != nil {
		return nil, err
	}

	old, oldComment := r.Rating, r.Comment
	if err := r.Revise(input.Rating, input.Comment, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	if err := s.producer.PublishReviewUpdated(ctx, r); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicReviewUpdated, r.ID, err)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", r.ID),
		slog.Int("old_rating", int(old)),
		slog.Int("rating", int(r.Rating)),
	)

	return &UpdateReviewOutput{Review: *newReviewOutput(r), OldRating: int(old), OldComment: oldComment}, nil
}

// DeleteReview removes a review and returns it as it was.
func (s *ReviewService) DeleteReview(ctx context.Context, input *DeleteReviewInput) (out *DeleteReviewOutput, err error) {
	defer s.boundary.done(ctx, "DeleteReview", &err)

	r, err := s.loadOwned(ctx, input.ReviewID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteByID(ctx, r.ID); err != nil {
		return nil, fmt.Errorf("delete review: %w", err)
	}

	if err := s.producer.PublishReviewDeleted(ctx, r); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicReviewDeleted, r.ID, err)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", r.ID),
		slog.String("drink_id", r.DrinkID),
	)

	return &DeleteReviewOutput{Review: *newReviewOutput(r), deleted: r}, nil
}

// RestoreReview puts back a review removed by DeleteReview, keeping its id
// and timestamps. It is a conflict when the user has reviewed the drink again
// in the meantime.
func (s *ReviewService) RestoreReview(ctx context.Context, deleted *DeleteReviewOutput) (out *ReviewOutput, err error) {
	defer s.boundary.done(ctx, "RestoreReview", &err)

	if deleted == nil || deleted.deleted == nil {
		return nil, apperrors.Invalid("no deleted review to restore")
	}

	r := *deleted.deleted
	if err := s.repo.Add(ctx, &r); err != nil {
		return nil, fmt.Errorf("restore review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, &r); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicReviewCreated, r.ID, err)
	}

	s.logger.InfoContext(ctx, "review restored",
		slog.String("review_id", r.ID),
		slog.String("drink_id", r.DrinkID),
	)

	return newReviewOutput(&r), nil
}

func (s *ReviewService) load(ctx context.Context, reviewID string) (*domain.Review, error) {
	id, err := domain.ParseReviewID(reviewID)
	if err != nil {
		return nil, err
	}

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return r, nil
}

// loadOwned loads a review and checks that userID wrote it.
func (s *ReviewService) loadOwned(ctx context.Context, reviewID, userID string) (*domain.Review, error) {
	r, err := s.load(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, apperrors.Unauthorized("review belongs to another user")
	}
	return r, nil
}
