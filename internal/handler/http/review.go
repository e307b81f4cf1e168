package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/service"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/httputil"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/logger"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/middleware"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/pagination"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints. Writes go through
// the review service first and are then folded into the drink's rating.
type ReviewHandler struct {
	reviews *service.ReviewService
	drinks  *service.DrinkService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviews *service.ReviewService, drinks *service.DrinkService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		drinks:  drinks,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for reviewing a drink.
type CreateReviewRequest struct {
	DrinkID string `json:"drink_id" validate:"required"`
	Rating  int    `json:"rating" validate:"gte=0,lte=5"`
	Comment string `json:"comment" validate:"max=300"`
}

// UpdateReviewRequest is the JSON request body for revising a review.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"gte=0,lte=5"`
	Comment string `json:"comment" validate:"max=300"`
}

// --- Handlers ---

// ListReviews handles GET /api/v1/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromRequest(r)
	q := r.URL.Query()

	out, err := h.reviews.FindReviews(r.Context(), &service.FindReviewsInput{
		DrinkID: q.Get("drink_id"),
		UserID:  q.Get("user_id"),
		Order:   q.Get("order"),
		Page:    page.Page,
		PerPage: page.PerPage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(out.Items, out.TotalCount, out.Page, out.PerPage))
}

// GetReview handles GET /api/v1/reviews/{reviewId}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	out, err := h.reviews.FindReview(r.Context(), &service.FindReviewInput{ReviewID: chi.URLParam(r, "reviewId")})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// CreateReview handles POST /api/v1/reviews. The review is removed again when
// its rating cannot be added to the drink.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	ctx := r.Context()
	userID := middleware.UserIDFromContext(ctx)

	if _, err := h.drinks.FindDrink(ctx, &service.FindDrinkInput{DrinkID: req.DrinkID}); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	review, err := h.reviews.CreateReview(ctx, &service.CreateReviewInput{
		DrinkID: req.DrinkID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if _, err := h.drinks.AddDrinkReview(ctx, &service.AddDrinkReviewInput{DrinkID: review.DrinkID, Rating: review.Rating}); err != nil {
		if _, undoErr := h.reviews.DeleteReview(ctx, &service.DeleteReviewInput{ReviewID: review.ReviewID, UserID: userID}); undoErr != nil {
			h.logRollbackFailure(ctx, review.ReviewID, undoErr)
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// UpdateReview handles PUT /api/v1/reviews/{reviewId}. The previous rating and
// comment are written back when the drink's rating cannot be updated.
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req UpdateReviewRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	ctx := r.Context()
	out, err := h.reviews.UpdateReview(ctx, &service.UpdateReviewInput{
		ReviewID: chi.URLParam(r, "reviewId"),
		UserID:   middleware.UserIDFromContext(ctx),
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if _, err := h.drinks.UpdateDrinkReview(ctx, &service.UpdateDrinkReviewInput{
		DrinkID:   out.Review.DrinkID,
		OldRating: out.OldRating,
		NewRating: out.Review.Rating,
	}); err != nil {
		if _, undoErr := h.reviews.UpdateReview(ctx, &service.UpdateReviewInput{
			ReviewID: out.Review.ReviewID,
			UserID:   out.Review.UserID,
			Rating:   out.OldRating,
			Comment:  out.OldComment,
		}); undoErr != nil {
			h.logRollbackFailure(ctx, out.Review.ReviewID, undoErr)
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out.Review})
}

// DeleteReview handles DELETE /api/v1/reviews/{reviewId}. A review of a drink
// that no longer exists is still deleted; any other failure to remove its
// rating puts the review back.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.reviews.DeleteReview(ctx, &service.DeleteReviewInput{
		ReviewID: chi.URLParam(r, "reviewId"),
		UserID:   middleware.UserIDFromContext(ctx),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	_, err = h.drinks.DeleteDrinkReview(ctx, &service.DeleteDrinkReviewInput{
		DrinkID: out.Review.DrinkID,
		Rating:  out.Review.Rating,
	})
	if err != nil && apperrors.KindOf(err) != apperrors.KindResourceNotFound {
		if _, undoErr := h.reviews.RestoreReview(ctx, out); undoErr != nil {
			h.logRollbackFailure(ctx, out.Review.ReviewID, undoErr)
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"review_id": out.Review.ReviewID, "status": "deleted"}})
}

func (h *ReviewHandler) logRollbackFailure(ctx context.Context, reviewID string, err error) {
	logger.WithContext(ctx, h.logger).ErrorContext(ctx, "failed to roll back review",
		slog.String("review_id", reviewID),
		slog.String("error", err.Error()),
	)
}
