package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/service"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/httputil"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/pagination"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/validator"
)

// DrinkHandler handles HTTP requests for drink endpoints.
type DrinkHandler struct {
	service *service.DrinkService
	logger  *slog.Logger
}

// NewDrinkHandler creates a new drink HTTP handler.
func NewDrinkHandler(svc *service.DrinkService, logger *slog.Logger) *DrinkHandler {
	return &DrinkHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateDrinkRequest is the JSON request body for creating a drink.
type CreateDrinkRequest struct {
	Name     string `json:"drink_name" validate:"required,max=200"`
	ImageURL string `json:"drink_image_url" validate:"omitempty,max=2048"`
	Type     string `json:"drink_type" validate:"required"`
}

// UpdateDrinkRequest is the JSON request body for replacing a drink.
type UpdateDrinkRequest struct {
	Name         string  `json:"drink_name" validate:"required,max=200"`
	ImageURL     string  `json:"drink_image_url" validate:"omitempty,max=2048"`
	Type         string  `json:"drink_type" validate:"required"`
	AvgRating    float64 `json:"avg_rating" validate:"gte=0,lte=5"`
	NumOfReviews int     `json:"num_of_reviews" validate:"gte=0"`
	NumOfWish    int     `json:"num_of_wish" validate:"gte=0"`
}

// --- Handlers ---

// ListDrinks handles GET /api/v1/drinks
func (h *DrinkHandler) ListDrinks(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromRequest(r)
	q := r.URL.Query()

	out, err := h.service.FindDrinks(r.Context(), &service.FindDrinksInput{
		Name:    q.Get("name"),
		Type:    q.Get("type"),
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

// GetDrink handles GET /api/v1/drinks/{drinkId}
func (h *DrinkHandler) GetDrink(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.FindDrink(r.Context(), &service.FindDrinkInput{DrinkID: chi.URLParam(r, "drinkId")})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// CreateDrink handles POST /api/v1/drinks
func (h *DrinkHandler) CreateDrink(w http.ResponseWriter, r *http.Request) {
	var req CreateDrinkRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	out, err := h.service.CreateDrink(r.Context(), &service.CreateDrinkInput{
		Name:     req.Name,
		ImageURL: req.ImageURL,
		Type:     req.Type,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: out})
}

// UpdateDrink handles PUT /api/v1/drinks/{drinkId}. Every field is replaced.
func (h *DrinkHandler) UpdateDrink(w http.ResponseWriter, r *http.Request) {
	var req UpdateDrinkRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	out, err := h.service.UpdateDrink(r.Context(), &service.UpdateDrinkInput{
		DrinkID:      chi.URLParam(r, "drinkId"),
		Name:         req.Name,
		ImageURL:     req.ImageURL,
		Type:         req.Type,
		AvgRating:    req.AvgRating,
		NumOfReviews: req.NumOfReviews,
		NumOfWish:    req.NumOfWish,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// DeleteDrink handles DELETE /api/v1/drinks/{drinkId}
func (h *DrinkHandler) DeleteDrink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "drinkId")
	if err := h.service.DeleteDrink(r.Context(), &service.DeleteDrinkInput{DrinkID: id}); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"drink_id": id, "status": "deleted"}})
}

// AddWish handles POST /api/v1/drinks/{drinkId}/wish
func (h *DrinkHandler) AddWish(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.AddDrinkWish(r.Context(), &service.DrinkWishInput{DrinkID: chi.URLParam(r, "drinkId")})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// DeleteWish handles DELETE /api/v1/drinks/{drinkId}/wish
func (h *DrinkHandler) DeleteWish(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.DeleteDrinkWish(r.Context(), &service.DrinkWishInput{DrinkID: chi.URLParam(r, "drinkId")})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}
