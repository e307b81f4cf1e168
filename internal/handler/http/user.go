package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/service"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/httputil"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/middleware"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/validator"
)

// UserHandler handles HTTP requests for user endpoints.
type UserHandler struct {
	users  *service.UserService
	auth   *service.AuthService
	logger *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(users *service.UserService, auth *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		auth:   auth,
		logger: logger,
	}
}

// --- Request DTOs ---

// CreateUserRequest is the JSON request body for signing up.
type CreateUserRequest struct {
	UserID      string `json:"user_id" validate:"required,max=30"`
	Password    string `json:"password" validate:"required,max=72"`
	Description string `json:"description" validate:"max=500"`
	ImageURL    string `json:"image_url" validate:"omitempty,max=2048"`
}

// UpdateUserRequest is the JSON request body for updating a user. Omitted
// fields are left unchanged.
type UpdateUserRequest struct {
	Password    *string `json:"password" validate:"omitempty,min=1,max=72"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=2048"`
}

// --- Handlers ---

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	out, err := h.users.CreateUser(r.Context(), &service.CreateUserInput{
		UserID:      req.UserID,
		Password:    req.Password,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: out})
}

// GetUser handles GET /api/v1/users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	out, err := h.users.FindUser(r.Context(), &service.FindUserInput{UserID: chi.URLParam(r, "userId")})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// UpdateUser handles PUT /api/v1/users/{userId}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !h.authorize(w, r, userID) {
		return
	}

	var req UpdateUserRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	out, err := h.users.UpdateUser(r.Context(), &service.UpdateUserInput{
		UserID:      userID,
		Password:    req.Password,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// DeleteUser handles DELETE /api/v1/users/{userId}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !h.authorize(w, r, userID) {
		return
	}

	if err := h.users.DeleteUser(r.Context(), &service.DeleteUserInput{UserID: userID}); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"user_id": userID, "status": "deleted"}})
}

// authorize checks that the request's access token was issued to userID.
func (h *UserHandler) authorize(w http.ResponseWriter, r *http.Request, userID string) bool {
	err := h.auth.VerifyToken(r.Context(), &service.VerifyTokenInput{
		AccessToken: middleware.AccessTokenFromContext(r.Context()),
		UserID:      userID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return false
	}
	return true
}
