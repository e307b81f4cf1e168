package http

import (
	"log/slog"
	"net/http"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/service"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/httputil"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/middleware"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/validator"
)

// AuthHandler handles HTTP requests for token endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  logger,
	}
}

// TokenRequest is the JSON request body for logging in.
type TokenRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// GetToken handles POST /api/v1/auth/token
func (h *AuthHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	out, err := h.service.GetToken(r.Context(), &service.GetTokenInput{
		UserID:   req.UserID,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// GetTokenData handles GET /api/v1/auth/token-data
func (h *AuthHandler) GetTokenData(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("missing or malformed authorization header"), h.logger)
		return
	}

	out, err := h.service.GetTokenData(r.Context(), &service.GetTokenDataInput{AccessToken: token})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}
