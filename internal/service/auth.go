package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/auth"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
)

// AuthService issues and checks access tokens. Credentials are checked by
// the user service.
type AuthService struct {
	users    *UserService
	tokens   *auth.JWTManager
	logger   *slog.Logger
	boundary boundary
}

// NewAuthService creates a new auth service.
func NewAuthService(users *UserService, tokens *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		logger:   logger,
		boundary: boundary{service: "auth", logger: logger},
	}
}

// GetTokenInput holds login credentials.
type GetTokenInput struct {
	UserID   string
	Password string
}

// GetTokenOutput carries a signed access token.
type GetTokenOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// GetTokenDataInput carries the token to decode.
type GetTokenDataInput struct {
	AccessToken string
}

// GetTokenDataOutput is the data encoded in a token.
type GetTokenDataOutput struct {
	UserID string `json:"user_id"`
}

// VerifyTokenInput pairs a token with the user it should belong to.
type VerifyTokenInput struct {
	AccessToken string
	UserID      string
}

// GetToken logs the user in and signs a token for them. Login failures are
// returned unchanged.
func (s *AuthService) GetToken(ctx context.Context, input *GetTokenInput) (out *GetTokenOutput, err error) {
	defer s.boundary.done(ctx, "GetToken", &err)

	login, err := s.users.Login(ctx, &LoginInput{UserID: input.UserID, Password: input.Password})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(login.UserID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.InfoContext(ctx, "access token issued", slog.String("user_id", login.UserID))

	return &GetTokenOutput{AccessToken: token, TokenType: "bearer"}, nil
}

// GetTokenData decodes a token. Any malformed or forged token is an
// UnauthorizedError.
func (s *AuthService) GetTokenData(ctx context.Context, input *GetTokenDataInput) (out *GetTokenDataOutput, err error) {
	defer s.boundary.done(ctx, "GetTokenData", &err)

	userID, err := s.tokens.ValidateAccessToken(input.AccessToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid access token")
	}
	return &GetTokenDataOutput{UserID: userID}, nil
}

// VerifyToken succeeds only when the token is valid and was issued to
// input.UserID.
func (s *AuthService) VerifyToken(ctx context.Context, input *VerifyTokenInput) (err error) {
	defer s.boundary.done(ctx, "VerifyToken", &err)

	userID, err := s.tokens.ValidateAccessToken(input.AccessToken)
	if err != nil {
		return apperrors.Unauthorized("invalid access token")
	}
	if userID != input.UserID {
		return apperrors.Unauthorized("access token was issued to another user")
	}
	return nil
}
