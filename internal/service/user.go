package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/event"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
)

// defaultBcryptCost is the cost factor for bcrypt password hashing.
const defaultBcryptCost = 12

// bcrypt rejects passwords longer than 72 bytes.
const maxPasswordBytes = 72

// UserService implements account management and password login.
type UserService struct {
	repo       repository.UserRepository
	producer   *event.Producer
	logger     *slog.Logger
	now        func() time.Time
	bcryptCost int
	boundary   boundary
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, producer *event.Producer, logger *slog.Logger, opts ...Option) *UserService {
	o := buildOptions(opts)
	return &UserService{
		repo:       repo,
		producer:   producer,
		logger:     logger,
		now:        o.now,
		bcryptCost: o.bcryptCost,
		boundary:   boundary{service: "user", logger: logger},
	}
}

// UserOutput is the public projection of a user. The password hash never
// leaves the service.
type UserOutput struct {
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newUserOutput(u *domain.User) *UserOutput {
	return &UserOutput{
		UserID:      u.ID,
		Description: u.Description,
		ImageURL:    u.ImageURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// CreateUserInput holds the parameters for signing up.
type CreateUserInput struct {
	UserID      string
	Password    string
	Description string
	ImageURL    string
}

// FindUserInput identifies one user.
type FindUserInput struct {
	UserID string
}

// UpdateUserInput changes the non-nil fields of a user.
type UpdateUserInput struct {
	UserID      string
	Password    *string
	Description *string
	ImageURL    *string
}

// DeleteUserInput identifies the user to delete.
type DeleteUserInput struct {
	UserID string
}

// LoginInput holds user credentials.
type LoginInput struct {
	UserID   string
	Password string
}

// LoginOutput identifies the authenticated user.
type LoginOutput struct {
	UserID string `json:"user_id"`
}

// CreateUser registers a new user. A taken id is a conflict.
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (out *UserOutput, err error) {
	defer s.boundary.done(ctx, "CreateUser", &err)

	id, err := domain.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &domain.User{
		ID:           id,
		PasswordHash: hash,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Add(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserCreated(ctx, u.ID); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicUserCreated, u.ID, err)
	}

	s.logger.InfoContext(ctx, "user created", slog.String("user_id", u.ID))

	return newUserOutput(u), nil
}

// FindUser retrieves a user by ID.
func (s *UserService) FindUser(ctx context.Context, input *FindUserInput) (out *UserOutput, err error) {
	defer s.boundary.done(ctx, "FindUser", &err)

	u, err := s.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return newUserOutput(u), nil
}

// UpdateUser merges the provided fields into the user.
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (out *UserOutput, err error) {
	defer s.boundary.done(ctx, "UpdateUser", &err)

	u, err := s.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Password != nil {
		hash, err := s.hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if input.Description != nil {
		u.Description = *input.Description
	}
	if input.ImageURL != nil {
		u.ImageURL = *input.ImageURL
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.String("user_id", u.ID),
		slog.Bool("password_changed", input.Password != nil),
	)

	return newUserOutput(u), nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, input *DeleteUserInput) (err error) {
	defer s.boundary.done(ctx, "DeleteUser", &err)

	u, err := s.load(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, u.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", u.ID))

	return nil
}

// Login checks a user's password. An unknown user is a ResourceError and a
// wrong password is an UnauthorizedError.
func (s *UserService) Login(ctx context.Context, input *LoginInput) (out *LoginOutput, err error) {
	defer s.boundary.done(ctx, "Login", &err)

	u, err := s.repo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ResourceFailure("user not found")
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid user id or password")
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", u.ID))

	return &LoginOutput{UserID: u.ID}, nil
}

func (s *UserService) load(ctx context.Context, userID string) (*domain.User, error) {
	id, err := domain.ParseUserID(userID)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	if password == "" {
		return "", apperrors.Invalid("password is required")
	}
	if len(password) > maxPasswordBytes {
		return "", apperrors.Invalid("password must be at most %d bytes", maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
