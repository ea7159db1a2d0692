package services

import (
	"context"
	"errors"
	"fmt"

	"rayob-cms/models"
	"rayob-cms/repositories"
	"rayob-cms/validation"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	tokens    TokenService
	hasher    PasswordHasher
	validator *validation.Validator
	dummyHash string
}

func NewAuthService(userRepo repositories.UserRepository, tokens TokenService, hasher PasswordHasher, v *validation.Validator) (AuthService, error) {
	// Compared against when the email is unknown so that both failure
	// paths cost one bcrypt comparison.
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		hasher:    hasher,
		validator: v,
		dummyHash: dummyHash,
	}, nil
}

// Register creates a viewer account. Elevated roles are granted through
// user management only.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if errs := s.validator.Struct(&req); len(errs) > 0 {
		return nil, models.NewValidationError("invalid registration", errs)
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: hashedPassword,
		Role:     models.RoleViewer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if errs := s.validator.Struct(&req); len(errs) > 0 {
		return nil, models.NewValidationError("invalid login request", errs)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.hasher.Compare(s.dummyHash, req.Password)
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(user.Password, req.Password) {
		return nil, models.ErrInvalidCredentials
	}

	return s.respond(user)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *authService) respond(user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.View(),
	}, nil
}
