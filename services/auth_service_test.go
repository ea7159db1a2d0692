package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"rayob-cms/models"
	"rayob-cms/repositories"
	"rayob-cms/testutil"
	"rayob-cms/validation"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	users  repositories.UserRepository
	tokens TokenService
	hasher PasswordHasher
	auth   AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	db := testutil.NewDB(s.T())
	s.users = repositories.NewUserRepository(db, time.Second)
	s.tokens = NewTokenService(testSecret, time.Hour, NewMemoryRevocationStore())
	s.hasher = NewBcryptHasher(bcrypt.MinCost)

	auth, err := NewAuthService(s.users, s.tokens, s.hasher, validation.New())
	s.Require().NoError(err)
	s.auth = auth

	hashed, err := s.hasher.Hash("correct-horse")
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(context.Background(), &models.User{
		Email:    "admin@example.com",
		Name:     "Admin",
		Password: hashed,
		Role:     models.RoleAdmin,
	}))
}

func (s *AuthServiceTestSuite) TestLoginSuccess() {
	resp, err := s.auth.Login(context.Background(), models.LoginRequest{
		Email:    "Admin@Example.com",
		Password: "correct-horse",
	})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
	s.Equal("admin@example.com", resp.User.Email)
	s.Equal(models.RoleAdmin, resp.User.Role)

	identity, err := s.tokens.Validate(context.Background(), resp.Token)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, identity.UserID)
	s.Equal(models.RoleAdmin, identity.Role)
}

func (s *AuthServiceTestSuite) TestLoginFailuresAreIndistinguishable() {
	_, wrongPassword := s.auth.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	_, unknownUser := s.auth.Login(context.Background(), models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "correct-horse",
	})

	s.True(errors.Is(wrongPassword, models.ErrInvalidCredentials))
	s.True(errors.Is(unknownUser, models.ErrInvalidCredentials))
	s.Equal(wrongPassword, unknownUser)
}

func (s *AuthServiceTestSuite) TestLoginValidation() {
	_, err := s.auth.Login(context.Background(), models.LoginRequest{})
	s.True(errors.Is(err, models.ErrValidation))
}

func (s *AuthServiceTestSuite) TestLogoutRevokesToken() {
	resp, err := s.auth.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "correct-horse",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.auth.Logout(context.Background(), resp.Token))

	_, err = s.tokens.Validate(context.Background(), resp.Token)
	s.True(errors.Is(err, models.ErrInvalidToken))
}

func (s *AuthServiceTestSuite) TestRegisterCreatesViewer() {
	resp, err := s.auth.Register(context.Background(), models.RegisterRequest{
		Email:    "new@example.com",
		Name:     "Newcomer",
		Password: "long-enough-password",
	})
	s.Require().NoError(err)
	s.Equal(models.RoleViewer, resp.User.Role)
	s.NotEmpty(resp.Token)

	_, err = s.auth.Register(context.Background(), models.RegisterRequest{
		Email:    "new@example.com",
		Name:     "Again",
		Password: "long-enough-password",
	})
	s.True(errors.Is(err, models.ErrConflict))
}

func (s *AuthServiceTestSuite) TestRegisterValidation() {
	_, err := s.auth.Register(context.Background(), models.RegisterRequest{Email: "bad", Password: "short"})
	s.True(errors.Is(err, models.ErrValidation))
}

func (s *AuthServiceTestSuite) TestEnsureAdminSkipsWhenAdminExists() {
	created, err := EnsureAdmin(context.Background(), s.users, s.hasher, SeedAdmin{
		Email:    "seed@example.com",
		Password: "seed-password",
	}, discardLogger())
	s.Require().NoError(err)
	s.False(created)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
