package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rayob-cms/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what a validated token says about its bearer.
type Identity struct {
	UserID    uint
	Email     string
	Role      models.UserRole
	TokenID   string
	ExpiresAt time.Time
}

type TokenService interface {
	Issue(user *models.User) (string, time.Time, error)
	Validate(ctx context.Context, token string) (*Identity, error)
	Revoke(ctx context.Context, token string) error
}

type tokenService struct {
	secret     []byte
	expiration time.Duration
	revoked    RevocationStore
	now        func() time.Time
}

func NewTokenService(secret []byte, expiration time.Duration, revoked RevocationStore) TokenService {
	return newTokenService(secret, expiration, revoked, time.Now)
}

func newTokenService(secret []byte, expiration time.Duration, revoked RevocationStore, now func() time.Time) *tokenService {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &tokenService{
		secret:     secret,
		expiration: expiration,
		revoked:    revoked,
		now:        now,
	}
}

func (s *tokenService) Issue(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *tokenService) Validate(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, models.ErrInvalidToken
	}

	return &Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke marks the token unusable until it would have expired anyway.
// Expired tokens need no revocation and are accepted silently.
func (s *tokenService) Revoke(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if errors.Is(err, models.ErrExpiredToken) {
		return nil
	}
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *tokenService) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.Parser{
		ValidMethods: []string{jwt.SigningMethodHS256.Alg()},
		// Time-based claims are checked below against s.now.
		SkipClaimsValidation: true,
	}

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, models.ErrInvalidToken
	}

	now := s.now()
	if !claims.VerifyNotBefore(now, false) {
		return nil, models.ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(now, true) {
		return nil, models.ErrExpiredToken
	}
	return claims, nil
}
