package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rayob-cms/models"
	"rayob-cms/repositories"
)

type SeedAdmin struct {
	Email    string
	Password string
	Name     string
}

// EnsureAdmin creates the seed admin when no admin exists yet. It reports
// whether a user was created. Without seed credentials it only warns.
func EnsureAdmin(ctx context.Context, repo repositories.UserRepository, hasher PasswordHasher, seed SeedAdmin, log *slog.Logger) (bool, error) {
	admins, err := repo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}

	if seed.Email == "" || seed.Password == "" {
		log.Warn("no admin user exists and no seed admin is configured")
		return false, nil
	}

	existing, err := repo.GetByEmail(ctx, seed.Email)
	switch {
	case err == nil:
		_, err = repo.Update(ctx, existing.ID, func(u *models.User) error {
			u.Role = models.RoleAdmin
			return nil
		})
		if err != nil {
			return false, fmt.Errorf("promote seed admin: %w", err)
		}
		log.Info("promoted existing user to admin", "email", existing.Email)
		return false, nil
	case !errors.Is(err, models.ErrNotFound):
		return false, fmt.Errorf("look up seed admin: %w", err)
	}

	hashed, err := hasher.Hash(seed.Password)
	if err != nil {
		return false, err
	}
	name := seed.Name
	if name == "" {
		name = "Administrator"
	}

	user := &models.User{Email: seed.Email, Name: name, Password: hashed, Role: models.RoleAdmin}
	if err := repo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create seed admin: %w", err)
	}
	log.Info("created seed admin", "email", user.Email)
	return true, nil
}
