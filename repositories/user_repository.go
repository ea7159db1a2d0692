package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"rayob-cms/models"

	"gorm.io/gorm"
)

const usersCollection = "users"

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// Update loads the user, applies fn and saves the result. It fails with
	// Conflict when the change would leave no admin.
	Update(ctx context.Context, id uint, fn func(user *models.User) error) (*models.User, error)
	// Delete fails with Conflict when id is the last remaining admin.
	Delete(ctx context.Context, id uint) error
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

type userRepository struct {
	db      *gorm.DB
	timeout time.Duration
	lock    *collectionLock
}

func NewUserRepository(db *gorm.DB, timeout time.Duration) UserRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &userRepository{db: db, timeout: timeout, lock: lockFor(usersCollection)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	release, err := r.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	user.Email = normalizeEmail(user.Email)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCollectionRow(tx, usersCollection); err != nil {
			return err
		}

		var count int64
		if err := tx.Unscoped().Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.NewConflictError("a user with this email already exists")
		}
		return tx.Create(user).Error
	})
	return translateErr(ctx, "create user", err)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.Error{Kind: models.KindNotFound, Message: "user not found"}
	}
	if err != nil {
		return nil, translateErr(ctx, "get user by email", err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, translateErr(ctx, "get user", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	users := make([]models.User, 0)
	if err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, translateErr(ctx, "list users", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id uint, fn func(user *models.User) error) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	release, err := r.lock.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var user models.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCollectionRow(tx, usersCollection); err != nil {
			return err
		}
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("user", id)
			}
			return err
		}

		wasAdmin := user.Role == models.RoleAdmin
		email := user.Email
		if err := fn(&user); err != nil {
			return err
		}
		user.ID = id
		user.Email = email

		if wasAdmin && user.Role != models.RoleAdmin {
			if err := ensureAnotherAdmin(tx, id); err != nil {
				return err
			}
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, translateErr(ctx, "update user", err)
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	release, err := r.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCollectionRow(tx, usersCollection); err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("user", id)
			}
			return err
		}
		if user.Role == models.RoleAdmin {
			if err := ensureAnotherAdmin(tx, id); err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	return translateErr(ctx, "delete user", err)
}

func (r *userRepository) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, translateErr(ctx, "count users", err)
	}
	return count, nil
}

// ensureAnotherAdmin fails with Conflict unless an admin other than id
// exists. Callers hold the users collection lock.
func ensureAnotherAdmin(tx *gorm.DB, id uint) error {
	var others int64
	err := tx.Model(&models.User{}).
		Where("role = ? AND id <> ?", models.RoleAdmin, id).
		Count(&others).Error
	if err != nil {
		return err
	}
	if others == 0 {
		return models.NewConflictError("at least one admin must remain")
	}
	return nil
}
