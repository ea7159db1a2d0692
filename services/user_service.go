package services

import (
	"context"

	"rayob-cms/models"
	"rayob-cms/repositories"
	"rayob-cms/validation"
)

type UserService interface {
	List(ctx context.Context) ([]models.UserView, error)
	Get(ctx context.Context, id uint) (*models.UserView, error)
	Create(ctx context.Context, req models.CreateUserRequest) (*models.UserView, error)
	Update(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.UserView, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	userRepo  repositories.UserRepository
	hasher    PasswordHasher
	validator *validation.Validator
}

func NewUserService(userRepo repositories.UserRepository, hasher PasswordHasher, v *validation.Validator) UserService {
	return &userService{userRepo: userRepo, hasher: hasher, validator: v}
}

func (s *userService) List(ctx context.Context) ([]models.UserView, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return views, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*models.UserView, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

func (s *userService) Create(ctx context.Context, req models.CreateUserRequest) (*models.UserView, error) {
	if errs := s.validator.Struct(&req); len(errs) > 0 {
		return nil, models.NewValidationError("invalid user", errs)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: hashed,
		Role:     req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

func (s *userService) Update(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.UserView, error) {
	if errs := s.validator.Struct(&req); len(errs) > 0 {
		return nil, models.NewValidationError("invalid user", errs)
	}

	var hashed string
	if req.Password != nil {
		var err error
		if hashed, err = s.hasher.Hash(*req.Password); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.Update(ctx, id, func(u *models.User) error {
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		if hashed != "" {
			u.Password = hashed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}
