package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/validation"

	"gorm.io/gorm"
)

// UserPatch carries a partial user update; nil fields stay untouched.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error)
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User, patch UserPatch) (*models.User, error)
	// UpdateSelf applies patch on behalf of the user themselves. Any
	// role in the patch is discarded and the stored role re-applied;
	// self-service edits must not be able to escalate privileges.
	UpdateSelf(ctx context.Context, user *models.User, patch UserPatch) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func (s *userService) Create(ctx context.Context, u *models.User) error {
	if err := validation.Username(u.Username); err != nil {
		return err
	}
	if err := validation.Email(u.Email); err != nil {
		return err
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !u.Role.Valid() {
		return &validation.Violation{Field: "role", Message: "unknown role"}
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return &validation.Violation{Field: "username", Message: "username or email already exists"}
		}
		return err
	}
	return nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *models.User, patch UserPatch) (*models.User, error) {
	if patch.Username != nil {
		if err := validation.Username(*patch.Username); err != nil {
			return nil, err
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		if err := validation.Email(*patch.Email); err != nil {
			return nil, err
		}
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, &validation.Violation{Field: "role", Message: "unknown role"}
		}
		user.Role = *patch.Role
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &validation.Violation{Field: "username", Message: "username or email already exists"}
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateSelf(ctx context.Context, user *models.User, patch UserPatch) (*models.User, error) {
	patch.Role = nil
	return s.Update(ctx, user, patch)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, user)
}
