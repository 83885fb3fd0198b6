package service

import (
	"context"
	"testing"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestUserCreate_DefaultsRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	u := &models.User{Username: "alice", Email: "alice@example.com"}
	err := svc.Create(context.Background(), u)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUserCreate_UnknownRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	u := &models.User{Username: "alice", Email: "alice@example.com", Role: "owner"}
	err := svc.Create(context.Background(), u)

	assert.Error(t, err)
	var violation *validation.Violation
	assert.ErrorAs(t, err, &violation)
	assert.Equal(t, "role", violation.Field)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserCreate_Duplicate(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(repository.ErrDuplicate)

	u := &models.User{Username: "alice", Email: "alice@example.com"}
	err := svc.Create(context.Background(), u)

	assert.Error(t, err)
	var violation *validation.Violation
	assert.ErrorAs(t, err, &violation)
	mockUserRepo.AssertExpectations(t)
}

func TestUserUpdate_AdminMayChangeRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	user := &models.User{ID: "user-id", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	mockUserRepo.On("Save", mock.Anything, user).Return(nil)

	role := models.RoleModerator
	updated, err := svc.Update(context.Background(), user, UserPatch{Role: &role})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUserUpdateSelf_RoleDiscarded(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	user := &models.User{ID: "user-id", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	mockUserRepo.On("Save", mock.Anything, user).Return(nil)

	role := models.RoleAdmin
	bio := "new bio"
	updated, err := svc.UpdateSelf(context.Background(), user, UserPatch{Role: &role, Bio: &bio})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.Equal(t, "new bio", updated.Bio)
	mockUserRepo.AssertExpectations(t)
}

func TestUserUpdate_ReservedUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	user := &models.User{ID: "user-id", Username: "alice", Email: "alice@example.com"}

	reserved := "Me"
	updated, err := svc.Update(context.Background(), user, UserPatch{Username: &reserved})

	assert.Error(t, err)
	assert.Nil(t, updated)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserGetByUsername_NotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	user, err := svc.GetByUsername(context.Background(), "ghost")

	assert.Error(t, err)
	assert.Equal(t, ErrNotFound, err)
	assert.Nil(t, user)
}

func TestUserDelete_NotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), "ghost")

	assert.Error(t, err)
	assert.Equal(t, ErrNotFound, err)
	mockUserRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
