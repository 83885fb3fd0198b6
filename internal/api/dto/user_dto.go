package dto

import (
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
)

type UserResponse struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role"`
}

func UserFromModel(u *models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

// CreateUserDTO is the admin-collection create payload; unlike signup it
// may set the role directly.
type CreateUserDTO struct {
	Username  string      `json:"username" binding:"required,max=150,username"`
	Email     string      `json:"email" binding:"required,max=254,email"`
	FirstName string      `json:"first_name" binding:"max=150"`
	LastName  string      `json:"last_name" binding:"max=150"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role"`
}

func (in *CreateUserDTO) ToModel() models.User {
	return models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      in.Role,
	}
}

// UpdateUserDTO is a partial update; absent fields stay untouched. The
// role field is honored on the admin collection and discarded on
// /users/me/.
type UpdateUserDTO struct {
	Username  *string      `json:"username,omitempty" binding:"omitempty,max=150,username"`
	Email     *string      `json:"email,omitempty" binding:"omitempty,max=254,email"`
	FirstName *string      `json:"first_name,omitempty" binding:"omitempty,max=150"`
	LastName  *string      `json:"last_name,omitempty" binding:"omitempty,max=150"`
	Bio       *string      `json:"bio,omitempty"`
	Role      *models.Role `json:"role,omitempty"`
}

func (in *UpdateUserDTO) ToPatch() service.UserPatch {
	return service.UserPatch{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      in.Role,
	}
}
