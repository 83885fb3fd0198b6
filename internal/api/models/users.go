package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of access levels a user can hold. The admin
// collection may assign any of them; self-service edits never change it.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username         string  `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email            string  `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName        string  `gorm:"size:150" json:"first_name"`
	LastName         string  `gorm:"size:150" json:"last_name"`
	Bio              string  `gorm:"type:text" json:"bio"`
	Role             Role    `gorm:"type:varchar(30);default:'user';not null" json:"role"`
	Superuser        bool    `gorm:"default:false;not null" json:"-"`
	ConfirmationCode *string `gorm:"size:256" json:"-"` // one-time signup secret, never serialized

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin treats superusers as admins for every permission check.
func (u *User) IsAdmin() bool {
	return u.Superuser || u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// BeforeCreate assigns a UUID when none was set by the caller.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return
}

func (User) TableName() string {
	return "users"
}
