package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// RoleAdministrator grants access to the account administration routes.
const RoleAdministrator = "administrator"

// Account is a member of the network. Handle is unique ignoring case;
// HandleKey holds the canonical lowercase form used for lookups.
type Account struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Handle      string    `json:"account" gorm:"column:account;size:50;not null"`
	HandleKey   string    `json:"-" gorm:"column:account_key;size:50;uniqueIndex;not null"`
	Name        string    `json:"name"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"` // lowercased
	Password    string    `json:"-"` // bcrypt hash
	PictureID   string    `json:"picture_id" gorm:"size:32"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	Bio         string    `json:"bio" gorm:"type:text"`
	Roles       string    `json:"-"` // comma separated
	System      bool      `json:"system" gorm:"not null;default:false"`
	FirebaseUID *string   `json:"-" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoleList splits the stored role set.
func (a *Account) RoleList() []string {
	if a.Roles == "" {
		return []string{}
	}
	return strings.Split(a.Roles, ",")
}

func (a *Account) HasRole(role string) bool {
	for _, r := range a.RoleList() {
		if r == role {
			return true
		}
	}
	return false
}

type CreateAccountRequest struct {
	Account  string   `json:"account" validate:"required,handle"`
	Name     string   `json:"name" validate:"omitempty,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles,omitempty" validate:"omitempty,dive,oneof=administrator"`
	System   bool     `json:"system,omitempty"`
}

type UpdateAccountRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,max=100"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website  string `json:"website,omitempty" validate:"omitempty,max=255"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type SignInRequest struct {
	Account  string `json:"account" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	AccountID uint     `json:"account_id"`
	Account   string   `json:"account"`
	Roles     []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}
