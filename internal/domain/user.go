package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles. Admin is global, leader is
// country-scoped, member is self-scoped.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

var ErrInvalidRole = errors.New("invalid role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleLeader, RoleMember:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID               uint      `json:"id"`
	Fullname         string    `json:"fullname"`
	Email            string    `json:"email"`
	Password         string    `json:"-"`
	Role             Role      `json:"role"`
	Country          string    `json:"country"`
	Contact          string    `json:"contact,omitempty"`
	Address          string    `json:"address,omitempty"`
	Church           string    `json:"church,omitempty"`
	ProfileImage     string    `json:"profile_image,omitempty"`
	ResetToken       string    `json:"-"`
	ResetTokenExpiry time.Time `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
