package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	StatusActive   AccountStatus = "Active"
	StatusInactive AccountStatus = "Inactive"
)

// ParseAccountStatus accepts "active"/"Inactive" etc. case-insensitively.
func ParseAccountStatus(s string) (AccountStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return StatusActive, true
	case "inactive":
		return StatusInactive, true
	default:
		return "", false
	}
}

type Role string

const (
	RoleOwner Role = "Owner"
	RoleVet   Role = "Vet"
	RoleAdmin Role = "Admin"
)

func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "owner":
		return RoleOwner, true
	case "vet":
		return RoleVet, true
	case "admin":
		return RoleAdmin, true
	default:
		return "", false
	}
}

type User struct {
	ID            uuid.UUID     `json:"id"`
	Email         string        `json:"email"`
	FullName      string        `json:"fullName"`
	PasswordHash  string        `json:"-"`
	AccountStatus AccountStatus `json:"accountStatus"`
	Roles         []Role        `json:"roles"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

func (u *User) IsActive() bool {
	return u.AccountStatus == StatusActive
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PrimaryRole is the role embedded in login responses. Owner is the
// fallback for accounts that somehow carry no role rows.
func (u *User) PrimaryRole() Role {
	if len(u.Roles) > 0 {
		return u.Roles[0]
	}
	return RoleOwner
}

// Principal is the authenticated caller, reconstructed from token claims.
// It never requires a store lookup.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Roles    []Role
}

func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
