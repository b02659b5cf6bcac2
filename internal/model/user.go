package model

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is the persisted account record. PasswordHash never leaves the
// repository/service layers; handlers respond with PublicUser.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PublicUser struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// ProfilePatch carries the optional fields of a profile update. Empty
// strings mean "leave unchanged".
type ProfilePatch struct {
	FullName     string
	Email        string
	PasswordHash string
	Avatar       string
}

// SessionClaims is the identity carried by a verified session token.
type SessionClaims struct {
	UserID    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
