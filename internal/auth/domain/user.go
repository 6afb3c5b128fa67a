package domain

import "time"

type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string // argon2 encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the user onto the claim set embedded in tokens.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.DisplayName, Role: u.Role}
}
