// Package models defines the records kept by the development backend and
// their public JSON views.
package models

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	Bio          string
	Skills       []string
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserView is the public representation of a user; it never carries the
// password hash.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Skills    []string  `json:"skills,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) View() *UserView {
	return &UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Skills:    append([]string(nil), u.Skills...),
		CreatedAt: u.CreatedAt,
	}
}

// DisplayName is the full name, or the username when no name is set.
func (u *User) DisplayName() string {
	return DisplayName(u.FirstName, u.LastName, u.Username)
}

func DisplayName(first, last, username string) string {
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return username
}
