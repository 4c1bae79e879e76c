package users

import (
	"github.com/google/uuid"
)

// User is an account of the platform.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

func (u User) Equal(o User) bool {
	return u.ID == o.ID &&
		u.Username == o.Username &&
		u.Name == o.Name &&
		u.Email == o.Email
}

// Tokens is a pair of JWTs granted at login or token refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignUpSpec is a request body for self signup.
type SignUpSpec struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
