package projects

import (
	"github.com/google/uuid"
)

// Access levels in a project.
const (
	AccessAdmin     = "admin"
	AccessDeveloper = "developer"
	AccessGuest     = "guest"
)

// Project is a unit of work under an organization.
type Project struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	// organization owning this project
	PfGroupID uuid.UUID `json:"pf_group_id"`
}

// Page is a cursor-paginated list of projects.
type Page struct {
	Results    []Project `json:"results"`
	NextCursor *string   `json:"next_cursor"`
}

// Member is a user belonging to a project.
type Member struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AccessLevel string    `json:"access_level"`
}
