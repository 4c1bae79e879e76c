package orgs

import (
	"github.com/google/uuid"

	"github.com/periflow/cli/pkg/utils/rfctime"
)

// Privilege levels in an organization.
const (
	PrivilegeOwner  = "owner"
	PrivilegeMember = "member"
)

// Organization groups users and projects.
type Organization struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	HostingType string          `json:"hosting_type"`
	Status      string          `json:"status,omitempty"`
	CreatedAt   rfctime.RFC3339 `json:"created_at,omitempty"`

	// PrivilegeLevel is the requesting user's privilege in this organization.
	PrivilegeLevel string `json:"privilege_level,omitempty"`
}

// Member is a user belonging to an organization.
type Member struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PrivilegeLevel string    `json:"privilege_level"`
}
