package datasets

import (
	"github.com/google/uuid"

	"github.com/periflow/cli/pkg/api/types/storage"
)

// Dataset is a data store registered to a project.
type Dataset struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Vendor      string             `json:"vendor"`
	Region      string             `json:"region"`
	StorageName string             `json:"storage_name"`
	Active      bool               `json:"active"`
	Metadata    map[string]any     `json:"metadata,omitempty"`
	Files       []storage.FileInfo `json:"files,omitempty"`
}

// StorageType resolves the CLI-facing storage type of this dataset.
func (d Dataset) StorageType() (storage.Type, error) {
	return storage.TypeOfVendorName(d.Vendor)
}

// Spec is a request body to register a dataset.
type Spec struct {
	Name         string             `json:"name"`
	Vendor       string             `json:"vendor"`
	Region       string             `json:"region"`
	StorageName  string             `json:"storage_name"`
	CredentialID *uuid.UUID         `json:"credential_id"`
	Metadata     map[string]any     `json:"metadata"`
	Files        []storage.FileInfo `json:"files"`
	Active       bool               `json:"active"`
}

// Update is a partial-update request body. Nil fields are left as they are.
type Update struct {
	Name         *string             `json:"name,omitempty"`
	Vendor       *string             `json:"vendor,omitempty"`
	Region       *string             `json:"region,omitempty"`
	StorageName  *string             `json:"storage_name,omitempty"`
	CredentialID *uuid.UUID          `json:"credential_id,omitempty"`
	Metadata     *map[string]any     `json:"metadata,omitempty"`
	Files        *[]storage.FileInfo `json:"files,omitempty"`
	Active       *bool               `json:"active,omitempty"`
}
