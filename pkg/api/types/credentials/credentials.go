package credentials

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/periflow/cli/pkg/utils/rfctime"
)

// Type is a kind of credential the platform accepts.
type Type string

const (
	TypeDocker    Type = "docker"
	TypeS3        Type = "s3"
	TypeAzureBlob Type = "azure-blob"
	TypeGCS       Type = "gcs"
	TypeWandB     Type = "wandb"
	TypeSlack     Type = "slack"
)

// typeNames maps CLI-facing credential types to the names the server uses.
var typeNames = map[Type]string{
	TypeDocker:    "docker",
	TypeS3:        "aws",
	TypeAzureBlob: "azure.blob",
	TypeGCS:       "gcp",
	TypeWandB:     "wandb",
	TypeSlack:     "slack",
}

var typeNamesInv = func() map[string]Type {
	inv := map[string]Type{}
	for t, n := range typeNames {
		inv[n] = t
	}
	return inv
}()

// ServerName returns the name the server knows this type by.
func (t Type) ServerName() (string, error) {
	n, ok := typeNames[t]
	if !ok {
		return "", fmt.Errorf("unknown credential type: %s", t)
	}
	return n, nil
}

// TypeOfServerName is the inverse of Type.ServerName.
func TypeOfServerName(name string) (Type, error) {
	t, ok := typeNamesInv[name]
	if !ok {
		return "", fmt.Errorf("unknown credential type name: %s", name)
	}
	return t, nil
}

// Types lists every credential type the CLI accepts.
func Types() []Type {
	return []Type{TypeDocker, TypeS3, TypeAzureBlob, TypeGCS, TypeWandB, TypeSlack}
}

// Credential is a stored secret referenced from jobs and storages.
//
// Value is schemaless. Its shape depends on Type and TypeVersion.
type Credential struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	TypeVersion int             `json:"type_version"`
	Value       map[string]any  `json:"value,omitempty"`
	OwnerType   string          `json:"owner_type,omitempty"`
	CreatedAt   rfctime.RFC3339 `json:"created_at,omitempty"`
}

// Spec is a request body to create a credential.
type Spec struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	TypeVersion int            `json:"type_version"`
	Value       map[string]any `json:"value"`
}

// Update is a partial-update request body. Nil fields are left as they are.
type Update struct {
	Name        *string         `json:"name,omitempty"`
	TypeVersion *int            `json:"type_version,omitempty"`
	Value       *map[string]any `json:"value,omitempty"`
}
