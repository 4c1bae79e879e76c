package checkpoints

import (
	"github.com/google/uuid"

	"github.com/periflow/cli/pkg/utils/rfctime"
)

// Categories of checkpoints.
const (
	CategoryUserProvided = "user_provided"
	CategoryJobGenerated = "job_generated"
)

// Form categories of model files.
const (
	FormOrig     = "orig"
	FormMegatron = "megatron"
	FormHF       = "hf"
)

// File is a single file of a checkpoint form.
//
// DownloadURL is a presigned URL and set only in download responses.
type File struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	MTime       string `json:"mtime"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url,omitempty"`
}

// Form is a set of files of a checkpoint in one model format.
type Form struct {
	ID           uuid.UUID `json:"id"`
	FormCategory string    `json:"form_category"`
	Files        []File    `json:"files"`
}

// Checkpoint is a model snapshot.
type Checkpoint struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Vendor        string          `json:"vendor"`
	Region        string          `json:"region"`
	Iteration     int64           `json:"iteration"`
	ModelCategory string          `json:"model_category,omitempty"`
	CreatedAt     rfctime.RFC3339 `json:"created_at,omitempty"`
	Forms         []Form          `json:"forms,omitempty"`
}

// Page is a paginated list of checkpoints.
type Page struct {
	Results []Checkpoint `json:"results"`
}

// Spec is a request body to register a checkpoint.
type Spec struct {
	JobID         *int64         `json:"job_id"`
	Name          string         `json:"name"`
	Attributes    Attributes     `json:"attributes"`
	UserID        string         `json:"user_id"`
	CredentialID  *uuid.UUID     `json:"credential_id"`
	ModelCategory string         `json:"model_category"`
	FormCategory  string         `json:"form_category"`
	DistJSON      map[string]any `json:"dist_json"`
	Vendor        string         `json:"vendor"`
	Region        string         `json:"region"`
	StorageName   string         `json:"storage_name"`
	Iteration     int64          `json:"iteration"`
	Files         []File         `json:"files"`
}

// Attributes carries configs the checkpoint was trained with.
type Attributes struct {
	DataJSON       map[string]any `json:"data_json"`
	JobSettingJSON map[string]any `json:"job_setting_json"`
}
