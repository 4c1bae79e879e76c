package jobs

import (
	"github.com/google/uuid"

	"github.com/periflow/cli/pkg/api/types/vms"
	"github.com/periflow/cli/pkg/utils/rfctime"
)

// Job statuses reported by the server.
const (
	StatusWaiting     = "waiting"
	StatusEnqueued    = "enqueued"
	StatusStarted     = "started"
	StatusRunning     = "running"
	StatusSuccess     = "success"
	StatusFailed      = "failed"
	StatusCancelling  = "cancelling"
	StatusCancelled   = "cancelled"
	StatusTerminating = "terminating"
	StatusTerminated  = "terminated"
)

// Job is a training job in a project.
type Job struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name,omitempty"`
	Status            string           `json:"status"`
	VMConfig          *vms.VMConfig    `json:"vm_config,omitempty"`
	NumDesiredDevices int              `json:"num_desired_devices"`
	DataStore         *DataStoreRef    `json:"data_store,omitempty"`
	StartedAt         *rfctime.RFC3339 `json:"started_at,omitempty"`
	FinishedAt        *rfctime.RFC3339 `json:"finished_at,omitempty"`
	ErrorMessage      string           `json:"error_message,omitempty"`
}

// DataStoreRef is the dataset a job is attached to.
type DataStoreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Page is a paginated list of jobs.
type Page struct {
	Results []Job `json:"results"`
}

// LogType is a log source of a job process.
type LogType string

const (
	LogTypeStdout LogType = "stdout"
	LogTypeStderr LogType = "stderr"
	LogTypeVMLog  LogType = "vmlog"
)

func LogTypes() []LogType {
	return []LogType{LogTypeStdout, LogTypeStderr, LogTypeVMLog}
}

// TextLog is a single log record of a job.
type TextLog struct {
	Timestamp rfctime.RFC3339 `json:"timestamp"`
	Type      LogType         `json:"type"`
	NodeRank  int             `json:"node_rank"`
	Content   string          `json:"content"`
}

// TextLogPage is a response of the text log endpoint.
type TextLogPage struct {
	Results []TextLog `json:"results"`
}

// Template is a predefined job template.
type Template struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	// DataExample shows model_config keys the template expects.
	DataExample map[string]any `json:"data_example,omitempty"`
}

// Checkpoint is a checkpoint a job has generated.
type Checkpoint struct {
	ID        uuid.UUID       `json:"id"`
	VendorID  string          `json:"vendor,omitempty"`
	Iteration int64           `json:"iteration"`
	CreatedAt rfctime.RFC3339 `json:"created_at"`
}

// Artifact is a file a job has produced besides checkpoints.
type Artifact struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}
