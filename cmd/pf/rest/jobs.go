package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	cerr "github.com/periflow/cli/cmd/pf/errors"
	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	"github.com/periflow/cli/pkg/utils"
	"github.com/periflow/cli/pkg/utils/archive"
)

// MaxWorkspaceSize caps the archived workspace sent along with a job.
const MaxWorkspaceSize = 100 << 20 // 100 MiB

// LogSelector filters log records to be fetched or followed.
type LogSelector struct {
	// Limit caps the number of records. Zero means the server default.
	Limit int

	// Ascending orders records from the oldest when true.
	Ascending bool

	// LogTypes filters by record type. Empty means all types.
	LogTypes []apijobs.LogType

	// NodeRanks filters by the rank of the node which emitted the record.
	NodeRanks []int

	// Content keeps records containing this text only.
	Content string
}

func (s LogSelector) queryParams() url.Values {
	q := url.Values{}
	if s.Limit > 0 {
		q.Set("limit", strconv.Itoa(s.Limit))
	}
	q.Set("ascending", strconv.FormatBool(s.Ascending))
	if len(s.LogTypes) > 0 {
		q.Set("log_types", strings.Join(
			utils.Map(s.LogTypes, func(t apijobs.LogType) string { return string(t) }),
			",",
		))
	}
	if len(s.NodeRanks) > 0 {
		q.Set("node_ranks", strings.Join(
			utils.Map(s.NodeRanks, strconv.Itoa), ",",
		))
	}
	if s.Content != "" {
		q.Set("content", s.Content)
	}
	return q
}

func (c *client) ListJobs(ctx context.Context, projectId uuid.UUID) ([]apijobs.Job, error) {
	resp, err := c.do(
		ctx, http.MethodGet, c.apipath("project", projectId.String(), "job"), "", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page := apijobs.Page{}
	if err := unmarshalJsonResponse(resp, &page, MessageFor{
		Status4xx: "failed to list jobs",
		Status5xx: "server error at listing jobs",
	}); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *client) GetJob(ctx context.Context, projectId uuid.UUID, jobId int64) (apijobs.Job, error) {
	resp, err := c.do(
		ctx, http.MethodGet,
		c.apipath("project", projectId.String(), "job", strconv.FormatInt(jobId, 10)),
		"", nil,
	)
	if err != nil {
		return apijobs.Job{}, err
	}
	defer resp.Body.Close()

	job := apijobs.Job{}
	if err := unmarshalJsonResponse(resp, &job, MessageFor{
		Status4xx: "failed to fetch the job",
		Status5xx: "server error at fetching the job",
	}); err != nil {
		return apijobs.Job{}, err
	}
	return job, nil
}

func (c *client) RunJob(ctx context.Context, projectId uuid.UUID, body map[string]any, workspace string) (apijobs.Job, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return apijobs.Job{}, err
	}

	var wsfile string
	if workspace != "" {
		f, err := packWorkspace(ctx, workspace)
		if err != nil {
			return apijobs.Job{}, err
		}
		wsfile = f
		defer os.Remove(wsfile)
	}

	boundary := multipart.NewWriter(io.Discard).Boundary()
	newBody := func() (io.Reader, error) {
		pr, pw := io.Pipe()
		mw := multipart.NewWriter(pw)
		if err := mw.SetBoundary(boundary); err != nil {
			return nil, err
		}

		go func() {
			err := func() error {
				part, err := mw.CreateFormField("data")
				if err != nil {
					return err
				}
				if _, err := part.Write(data); err != nil {
					return err
				}

				if wsfile != "" {
					part, err := mw.CreateFormFile("workspace_zip", "workspace.tar.gz")
					if err != nil {
						return err
					}
					f, err := os.Open(wsfile)
					if err != nil {
						return err
					}
					defer f.Close()
					if _, err := io.Copy(part, f); err != nil {
						return err
					}
				}
				return mw.Close()
			}()
			pw.CloseWithError(err)
		}()

		return pr, nil
	}

	contentType := "multipart/form-data; boundary=" + boundary
	resp, err := c.do(
		ctx, http.MethodPost, c.apipath("project", projectId.String(), "job"),
		contentType, newBody,
	)
	if err != nil {
		return apijobs.Job{}, err
	}
	defer resp.Body.Close()

	job := apijobs.Job{}
	if err := unmarshalJsonResponse(resp, &job, MessageFor{
		Status4xx: "failed to submit the job",
		Status5xx: "server error at submitting the job",
	}); err != nil {
		return apijobs.Job{}, err
	}
	return job, nil
}

// packWorkspace archives a workspace directory into a temporary tarball.
//
// The caller removes the returned file.
func packWorkspace(ctx context.Context, workspace string) (string, error) {
	tmp, err := os.CreateTemp("", "pf-workspace-*.tar.gz")
	if err != nil {
		return "", err
	}
	name := tmp.Name()

	prog := archive.GoTarGz(
		ctx, workspace, tmp,
		archive.MaxArchiveSize(MaxWorkspaceSize),
	)
	<-prog.Done()
	tmp.Close()

	if err := prog.Error(); err != nil {
		os.Remove(name)
		if errors.Is(err, archive.ErrArchiveTooLarge) {
			return "", cerr.NewCuiError(
				fmt.Sprintf(
					"workspace %s is larger than %d MiB when archived",
					workspace, MaxWorkspaceSize>>20,
				),
				cerr.WithCause(err),
			)
		}
		return "", cerr.NewCuiError(
			fmt.Sprintf("failed to archive workspace %s", workspace),
			cerr.WithCause(err),
		)
	}
	if prog.ProgressedSize() <= 0 {
		os.Remove(name)
		return "", cerr.NewCuiError(fmt.Sprintf("workspace %s is empty", workspace))
	}
	return name, nil
}

func (c *client) CancelJob(ctx context.Context, projectId uuid.UUID, jobId int64) error {
	resp, err := c.do(
		ctx, http.MethodPost,
		c.apipath("project", projectId.String(), "job", strconv.FormatInt(jobId, 10), "cancel"),
		"", nil,
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to cancel the job",
		Status5xx: "server error at cancelling the job",
	})
}

func (c *client) TerminateJob(ctx context.Context, projectId uuid.UUID, jobId int64) error {
	resp, err := c.do(
		ctx, http.MethodPost,
		c.apipath("project", projectId.String(), "job", strconv.FormatInt(jobId, 10), "terminate"),
		"", nil,
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to terminate the job",
		Status5xx: "server error at terminating the job",
	})
}

func (c *client) GetTextLogs(ctx context.Context, projectId uuid.UUID, jobId int64, sel LogSelector) ([]apijobs.TextLog, error) {
	u := c.apipath("project", projectId.String(), "job", strconv.FormatInt(jobId, 10), "text_log")
	u += "?" + sel.queryParams().Encode()

	resp, err := c.do(ctx, http.MethodGet, u, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page := apijobs.TextLogPage{}
	if err := unmarshalJsonResponse(resp, &page, MessageFor{
		Status4xx: "failed to fetch logs of the job",
		Status5xx: "server error at fetching logs of the job",
	}); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *client) ListJobTemplates(ctx context.Context) ([]apijobs.Template, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("job_template"), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	templates := []apijobs.Template{}
	if err := unmarshalJsonResponse(resp, &templates, MessageFor{
		Status4xx: "failed to list job templates",
		Status5xx: "server error at listing job templates",
	}); err != nil {
		return nil, err
	}
	return templates, nil
}

func (c *client) ListJobCheckpoints(ctx context.Context, projectId uuid.UUID, jobId int64) ([]apijobs.Checkpoint, error) {
	resp, err := c.do(
		ctx, http.MethodGet,
		c.apipath("project", projectId.String(), "job", strconv.FormatInt(jobId, 10), "checkpoint"),
		"", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	ckpts := []apijobs.Checkpoint{}
	if err := unmarshalJsonResponse(resp, &ckpts, MessageFor{
		Status4xx: "failed to list checkpoints of the job",
		Status5xx: "server error at listing checkpoints of the job",
	}); err != nil {
		return nil, err
	}
	return ckpts, nil
}

func (c *client) ListJobArtifacts(ctx context.Context, projectId uuid.UUID, jobId int64) ([]apijobs.Artifact, error) {
	resp, err := c.do(
		ctx, http.MethodGet,
		c.apipath("project", projectId.String(), "job", strconv.FormatInt(jobId, 10), "artifact"),
		"", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	arts := []apijobs.Artifact{}
	if err := unmarshalJsonResponse(resp, &arts, MessageFor{
		Status4xx: "failed to list artifacts of the job",
		Status5xx: "server error at listing artifacts of the job",
	}); err != nil {
		return nil, err
	}
	return arts, nil
}
