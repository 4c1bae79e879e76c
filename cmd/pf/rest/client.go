package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	kprof "github.com/periflow/cli/cmd/pf/config/profiles"
	"github.com/periflow/cli/cmd/pf/config/session"
	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	apiorgs "github.com/periflow/cli/pkg/api/types/orgs"
	apiprj "github.com/periflow/cli/pkg/api/types/projects"
	apistorage "github.com/periflow/cli/pkg/api/types/storage"
	apiusers "github.com/periflow/cli/pkg/api/types/users"
	apivms "github.com/periflow/cli/pkg/api/types/vms"
	"github.com/periflow/cli/pkg/utils"
)

// Client talks to the platform API servers on behalf of subcommands.
type Client interface {
	// Login exchanges username/password for a token pair.
	//
	// Granted tokens are stored into the session.
	Login(ctx context.Context, username string, password string) (apiusers.Tokens, error)

	// SignUp registers a new user account.
	SignUp(ctx context.Context, spec apiusers.SignUpSpec) error

	// ConfirmSignUp verifies a new account with the emailed code.
	ConfirmSignUp(ctx context.Context, token string) error

	// CurrentUser returns the account of the stored access token.
	CurrentUser(ctx context.Context) (apiusers.User, error)

	// ChangePassword replaces the password of the current user.
	ChangePassword(ctx context.Context, oldPassword string, newPassword string) error

	// CreateOrganization registers a new organization owned by the current user.
	CreateOrganization(ctx context.Context, name string) (apiorgs.Organization, error)

	// GetOrganization fetches one organization.
	GetOrganization(ctx context.Context, orgId uuid.UUID) (apiorgs.Organization, error)

	// ListMyOrganizations lists organizations the current user belongs to.
	ListMyOrganizations(ctx context.Context) ([]apiorgs.Organization, error)

	// InviteToOrganization sends an invitation mail.
	InviteToOrganization(ctx context.Context, orgId uuid.UUID, email string) error

	// AcceptInvite joins the organization with the emailed verification code.
	AcceptInvite(ctx context.Context, token string, key string) error

	// ListOrganizationMembers lists users of an organization.
	ListOrganizationMembers(ctx context.Context, orgId uuid.UUID) ([]apiorgs.Member, error)

	// SetOrganizationPrivilege changes a member's privilege level.
	SetOrganizationPrivilege(ctx context.Context, orgId uuid.UUID, userId uuid.UUID, privilegeLevel string) error

	// CreateProject registers a new project under an organization.
	CreateProject(ctx context.Context, orgId uuid.UUID, name string) (apiprj.Project, error)

	// ListProjects lists projects of an organization, walking all cursor pages.
	ListProjects(ctx context.Context, orgId uuid.UUID) ([]apiprj.Project, error)

	// GetProject fetches one project.
	GetProject(ctx context.Context, projectId uuid.UUID) (apiprj.Project, error)

	// ListProjectMembers lists users of a project.
	ListProjectMembers(ctx context.Context, projectId uuid.UUID) ([]apiprj.Member, error)

	// AddProjectMember adds a user of the organization into a project.
	AddProjectMember(ctx context.Context, projectId uuid.UUID, userId uuid.UUID) error

	// SetProjectAccessLevel changes a member's access level in a project.
	SetProjectAccessLevel(ctx context.Context, projectId uuid.UUID, userId uuid.UUID, accessLevel string) error

	// ListCredentials lists credentials of given type in a project.
	ListCredentials(ctx context.Context, projectId uuid.UUID, credType apicred.Type) ([]apicred.Credential, error)

	// CreateCredential stores a new credential into a project.
	CreateCredential(ctx context.Context, projectId uuid.UUID, spec apicred.Spec) (apicred.Credential, error)

	// GetCredential fetches one credential, with its value.
	GetCredential(ctx context.Context, credentialId uuid.UUID) (apicred.Credential, error)

	// UpdateCredential patches fields of a credential.
	UpdateCredential(ctx context.Context, credentialId uuid.UUID, update apicred.Update) (apicred.Credential, error)

	// DeleteCredential removes a credential.
	DeleteCredential(ctx context.Context, credentialId uuid.UUID) error

	// ListVMConfigs lists VM configurations available to an organization.
	ListVMConfigs(ctx context.Context, orgId uuid.UUID) ([]apivms.VMConfig, error)

	// ListVMQuotas lists per-VM-type device quotas of a project.
	ListVMQuotas(ctx context.Context, projectId uuid.UUID) ([]apivms.Quota, error)

	// ListJobs lists jobs of a project.
	ListJobs(ctx context.Context, projectId uuid.UUID) ([]apijobs.Job, error)

	// GetJob fetches one job.
	GetJob(ctx context.Context, projectId uuid.UUID, jobId int64) (apijobs.Job, error)

	// RunJob submits a new job.
	//
	// body is the derived request body of a job configuration.
	// When workspace is not empty, the directory is archived and
	// submitted together as multipart form.
	RunJob(ctx context.Context, projectId uuid.UUID, body map[string]any, workspace string) (apijobs.Job, error)

	// CancelJob stops a queued job before it starts.
	CancelJob(ctx context.Context, projectId uuid.UUID, jobId int64) error

	// TerminateJob kills a running job.
	TerminateJob(ctx context.Context, projectId uuid.UUID, jobId int64) error

	// GetTextLogs fetches stored log records of a job.
	GetTextLogs(ctx context.Context, projectId uuid.UUID, jobId int64, sel LogSelector) ([]apijobs.TextLog, error)

	// FollowLogs opens a live log stream of a running job.
	FollowLogs(ctx context.Context, jobId int64, sel LogSelector) (LogStream, error)

	// ListJobTemplates lists predefined job templates.
	ListJobTemplates(ctx context.Context) ([]apijobs.Template, error)

	// ListJobCheckpoints lists checkpoints a job has generated.
	ListJobCheckpoints(ctx context.Context, projectId uuid.UUID, jobId int64) ([]apijobs.Checkpoint, error)

	// ListJobArtifacts lists artifacts a job has produced.
	ListJobArtifacts(ctx context.Context, projectId uuid.UUID, jobId int64) ([]apijobs.Artifact, error)

	// ListDatasets lists datasets of a project.
	ListDatasets(ctx context.Context, projectId uuid.UUID) ([]apidata.Dataset, error)

	// GetDataset fetches one dataset.
	GetDataset(ctx context.Context, datasetId int) (apidata.Dataset, error)

	// CreateDataset registers a new dataset.
	CreateDataset(ctx context.Context, projectId uuid.UUID, spec apidata.Spec) (apidata.Dataset, error)

	// UpdateDataset patches fields of a dataset.
	UpdateDataset(ctx context.Context, datasetId int, update apidata.Update) (apidata.Dataset, error)

	// DeleteDataset removes a dataset.
	DeleteDataset(ctx context.Context, datasetId int) error

	// UploadDatasetFiles sends local files into the platform-managed
	// storage of a dataset, via presigned URLs.
	//
	// Files smaller than 5 GiB are sent with single-part upload,
	// larger ones with multipart upload.
	UploadDatasetFiles(ctx context.Context, datasetId int, source string, expand bool) Progress[[]apistorage.FileInfo]

	// ListCheckpoints lists checkpoints of a project.
	ListCheckpoints(ctx context.Context, orgId uuid.UUID, projectId uuid.UUID, category string) ([]apickpt.Checkpoint, error)

	// GetCheckpoint fetches one checkpoint with its forms.
	GetCheckpoint(ctx context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error)

	// CreateCheckpoint registers a new checkpoint.
	CreateCheckpoint(ctx context.Context, orgId uuid.UUID, projectId uuid.UUID, spec apickpt.Spec) (apickpt.Checkpoint, error)

	// DeleteCheckpoint removes a checkpoint.
	DeleteCheckpoint(ctx context.Context, checkpointId uuid.UUID) error

	// RestoreCheckpoint restores a soft-deleted checkpoint.
	RestoreCheckpoint(ctx context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error)

	// UpdateCheckpointFiles replaces the file list of a checkpoint form.
	UpdateCheckpointFiles(ctx context.Context, formId uuid.UUID, files []apickpt.File) (apickpt.Checkpoint, error)

	// GetCheckpointDownloadURLs returns files of a form with presigned download URLs.
	GetCheckpointDownloadURLs(ctx context.Context, formId uuid.UUID) ([]apickpt.File, error)

	// UploadCheckpointFiles sends local files into the storage of a
	// checkpoint form, via presigned URLs.
	UploadCheckpointFiles(ctx context.Context, formId uuid.UUID, source string, expand bool) Progress[[]apistorage.FileInfo]

	// DownloadFiles fetches files by presigned URLs into dest,
	// keeping their relative paths.
	//
	// Large files are fetched in ranged chunks in parallel.
	DownloadFiles(ctx context.Context, files []apickpt.File, dest string) Progress[struct{}]
}

type client struct {
	httpclient *http.Client
	api        string
	auth       string
	ws         string
	session    *session.Store
}

// create new client for Profile.
//
// # Args
//
// - *kprof.Profile
//
// - *session.Store: where tokens and working context are stored.
//
// # Return
//
// - Client: created client
//
// - error: If given profile is invalid, ErrProfileInvalid is returned.
func NewClient(prof *kprof.Profile, sess *session.Store) (Client, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}
	httpclient := new(http.Client)

	if prof.Cert.CA != "" {
		hc, err := trustCa(httpclient, []string{prof.Cert.CA})
		if err != nil {
			return nil, err
		}
		httpclient = hc
	}

	c := &client{
		httpclient: httpclient,
		api:        strings.TrimSuffix(prof.ApiRoot, "/"),
		auth:       strings.TrimSuffix(prof.AuthRoot, "/"),
		ws:         strings.TrimSuffix(prof.WsRoot, "/"),
		session:    sess,
	}

	return c, nil
}

// build URL under the training API root.
//
// The server routes end with a trailing slash.
func (c *client) apipath(path ...string) string {
	return joinpath(c.api, path)
}

// build URL under the auth server root.
func (c *client) authpath(path ...string) string {
	return joinpath(c.auth, path)
}

// build URL under the websocket server root.
func (c *client) wspath(path ...string) string {
	return joinpath(c.ws, path)
}

func joinpath(root string, path []string) string {
	path = utils.Map(path, func(p string) string {
		return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	})

	return strings.Join(append([]string{root}, path...), "/") + "/"
}

func trustCa(hc *http.Client, cacerts []string) (*http.Client, error) {
	if len(cacerts) <= 0 {
		return hc, nil
	}

	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}

	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	rootcas := tcc.RootCAs
	if rootcas == nil {
		rootcas = x509.NewCertPool()
		tcc.RootCAs = rootcas
	}
	for _, ca := range cacerts {
		bin, err := base64.StdEncoding.DecodeString(ca)
		if err != nil {
			return nil, err
		}

		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	hc.Transport = tran
	return hc, nil
}

// send an authorized request.
//
// newBody builds the request payload. It is called again when the
// request is retried after a token refresh, so it should be cheap
// and reproducible.
//
// When the server responds 401 or 403, tokens are refreshed once
// (via the refresh token in the session) and the request is sent again.
func (c *client) do(
	ctx context.Context,
	method string, url string, contentType string,
	newBody func() (io.Reader, error),
) (*http.Response, error) {
	build := func() (*http.Request, error) {
		var body io.Reader
		if newBody != nil {
			b, err := newBody()
			if err != nil {
				return nil, err
			}
			body = b
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		tok, err := c.session.AccessToken()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		return req, nil
	}

	if c.session.AccessTokenExpired() {
		// refresh proactively. If it fails, let the server decide.
		c.refreshTokens(ctx)
	}

	req, err := build()
	if err != nil {
		return nil, err
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	io.ReadAll(resp.Body)
	resp.Body.Close()
	if err := c.refreshTokens(ctx); err != nil {
		return nil, err
	}

	req, err = build()
	if err != nil {
		return nil, err
	}
	return c.httpclient.Do(req)
}

// doJSON sends an authorized request with a JSON payload.
func (c *client) doJSON(
	ctx context.Context, method string, url string, payload any,
) (*http.Response, error) {
	if payload == nil {
		return c.do(ctx, method, url, "", nil)
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(
		ctx, method, url, "application/json",
		func() (io.Reader, error) { return bytes.NewReader(buf), nil },
	)
}

// refreshTokens exchanges the stored refresh token for a new token pair.
func (c *client) refreshTokens(ctx context.Context) error {
	refresh, err := c.session.RefreshToken()
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("refresh_token", refresh)
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("token", "refresh"),
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tokens := apiusers.Tokens{}
	if err := unmarshalJsonResponse(resp, &tokens, MessageFor{
		Status4xx: "failed to refresh access token. please login again",
		Status5xx: "server error at token refresh",
	}); err != nil {
		return err
	}

	return c.session.SetTokens(tokens.AccessToken, tokens.RefreshToken)
}
