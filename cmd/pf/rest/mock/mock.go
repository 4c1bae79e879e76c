// Package mock provides a hand-written test double of rest.Client.
//
// Set the Impl function of each method a test expects to be called.
// Calls records the arguments of every invocation.
package mock

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/periflow/cli/cmd/pf/rest"
	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	apiorgs "github.com/periflow/cli/pkg/api/types/orgs"
	apiprj "github.com/periflow/cli/pkg/api/types/projects"
	apistorage "github.com/periflow/cli/pkg/api/types/storage"
	apiusers "github.com/periflow/cli/pkg/api/types/users"
	apivms "github.com/periflow/cli/pkg/api/types/vms"
)

func New(t *testing.T) *mockClient {
	return &mockClient{t: t}
}

// MockedProgress is a canned rest.Progress for upload/download tests.
type MockedProgress[T any] struct {
	EstimatedTotalSize_ int64
	ProgressedSize_     int64
	ProgressingFile_    string
	Error_              error
	Result_             T
	ResultOk_           bool
	Sent_               <-chan struct{}
	Done_               <-chan struct{}
}

func (m *MockedProgress[T]) EstimatedTotalSize() int64 { return m.EstimatedTotalSize_ }
func (m *MockedProgress[T]) ProgressedSize() int64     { return m.ProgressedSize_ }
func (m *MockedProgress[T]) ProgressingFile() string   { return m.ProgressingFile_ }
func (m *MockedProgress[T]) Error() error              { return m.Error_ }
func (m *MockedProgress[T]) Result() (T, bool)         { return m.Result_, m.ResultOk_ }
func (m *MockedProgress[T]) Sent() <-chan struct{}     { return m.Sent_ }
func (m *MockedProgress[T]) Done() <-chan struct{}     { return m.Done_ }

// Closed returns a closed channel, for MockedProgress of finished transfers.
func Closed() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type LoginArgs struct {
	Username string
	Password string
}

type SetOrganizationPrivilegeArgs struct {
	OrgID          uuid.UUID
	UserID         uuid.UUID
	PrivilegeLevel string
}

type SetProjectAccessLevelArgs struct {
	ProjectID   uuid.UUID
	UserID      uuid.UUID
	AccessLevel string
}

type RunJobArgs struct {
	ProjectID uuid.UUID
	Body      map[string]any
	Workspace string
}

type UploadArgs struct {
	Source string
	Expand bool
}

type mockClient struct {
	t *testing.T

	Impl struct {
		Login           func(ctx context.Context, username string, password string) (apiusers.Tokens, error)
		SignUp          func(ctx context.Context, spec apiusers.SignUpSpec) error
		ConfirmSignUp   func(ctx context.Context, token string) error
		CurrentUser     func(ctx context.Context) (apiusers.User, error)
		ChangePassword  func(ctx context.Context, oldPassword string, newPassword string) error

		CreateOrganization       func(ctx context.Context, name string) (apiorgs.Organization, error)
		GetOrganization          func(ctx context.Context, orgId uuid.UUID) (apiorgs.Organization, error)
		ListMyOrganizations      func(ctx context.Context) ([]apiorgs.Organization, error)
		InviteToOrganization     func(ctx context.Context, orgId uuid.UUID, email string) error
		AcceptInvite             func(ctx context.Context, token string, key string) error
		ListOrganizationMembers  func(ctx context.Context, orgId uuid.UUID) ([]apiorgs.Member, error)
		SetOrganizationPrivilege func(ctx context.Context, orgId uuid.UUID, userId uuid.UUID, privilegeLevel string) error

		CreateProject         func(ctx context.Context, orgId uuid.UUID, name string) (apiprj.Project, error)
		ListProjects          func(ctx context.Context, orgId uuid.UUID) ([]apiprj.Project, error)
		GetProject            func(ctx context.Context, projectId uuid.UUID) (apiprj.Project, error)
		ListProjectMembers    func(ctx context.Context, projectId uuid.UUID) ([]apiprj.Member, error)
		AddProjectMember      func(ctx context.Context, projectId uuid.UUID, userId uuid.UUID) error
		SetProjectAccessLevel func(ctx context.Context, projectId uuid.UUID, userId uuid.UUID, accessLevel string) error

		ListCredentials  func(ctx context.Context, projectId uuid.UUID, credType apicred.Type) ([]apicred.Credential, error)
		CreateCredential func(ctx context.Context, projectId uuid.UUID, spec apicred.Spec) (apicred.Credential, error)
		GetCredential    func(ctx context.Context, credentialId uuid.UUID) (apicred.Credential, error)
		UpdateCredential func(ctx context.Context, credentialId uuid.UUID, update apicred.Update) (apicred.Credential, error)
		DeleteCredential func(ctx context.Context, credentialId uuid.UUID) error

		ListVMConfigs func(ctx context.Context, orgId uuid.UUID) ([]apivms.VMConfig, error)
		ListVMQuotas  func(ctx context.Context, projectId uuid.UUID) ([]apivms.Quota, error)

		ListJobs           func(ctx context.Context, projectId uuid.UUID) ([]apijobs.Job, error)
		GetJob             func(ctx context.Context, projectId uuid.UUID, jobId int64) (apijobs.Job, error)
		RunJob             func(ctx context.Context, projectId uuid.UUID, body map[string]any, workspace string) (apijobs.Job, error)
		CancelJob          func(ctx context.Context, projectId uuid.UUID, jobId int64) error
		TerminateJob       func(ctx context.Context, projectId uuid.UUID, jobId int64) error
		GetTextLogs        func(ctx context.Context, projectId uuid.UUID, jobId int64, sel rest.LogSelector) ([]apijobs.TextLog, error)
		FollowLogs         func(ctx context.Context, jobId int64, sel rest.LogSelector) (rest.LogStream, error)
		ListJobTemplates   func(ctx context.Context) ([]apijobs.Template, error)
		ListJobCheckpoints func(ctx context.Context, projectId uuid.UUID, jobId int64) ([]apijobs.Checkpoint, error)
		ListJobArtifacts   func(ctx context.Context, projectId uuid.UUID, jobId int64) ([]apijobs.Artifact, error)

		ListDatasets       func(ctx context.Context, projectId uuid.UUID) ([]apidata.Dataset, error)
		GetDataset         func(ctx context.Context, datasetId int) (apidata.Dataset, error)
		CreateDataset      func(ctx context.Context, projectId uuid.UUID, spec apidata.Spec) (apidata.Dataset, error)
		UpdateDataset      func(ctx context.Context, datasetId int, update apidata.Update) (apidata.Dataset, error)
		DeleteDataset      func(ctx context.Context, datasetId int) error
		UploadDatasetFiles func(ctx context.Context, datasetId int, source string, expand bool) rest.Progress[[]apistorage.FileInfo]

		ListCheckpoints           func(ctx context.Context, orgId uuid.UUID, projectId uuid.UUID, category string) ([]apickpt.Checkpoint, error)
		GetCheckpoint             func(ctx context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error)
		CreateCheckpoint          func(ctx context.Context, orgId uuid.UUID, projectId uuid.UUID, spec apickpt.Spec) (apickpt.Checkpoint, error)
		DeleteCheckpoint          func(ctx context.Context, checkpointId uuid.UUID) error
		RestoreCheckpoint         func(ctx context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error)
		UpdateCheckpointFiles     func(ctx context.Context, formId uuid.UUID, files []apickpt.File) (apickpt.Checkpoint, error)
		GetCheckpointDownloadURLs func(ctx context.Context, formId uuid.UUID) ([]apickpt.File, error)
		UploadCheckpointFiles     func(ctx context.Context, formId uuid.UUID, source string, expand bool) rest.Progress[[]apistorage.FileInfo]
		DownloadFiles             func(ctx context.Context, files []apickpt.File, dest string) rest.Progress[struct{}]
	}

	Calls struct {
		Login           []LoginArgs
		SignUp          []apiusers.SignUpSpec
		ConfirmSignUp   []string
		CurrentUser     int
		ChangePassword  []string

		CreateOrganization       []string
		GetOrganization          []uuid.UUID
		ListMyOrganizations      int
		InviteToOrganization     []string
		AcceptInvite             []string
		ListOrganizationMembers  []uuid.UUID
		SetOrganizationPrivilege []SetOrganizationPrivilegeArgs

		CreateProject         []string
		ListProjects          []uuid.UUID
		GetProject            []uuid.UUID
		ListProjectMembers    []uuid.UUID
		AddProjectMember      []uuid.UUID
		SetProjectAccessLevel []SetProjectAccessLevelArgs

		ListCredentials  []apicred.Type
		CreateCredential []apicred.Spec
		GetCredential    []uuid.UUID
		UpdateCredential []apicred.Update
		DeleteCredential []uuid.UUID

		ListVMConfigs []uuid.UUID
		ListVMQuotas  []uuid.UUID

		ListJobs           []uuid.UUID
		GetJob             []int64
		RunJob             []RunJobArgs
		CancelJob          []int64
		TerminateJob       []int64
		GetTextLogs        []rest.LogSelector
		FollowLogs         []rest.LogSelector
		ListJobTemplates   int
		ListJobCheckpoints []int64
		ListJobArtifacts   []int64

		ListDatasets       []uuid.UUID
		GetDataset         []int
		CreateDataset      []apidata.Spec
		UpdateDataset      []apidata.Update
		DeleteDataset      []int
		UploadDatasetFiles []UploadArgs

		ListCheckpoints           []string
		GetCheckpoint             []uuid.UUID
		CreateCheckpoint          []apickpt.Spec
		DeleteCheckpoint          []uuid.UUID
		RestoreCheckpoint         []uuid.UUID
		UpdateCheckpointFiles     [][]apickpt.File
		GetCheckpointDownloadURLs []uuid.UUID
		UploadCheckpointFiles     []UploadArgs
		DownloadFiles             []string
	}
}

var _ rest.Client = &mockClient{}

func (m *mockClient) Login(ctx context.Context, username string, password string) (apiusers.Tokens, error) {
	m.t.Helper()
	m.Calls.Login = append(m.Calls.Login, LoginArgs{Username: username, Password: password})
	if m.Impl.Login == nil {
		m.t.Fatal("Login is not ready to be called")
	}
	return m.Impl.Login(ctx, username, password)
}

func (m *mockClient) SignUp(ctx context.Context, spec apiusers.SignUpSpec) error {
	m.t.Helper()
	m.Calls.SignUp = append(m.Calls.SignUp, spec)
	if m.Impl.SignUp == nil {
		m.t.Fatal("SignUp is not ready to be called")
	}
	return m.Impl.SignUp(ctx, spec)
}

func (m *mockClient) ConfirmSignUp(ctx context.Context, token string) error {
	m.t.Helper()
	m.Calls.ConfirmSignUp = append(m.Calls.ConfirmSignUp, token)
	if m.Impl.ConfirmSignUp == nil {
		m.t.Fatal("ConfirmSignUp is not ready to be called")
	}
	return m.Impl.ConfirmSignUp(ctx, token)
}

func (m *mockClient) CurrentUser(ctx context.Context) (apiusers.User, error) {
	m.t.Helper()
	m.Calls.CurrentUser += 1
	if m.Impl.CurrentUser == nil {
		m.t.Fatal("CurrentUser is not ready to be called")
	}
	return m.Impl.CurrentUser(ctx)
}

func (m *mockClient) ChangePassword(ctx context.Context, oldPassword string, newPassword string) error {
	m.t.Helper()
	m.Calls.ChangePassword = append(m.Calls.ChangePassword, newPassword)
	if m.Impl.ChangePassword == nil {
		m.t.Fatal("ChangePassword is not ready to be called")
	}
	return m.Impl.ChangePassword(ctx, oldPassword, newPassword)
}

func (m *mockClient) CreateOrganization(ctx context.Context, name string) (apiorgs.Organization, error) {
	m.t.Helper()
	m.Calls.CreateOrganization = append(m.Calls.CreateOrganization, name)
	if m.Impl.CreateOrganization == nil {
		m.t.Fatal("CreateOrganization is not ready to be called")
	}
	return m.Impl.CreateOrganization(ctx, name)
}

func (m *mockClient) GetOrganization(ctx context.Context, orgId uuid.UUID) (apiorgs.Organization, error) {
	m.t.Helper()
	m.Calls.GetOrganization = append(m.Calls.GetOrganization, orgId)
	if m.Impl.GetOrganization == nil {
		m.t.Fatal("GetOrganization is not ready to be called")
	}
	return m.Impl.GetOrganization(ctx, orgId)
}

func (m *mockClient) ListMyOrganizations(ctx context.Context) ([]apiorgs.Organization, error) {
	m.t.Helper()
	m.Calls.ListMyOrganizations += 1
	if m.Impl.ListMyOrganizations == nil {
		m.t.Fatal("ListMyOrganizations is not ready to be called")
	}
	return m.Impl.ListMyOrganizations(ctx)
}

func (m *mockClient) InviteToOrganization(ctx context.Context, orgId uuid.UUID, email string) error {
	m.t.Helper()
	m.Calls.InviteToOrganization = append(m.Calls.InviteToOrganization, email)
	if m.Impl.InviteToOrganization == nil {
		m.t.Fatal("InviteToOrganization is not ready to be called")
	}
	return m.Impl.InviteToOrganization(ctx, orgId, email)
}

func (m *mockClient) AcceptInvite(ctx context.Context, token string, key string) error {
	m.t.Helper()
	m.Calls.AcceptInvite = append(m.Calls.AcceptInvite, token)
	if m.Impl.AcceptInvite == nil {
		m.t.Fatal("AcceptInvite is not ready to be called")
	}
	return m.Impl.AcceptInvite(ctx, token, key)
}

func (m *mockClient) ListOrganizationMembers(ctx context.Context, orgId uuid.UUID) ([]apiorgs.Member, error) {
	m.t.Helper()
	m.Calls.ListOrganizationMembers = append(m.Calls.ListOrganizationMembers, orgId)
	if m.Impl.ListOrganizationMembers == nil {
		m.t.Fatal("ListOrganizationMembers is not ready to be called")
	}
	return m.Impl.ListOrganizationMembers(ctx, orgId)
}

func (m *mockClient) SetOrganizationPrivilege(ctx context.Context, orgId uuid.UUID, userId uuid.UUID, privilegeLevel string) error {
	m.t.Helper()
	m.Calls.SetOrganizationPrivilege = append(
		m.Calls.SetOrganizationPrivilege,
		SetOrganizationPrivilegeArgs{OrgID: orgId, UserID: userId, PrivilegeLevel: privilegeLevel},
	)
	if m.Impl.SetOrganizationPrivilege == nil {
		m.t.Fatal("SetOrganizationPrivilege is not ready to be called")
	}
	return m.Impl.SetOrganizationPrivilege(ctx, orgId, userId, privilegeLevel)
}

func (m *mockClient) CreateProject(ctx context.Context, orgId uuid.UUID, name string) (apiprj.Project, error) {
	m.t.Helper()
	m.Calls.CreateProject = append(m.Calls.CreateProject, name)
	if m.Impl.CreateProject == nil {
		m.t.Fatal("CreateProject is not ready to be called")
	}
	return m.Impl.CreateProject(ctx, orgId, name)
}

func (m *mockClient) ListProjects(ctx context.Context, orgId uuid.UUID) ([]apiprj.Project, error) {
	m.t.Helper()
	m.Calls.ListProjects = append(m.Calls.ListProjects, orgId)
	if m.Impl.ListProjects == nil {
		m.t.Fatal("ListProjects is not ready to be called")
	}
	return m.Impl.ListProjects(ctx, orgId)
}

func (m *mockClient) GetProject(ctx context.Context, projectId uuid.UUID) (apiprj.Project, error) {
	m.t.Helper()
	m.Calls.GetProject = append(m.Calls.GetProject, projectId)
	if m.Impl.GetProject == nil {
		m.t.Fatal("GetProject is not ready to be called")
	}
	return m.Impl.GetProject(ctx, projectId)
}

func (m *mockClient) ListProjectMembers(ctx context.Context, projectId uuid.UUID) ([]apiprj.Member, error) {
	m.t.Helper()
	m.Calls.ListProjectMembers = append(m.Calls.ListProjectMembers, projectId)
	if m.Impl.ListProjectMembers == nil {
		m.t.Fatal("ListProjectMembers is not ready to be called")
	}
	return m.Impl.ListProjectMembers(ctx, projectId)
}

func (m *mockClient) AddProjectMember(ctx context.Context, projectId uuid.UUID, userId uuid.UUID) error {
	m.t.Helper()
	m.Calls.AddProjectMember = append(m.Calls.AddProjectMember, userId)
	if m.Impl.AddProjectMember == nil {
		m.t.Fatal("AddProjectMember is not ready to be called")
	}
	return m.Impl.AddProjectMember(ctx, projectId, userId)
}

func (m *mockClient) SetProjectAccessLevel(ctx context.Context, projectId uuid.UUID, userId uuid.UUID, accessLevel string) error {
	m.t.Helper()
	m.Calls.SetProjectAccessLevel = append(
		m.Calls.SetProjectAccessLevel,
		SetProjectAccessLevelArgs{ProjectID: projectId, UserID: userId, AccessLevel: accessLevel},
	)
	if m.Impl.SetProjectAccessLevel == nil {
		m.t.Fatal("SetProjectAccessLevel is not ready to be called")
	}
	return m.Impl.SetProjectAccessLevel(ctx, projectId, userId, accessLevel)
}

func (m *mockClient) ListCredentials(ctx context.Context, projectId uuid.UUID, credType apicred.Type) ([]apicred.Credential, error) {
	m.t.Helper()
	m.Calls.ListCredentials = append(m.Calls.ListCredentials, credType)
	if m.Impl.ListCredentials == nil {
		m.t.Fatal("ListCredentials is not ready to be called")
	}
	return m.Impl.ListCredentials(ctx, projectId, credType)
}

func (m *mockClient) CreateCredential(ctx context.Context, projectId uuid.UUID, spec apicred.Spec) (apicred.Credential, error) {
	m.t.Helper()
	m.Calls.CreateCredential = append(m.Calls.CreateCredential, spec)
	if m.Impl.CreateCredential == nil {
		m.t.Fatal("CreateCredential is not ready to be called")
	}
	return m.Impl.CreateCredential(ctx, projectId, spec)
}

func (m *mockClient) GetCredential(ctx context.Context, credentialId uuid.UUID) (apicred.Credential, error) {
	m.t.Helper()
	m.Calls.GetCredential = append(m.Calls.GetCredential, credentialId)
	if m.Impl.GetCredential == nil {
		m.t.Fatal("GetCredential is not ready to be called")
	}
	return m.Impl.GetCredential(ctx, credentialId)
}

func (m *mockClient) UpdateCredential(ctx context.Context, credentialId uuid.UUID, update apicred.Update) (apicred.Credential, error) {
	m.t.Helper()
	m.Calls.UpdateCredential = append(m.Calls.UpdateCredential, update)
	if m.Impl.UpdateCredential == nil {
		m.t.Fatal("UpdateCredential is not ready to be called")
	}
	return m.Impl.UpdateCredential(ctx, credentialId, update)
}

func (m *mockClient) DeleteCredential(ctx context.Context, credentialId uuid.UUID) error {
	m.t.Helper()
	m.Calls.DeleteCredential = append(m.Calls.DeleteCredential, credentialId)
	if m.Impl.DeleteCredential == nil {
		m.t.Fatal("DeleteCredential is not ready to be called")
	}
	return m.Impl.DeleteCredential(ctx, credentialId)
}

func (m *mockClient) ListVMConfigs(ctx context.Context, orgId uuid.UUID) ([]apivms.VMConfig, error) {
	m.t.Helper()
	m.Calls.ListVMConfigs = append(m.Calls.ListVMConfigs, orgId)
	if m.Impl.ListVMConfigs == nil {
		m.t.Fatal("ListVMConfigs is not ready to be called")
	}
	return m.Impl.ListVMConfigs(ctx, orgId)
}

func (m *mockClient) ListVMQuotas(ctx context.Context, projectId uuid.UUID) ([]apivms.Quota, error) {
	m.t.Helper()
	m.Calls.ListVMQuotas = append(m.Calls.ListVMQuotas, projectId)
	if m.Impl.ListVMQuotas == nil {
		m.t.Fatal("ListVMQuotas is not ready to be called")
	}
	return m.Impl.ListVMQuotas(ctx, projectId)
}

func (m *mockClient) ListJobs(ctx context.Context, projectId uuid.UUID) ([]apijobs.Job, error) {
	m.t.Helper()
	m.Calls.ListJobs = append(m.Calls.ListJobs, projectId)
	if m.Impl.ListJobs == nil {
		m.t.Fatal("ListJobs is not ready to be called")
	}
	return m.Impl.ListJobs(ctx, projectId)
}

func (m *mockClient) GetJob(ctx context.Context, projectId uuid.UUID, jobId int64) (apijobs.Job, error) {
	m.t.Helper()
	m.Calls.GetJob = append(m.Calls.GetJob, jobId)
	if m.Impl.GetJob == nil {
		m.t.Fatal("GetJob is not ready to be called")
	}
	return m.Impl.GetJob(ctx, projectId, jobId)
}

func (m *mockClient) RunJob(ctx context.Context, projectId uuid.UUID, body map[string]any, workspace string) (apijobs.Job, error) {
	m.t.Helper()
	m.Calls.RunJob = append(m.Calls.RunJob, RunJobArgs{ProjectID: projectId, Body: body, Workspace: workspace})
	if m.Impl.RunJob == nil {
		m.t.Fatal("RunJob is not ready to be called")
	}
	return m.Impl.RunJob(ctx, projectId, body, workspace)
}

func (m *mockClient) CancelJob(ctx context.Context, projectId uuid.UUID, jobId int64) error {
	m.t.Helper()
	m.Calls.CancelJob = append(m.Calls.CancelJob, jobId)
	if m.Impl.CancelJob == nil {
		m.t.Fatal("CancelJob is not ready to be called")
	}
	return m.Impl.CancelJob(ctx, projectId, jobId)
}

func (m *mockClient) TerminateJob(ctx context.Context, projectId uuid.UUID, jobId int64) error {
	m.t.Helper()
	m.Calls.TerminateJob = append(m.Calls.TerminateJob, jobId)
	if m.Impl.TerminateJob == nil {
		m.t.Fatal("TerminateJob is not ready to be called")
	}
	return m.Impl.TerminateJob(ctx, projectId, jobId)
}

func (m *mockClient) GetTextLogs(ctx context.Context, projectId uuid.UUID, jobId int64, sel rest.LogSelector) ([]apijobs.TextLog, error) {
	m.t.Helper()
	m.Calls.GetTextLogs = append(m.Calls.GetTextLogs, sel)
	if m.Impl.GetTextLogs == nil {
		m.t.Fatal("GetTextLogs is not ready to be called")
	}
	return m.Impl.GetTextLogs(ctx, projectId, jobId, sel)
}

func (m *mockClient) FollowLogs(ctx context.Context, jobId int64, sel rest.LogSelector) (rest.LogStream, error) {
	m.t.Helper()
	m.Calls.FollowLogs = append(m.Calls.FollowLogs, sel)
	if m.Impl.FollowLogs == nil {
		m.t.Fatal("FollowLogs is not ready to be called")
	}
	return m.Impl.FollowLogs(ctx, jobId, sel)
}

func (m *mockClient) ListJobTemplates(ctx context.Context) ([]apijobs.Template, error) {
	m.t.Helper()
	m.Calls.ListJobTemplates += 1
	if m.Impl.ListJobTemplates == nil {
		m.t.Fatal("ListJobTemplates is not ready to be called")
	}
	return m.Impl.ListJobTemplates(ctx)
}

func (m *mockClient) ListJobCheckpoints(ctx context.Context, projectId uuid.UUID, jobId int64) ([]apijobs.Checkpoint, error) {
	m.t.Helper()
	m.Calls.ListJobCheckpoints = append(m.Calls.ListJobCheckpoints, jobId)
	if m.Impl.ListJobCheckpoints == nil {
		m.t.Fatal("ListJobCheckpoints is not ready to be called")
	}
	return m.Impl.ListJobCheckpoints(ctx, projectId, jobId)
}

func (m *mockClient) ListJobArtifacts(ctx context.Context, projectId uuid.UUID, jobId int64) ([]apijobs.Artifact, error) {
	m.t.Helper()
	m.Calls.ListJobArtifacts = append(m.Calls.ListJobArtifacts, jobId)
	if m.Impl.ListJobArtifacts == nil {
		m.t.Fatal("ListJobArtifacts is not ready to be called")
	}
	return m.Impl.ListJobArtifacts(ctx, projectId, jobId)
}

func (m *mockClient) ListDatasets(ctx context.Context, projectId uuid.UUID) ([]apidata.Dataset, error) {
	m.t.Helper()
	m.Calls.ListDatasets = append(m.Calls.ListDatasets, projectId)
	if m.Impl.ListDatasets == nil {
		m.t.Fatal("ListDatasets is not ready to be called")
	}
	return m.Impl.ListDatasets(ctx, projectId)
}

func (m *mockClient) GetDataset(ctx context.Context, datasetId int) (apidata.Dataset, error) {
	m.t.Helper()
	m.Calls.GetDataset = append(m.Calls.GetDataset, datasetId)
	if m.Impl.GetDataset == nil {
		m.t.Fatal("GetDataset is not ready to be called")
	}
	return m.Impl.GetDataset(ctx, datasetId)
}

func (m *mockClient) CreateDataset(ctx context.Context, projectId uuid.UUID, spec apidata.Spec) (apidata.Dataset, error) {
	m.t.Helper()
	m.Calls.CreateDataset = append(m.Calls.CreateDataset, spec)
	if m.Impl.CreateDataset == nil {
		m.t.Fatal("CreateDataset is not ready to be called")
	}
	return m.Impl.CreateDataset(ctx, projectId, spec)
}

func (m *mockClient) UpdateDataset(ctx context.Context, datasetId int, update apidata.Update) (apidata.Dataset, error) {
	m.t.Helper()
	m.Calls.UpdateDataset = append(m.Calls.UpdateDataset, update)
	if m.Impl.UpdateDataset == nil {
		m.t.Fatal("UpdateDataset is not ready to be called")
	}
	return m.Impl.UpdateDataset(ctx, datasetId, update)
}

func (m *mockClient) DeleteDataset(ctx context.Context, datasetId int) error {
	m.t.Helper()
	m.Calls.DeleteDataset = append(m.Calls.DeleteDataset, datasetId)
	if m.Impl.DeleteDataset == nil {
		m.t.Fatal("DeleteDataset is not ready to be called")
	}
	return m.Impl.DeleteDataset(ctx, datasetId)
}

func (m *mockClient) UploadDatasetFiles(ctx context.Context, datasetId int, source string, expand bool) rest.Progress[[]apistorage.FileInfo] {
	m.t.Helper()
	m.Calls.UploadDatasetFiles = append(m.Calls.UploadDatasetFiles, UploadArgs{Source: source, Expand: expand})
	if m.Impl.UploadDatasetFiles == nil {
		m.t.Fatal("UploadDatasetFiles is not ready to be called")
	}
	return m.Impl.UploadDatasetFiles(ctx, datasetId, source, expand)
}

func (m *mockClient) ListCheckpoints(ctx context.Context, orgId uuid.UUID, projectId uuid.UUID, category string) ([]apickpt.Checkpoint, error) {
	m.t.Helper()
	m.Calls.ListCheckpoints = append(m.Calls.ListCheckpoints, category)
	if m.Impl.ListCheckpoints == nil {
		m.t.Fatal("ListCheckpoints is not ready to be called")
	}
	return m.Impl.ListCheckpoints(ctx, orgId, projectId, category)
}

func (m *mockClient) GetCheckpoint(ctx context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error) {
	m.t.Helper()
	m.Calls.GetCheckpoint = append(m.Calls.GetCheckpoint, checkpointId)
	if m.Impl.GetCheckpoint == nil {
		m.t.Fatal("GetCheckpoint is not ready to be called")
	}
	return m.Impl.GetCheckpoint(ctx, checkpointId)
}

func (m *mockClient) CreateCheckpoint(ctx context.Context, orgId uuid.UUID, projectId uuid.UUID, spec apickpt.Spec) (apickpt.Checkpoint, error) {
	m.t.Helper()
	m.Calls.CreateCheckpoint = append(m.Calls.CreateCheckpoint, spec)
	if m.Impl.CreateCheckpoint == nil {
		m.t.Fatal("CreateCheckpoint is not ready to be called")
	}
	return m.Impl.CreateCheckpoint(ctx, orgId, projectId, spec)
}

func (m *mockClient) DeleteCheckpoint(ctx context.Context, checkpointId uuid.UUID) error {
	m.t.Helper()
	m.Calls.DeleteCheckpoint = append(m.Calls.DeleteCheckpoint, checkpointId)
	if m.Impl.DeleteCheckpoint == nil {
		m.t.Fatal("DeleteCheckpoint is not ready to be called")
	}
	return m.Impl.DeleteCheckpoint(ctx, checkpointId)
}

func (m *mockClient) RestoreCheckpoint(ctx context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error) {
	m.t.Helper()
	m.Calls.RestoreCheckpoint = append(m.Calls.RestoreCheckpoint, checkpointId)
	if m.Impl.RestoreCheckpoint == nil {
		m.t.Fatal("RestoreCheckpoint is not ready to be called")
	}
	return m.Impl.RestoreCheckpoint(ctx, checkpointId)
}

func (m *mockClient) UpdateCheckpointFiles(ctx context.Context, formId uuid.UUID, files []apickpt.File) (apickpt.Checkpoint, error) {
	m.t.Helper()
	m.Calls.UpdateCheckpointFiles = append(m.Calls.UpdateCheckpointFiles, files)
	if m.Impl.UpdateCheckpointFiles == nil {
		m.t.Fatal("UpdateCheckpointFiles is not ready to be called")
	}
	return m.Impl.UpdateCheckpointFiles(ctx, formId, files)
}

func (m *mockClient) GetCheckpointDownloadURLs(ctx context.Context, formId uuid.UUID) ([]apickpt.File, error) {
	m.t.Helper()
	m.Calls.GetCheckpointDownloadURLs = append(m.Calls.GetCheckpointDownloadURLs, formId)
	if m.Impl.GetCheckpointDownloadURLs == nil {
		m.t.Fatal("GetCheckpointDownloadURLs is not ready to be called")
	}
	return m.Impl.GetCheckpointDownloadURLs(ctx, formId)
}

func (m *mockClient) UploadCheckpointFiles(ctx context.Context, formId uuid.UUID, source string, expand bool) rest.Progress[[]apistorage.FileInfo] {
	m.t.Helper()
	m.Calls.UploadCheckpointFiles = append(m.Calls.UploadCheckpointFiles, UploadArgs{Source: source, Expand: expand})
	if m.Impl.UploadCheckpointFiles == nil {
		m.t.Fatal("UploadCheckpointFiles is not ready to be called")
	}
	return m.Impl.UploadCheckpointFiles(ctx, formId, source, expand)
}

func (m *mockClient) DownloadFiles(ctx context.Context, files []apickpt.File, dest string) rest.Progress[struct{}] {
	m.t.Helper()
	m.Calls.DownloadFiles = append(m.Calls.DownloadFiles, dest)
	if m.Impl.DownloadFiles == nil {
		m.t.Fatal("DownloadFiles is not ready to be called")
	}
	return m.Impl.DownloadFiles(ctx, files, dest)
}
