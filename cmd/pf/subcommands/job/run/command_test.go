package run_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/job/run"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	apivms "github.com/periflow/cli/pkg/api/types/vms"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/try"
)

const customConfig = `
name: finetune-13b
vm: a100-80g-8
num_devices: 8
job_setting:
  type: custom
  docker:
    image: periflow/trainer:latest
    command:
      run: python train.py
data:
  name: my-corpus
  mount_path: /data
`

func TestRun(t *testing.T) {
	t.Run("it resolves names in the configuration and submits the job", func(t *testing.T) {
		tmp := t.TempDir()
		confPath := filepath.Join(tmp, "job.yaml")
		if err := os.WriteFile(confPath, []byte(customConfig), 0644); err != nil {
			t.Fatal(err)
		}

		mock := rmock.New(t)
		mock.Impl.ListVMConfigs = func(_ context.Context, _ uuid.UUID) ([]apivms.VMConfig, error) {
			return []apivms.VMConfig{
				{
					ID: 11,
					VMConfigType: apivms.VMConfigType{
						VMInstanceType: apivms.VMInstanceType{Code: "a100-80g-8"},
					},
				},
			}, nil
		}
		mock.Impl.ListDatasets = func(_ context.Context, _ uuid.UUID) ([]apidata.Dataset, error) {
			return []apidata.Dataset{
				{ID: 7, Name: "my-corpus", Vendor: "fai", Active: true},
			}, nil
		}
		mock.Impl.RunJob = func(_ context.Context, _ uuid.UUID, body map[string]any, workspace string) (apijobs.Job, error) {
			return apijobs.Job{ID: 42}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetOrganizationID(uuid.New()); err != nil {
			t.Fatal(err)
		}
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		stdout := new(strings.Builder)
		testee := run.New(run.WithOutput(stdout))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[run.Flags]{
				Flags: run.Flags{Config: confPath, Workspace: "./code"},
				Args:  map[string][]string{},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		if len(mock.Calls.RunJob) != 1 {
			t.Fatalf("RunJob should be called once, but %d times", len(mock.Calls.RunJob))
		}
		call := mock.Calls.RunJob[0]
		if call.Workspace != "./code" {
			t.Errorf("unexpected workspace: %s", call.Workspace)
		}
		if call.Body["vm_config_id"] != 11 {
			t.Errorf("VM name is not resolved: %+v", call.Body)
		}
		if data, ok := call.Body["data"].(map[string]any); !ok || data["id"] != 7 {
			t.Errorf("dataset name is not resolved: %+v", call.Body)
		}
		if call.Body["name"] != "finetune-13b" {
			t.Errorf("unexpected body: %+v", call.Body)
		}
	})

	t.Run("it applies flag overrides before submitting", func(t *testing.T) {
		tmp := t.TempDir()
		confPath := filepath.Join(tmp, "job.yaml")
		if err := os.WriteFile(confPath, []byte(customConfig), 0644); err != nil {
			t.Fatal(err)
		}

		mock := rmock.New(t)
		mock.Impl.ListVMConfigs = func(_ context.Context, _ uuid.UUID) ([]apivms.VMConfig, error) {
			return []apivms.VMConfig{
				{
					ID: 23,
					VMConfigType: apivms.VMConfigType{
						VMInstanceType: apivms.VMInstanceType{Code: "a100-80g-4"},
					},
				},
			}, nil
		}
		mock.Impl.ListDatasets = func(_ context.Context, _ uuid.UUID) ([]apidata.Dataset, error) {
			return []apidata.Dataset{
				{ID: 7, Name: "my-corpus", Vendor: "fai", Active: true},
			}, nil
		}
		mock.Impl.RunJob = func(_ context.Context, _ uuid.UUID, body map[string]any, workspace string) (apijobs.Job, error) {
			return apijobs.Job{ID: 43}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetOrganizationID(uuid.New()); err != nil {
			t.Fatal(err)
		}
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := run.New(run.WithOutput(new(strings.Builder)))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[run.Flags]{
				Flags: run.Flags{
					Config:     confPath,
					Name:       "finetune-13b-v2",
					VM:         "a100-80g-4",
					NumDevices: 4,
				},
				Args: map[string][]string{},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		if len(mock.Calls.RunJob) != 1 {
			t.Fatalf("RunJob should be called once, but %d times", len(mock.Calls.RunJob))
		}
		body := mock.Calls.RunJob[0].Body
		if body["name"] != "finetune-13b-v2" || body["vm_config_id"] != 23 || body["num_devices"] != 4 {
			t.Errorf("overrides are not applied: %+v", body)
		}
	})

	t.Run("it fails when the VM type is not available", func(t *testing.T) {
		tmp := t.TempDir()
		confPath := filepath.Join(tmp, "job.yaml")
		if err := os.WriteFile(confPath, []byte(customConfig), 0644); err != nil {
			t.Fatal(err)
		}

		mock := rmock.New(t)
		mock.Impl.ListVMConfigs = func(_ context.Context, _ uuid.UUID) ([]apivms.VMConfig, error) {
			return []apivms.VMConfig{}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetOrganizationID(uuid.New()); err != nil {
			t.Fatal(err)
		}
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := run.New(run.WithOutput(new(strings.Builder)))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[run.Flags]{
				Flags: run.Flags{Config: confPath},
				Args:  map[string][]string{},
			},
		)
		if err == nil || !strings.Contains(err.Error(), "not available to the organization") {
			t.Errorf("unexpected error: %v", err)
		}
		if len(mock.Calls.RunJob) != 0 {
			t.Error("no job should be submitted")
		}
	})

	t.Run("it requires --config", func(t *testing.T) {
		mock := rmock.New(t)
		store := try.To(session.Open(t.TempDir())).OrFatal(t)

		testee := run.New(run.WithOutput(new(strings.Builder)))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[run.Flags]{
				Flags: run.Flags{},
				Args:  map[string][]string{},
			},
		)
		if !errors.Is(err, kcmd.ErrUsage) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
