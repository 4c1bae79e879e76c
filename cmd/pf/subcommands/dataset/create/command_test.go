package create_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/periflow/cli/cmd/pf/config/session"
	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset/create"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/try"
)

func TestCreate(t *testing.T) {
	t.Run("it refuses a credential made for another vendor", func(t *testing.T) {
		credId := uuid.New()

		mock := rmock.New(t)
		mock.Impl.ListDatasets = func(_ context.Context, _ uuid.UUID) ([]apidata.Dataset, error) {
			return []apidata.Dataset{}, nil
		}
		mock.Impl.GetCredential = func(_ context.Context, _ uuid.UUID) (apicred.Credential, error) {
			return apicred.Credential{
				ID: credId, Name: "my-gcp-key", Type: "gcp",
				Value: map[string]any{"project_id": "p"},
			}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		out := bytes.Buffer{}
		testee := create.New(create.WithOutput(&out))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[create.Flags]{
				Flags: create.Flags{
					StorageType:  "s3",
					Region:       "us-east-1",
					StorageName:  "my-bucket",
					CredentialID: credId.String(),
				},
				Args: map[string][]string{
					create.ARG_NAME: {"my-corpus"},
				},
			},
		)
		if err == nil {
			t.Fatal("a gcs credential should not pass for s3")
		}
		if !strings.Contains(err.Error(), "not for s3 storage") {
			t.Errorf("unexpected error: %v", err)
		}
		if len(mock.Calls.CreateDataset) != 0 {
			t.Error("nothing should be registered")
		}
	})

	t.Run("it refuses a name already taken in the project", func(t *testing.T) {
		mock := rmock.New(t)
		mock.Impl.ListDatasets = func(_ context.Context, _ uuid.UUID) ([]apidata.Dataset, error) {
			return []apidata.Dataset{{ID: 7, Name: "my-corpus", Vendor: "fai"}}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		out := bytes.Buffer{}
		testee := create.New(create.WithOutput(&out))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[create.Flags]{
				Flags: create.Flags{StorageType: "fai"},
				Args: map[string][]string{
					create.ARG_NAME: {"my-corpus"},
				},
			},
		)
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("unexpected error: %v", err)
		}
		if len(mock.Calls.CreateDataset) != 0 {
			t.Error("nothing should be registered")
		}
	})
}
