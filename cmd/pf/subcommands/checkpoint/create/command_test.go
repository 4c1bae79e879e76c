package create_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/periflow/cli/cmd/pf/config/session"
	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint/create"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	apiusers "github.com/periflow/cli/pkg/api/types/users"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/try"
)

func TestCreate(t *testing.T) {
	t.Run("it refuses a credential made for another vendor", func(t *testing.T) {
		credId := uuid.New()

		mock := rmock.New(t)
		mock.Impl.CurrentUser = func(_ context.Context) (apiusers.User, error) {
			return apiusers.User{ID: uuid.New(), Username: "alice"}, nil
		}
		mock.Impl.GetCredential = func(_ context.Context, _ uuid.UUID) (apicred.Credential, error) {
			return apicred.Credential{
				ID: credId, Name: "my-azure-key", Type: "azure.blob",
				Value: map[string]any{"storage_account_name": "acct"},
			}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetOrganizationID(uuid.New()); err != nil {
			t.Fatal(err)
		}
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
					StorageName:  "my-checkpoints",
					CredentialID: credId.String(),
					Iteration:    10000,
				},
				Args: map[string][]string{
					create.ARG_NAME: {"gpt-13b-step-10000"},
				},
			},
		)
		if err == nil {
			t.Fatal("an azure-blob credential should not pass for s3")
		}
		if !strings.Contains(err.Error(), "not for s3 storage") {
			t.Errorf("unexpected error: %v", err)
		}
		if len(mock.Calls.CreateCheckpoint) != 0 {
			t.Error("nothing should be registered")
		}
	})
}
