package setaccess_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	"github.com/periflow/cli/cmd/pf/subcommands/project/setaccess"
	apiorgs "github.com/periflow/cli/pkg/api/types/orgs"
	apiprj "github.com/periflow/cli/pkg/api/types/projects"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/cmp"
	"github.com/periflow/cli/pkg/utils/try"
)

func TestSetAccess(t *testing.T) {
	t.Run("it resolves the member by username and sets the level", func(t *testing.T) {
		bob := uuid.New()
		prjId := uuid.New()

		mock := rmock.New(t)
		mock.Impl.ListOrganizationMembers = func(_ context.Context, _ uuid.UUID) ([]apiorgs.Member, error) {
			return []apiorgs.Member{
				{ID: uuid.New(), Username: "alice"},
				{ID: bob, Username: "bob"},
			}, nil
		}
		mock.Impl.SetProjectAccessLevel = func(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ string) error {
			return nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetOrganizationID(uuid.New()); err != nil {
			t.Fatal(err)
		}
		if err := store.SetProjectID(prjId); err != nil {
			t.Fatal(err)
		}

		testee := setaccess.New()
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[setaccess.Flags]{
				Flags: setaccess.Flags{},
				Args: map[string][]string{
					setaccess.ARG_USERNAME:     {"bob"},
					setaccess.ARG_ACCESS_LEVEL: {apiprj.AccessDeveloper},
				},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		expected := []rmock.SetProjectAccessLevelArgs{
			{ProjectID: prjId, UserID: bob, AccessLevel: apiprj.AccessDeveloper},
		}
		if actual := mock.Calls.SetProjectAccessLevel; !cmp.SliceContentEq(actual, expected) {
			t.Errorf(
				"unexpected args:\n===actual===\n%+v\n===expected===\n%+v",
				actual, expected,
			)
		}
	})

	t.Run("it rejects unknown access levels", func(t *testing.T) {
		mock := rmock.New(t)
		store := try.To(session.Open(t.TempDir())).OrFatal(t)

		testee := setaccess.New()
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[setaccess.Flags]{
				Flags: setaccess.Flags{},
				Args: map[string][]string{
					setaccess.ARG_USERNAME:     {"bob"},
					setaccess.ARG_ACCESS_LEVEL: {"superuser"},
				},
			},
		)
		if !errors.Is(err, kcmd.ErrUsage) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(mock.Calls.SetProjectAccessLevel) != 0 {
			t.Error("access level should not be changed")
		}
	})
}
