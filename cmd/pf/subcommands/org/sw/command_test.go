package sw_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/periflow/cli/cmd/pf/config/session"
	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	"github.com/periflow/cli/cmd/pf/subcommands/org/sw"
	apiorgs "github.com/periflow/cli/pkg/api/types/orgs"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/try"
)

func TestSwitch(t *testing.T) {
	t.Run("it stores the organization found by name and drops the project", func(t *testing.T) {
		alpha := uuid.New()
		beta := uuid.New()

		mock := rmock.New(t)
		mock.Impl.ListMyOrganizations = func(_ context.Context) ([]apiorgs.Organization, error) {
			return []apiorgs.Organization{
				{ID: alpha, Name: "alpha"},
				{ID: beta, Name: "beta"},
			}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetOrganizationID(alpha); err != nil {
			t.Fatal(err)
		}
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := sw.New()
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[sw.Flags]{
				Flags: sw.Flags{},
				Args:  map[string][]string{sw.ARG_NAME: {"beta"}},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		if actual := try.To(store.OrganizationID()).OrFatal(t); actual != beta {
			t.Errorf("unexpected working organization: %s (expected %s)", actual, beta)
		}
		if _, err := store.ProjectID(); !errors.Is(err, session.ErrNotSet) {
			t.Errorf("working project should be dropped, but: %v", err)
		}
	})

	t.Run("it fails when no organization has the name", func(t *testing.T) {
		mock := rmock.New(t)
		mock.Impl.ListMyOrganizations = func(_ context.Context) ([]apiorgs.Organization, error) {
			return []apiorgs.Organization{
				{ID: uuid.New(), Name: "alpha"},
			}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)

		testee := sw.New()
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[sw.Flags]{
				Flags: sw.Flags{},
				Args:  map[string][]string{sw.ARG_NAME: {"no-such-org"}},
			},
		)
		if err == nil {
			t.Fatal("expected an error, but got nil")
		}

		if _, err := store.OrganizationID(); !errors.Is(err, session.ErrNotSet) {
			t.Errorf("working organization should stay unset, but: %v", err)
		}
	})
}
