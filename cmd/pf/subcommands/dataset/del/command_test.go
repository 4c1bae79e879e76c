package del_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/periflow/cli/cmd/pf/config/session"
	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset/del"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/prompt"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/cmp"
	"github.com/periflow/cli/pkg/utils/try"
)

func TestDelete(t *testing.T) {
	listing := func(_ context.Context, _ uuid.UUID) ([]apidata.Dataset, error) {
		return []apidata.Dataset{
			{ID: 7, Name: "my-corpus", Vendor: "fai", Active: true},
		}, nil
	}

	t.Run("it deletes the dataset when confirmed", func(t *testing.T) {
		mock := rmock.New(t)
		mock.Impl.ListDatasets = listing
		mock.Impl.DeleteDataset = func(_ context.Context, _ int) error { return nil }

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := del.New(del.WithPrompter(prompt.Fixed(map[string]string{
			"delete dataset my-corpus? [y/N]": "y",
		})))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[del.Flags]{
				Flags: del.Flags{},
				Args:  map[string][]string{del.ARG_NAME: {"my-corpus"}},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		if expected := []int{7}; !cmp.SliceContentEq(mock.Calls.DeleteDataset, expected) {
			t.Errorf("unexpected deletions: %+v", mock.Calls.DeleteDataset)
		}
	})

	t.Run("it does nothing when declined", func(t *testing.T) {
		mock := rmock.New(t)
		mock.Impl.ListDatasets = listing

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := del.New(del.WithPrompter(prompt.Fixed(map[string]string{
			"delete dataset my-corpus? [y/N]": "",
		})))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[del.Flags]{
				Flags: del.Flags{},
				Args:  map[string][]string{del.ARG_NAME: {"my-corpus"}},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		if len(mock.Calls.DeleteDataset) != 0 {
			t.Error("nothing should be deleted")
		}
	})

	t.Run("it skips the prompt with --force", func(t *testing.T) {
		mock := rmock.New(t)
		mock.Impl.ListDatasets = listing
		mock.Impl.DeleteDataset = func(_ context.Context, _ int) error { return nil }

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := del.New(del.WithPrompter(prompt.Fixed(map[string]string{})))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[del.Flags]{
				Flags: del.Flags{Force: true},
				Args:  map[string][]string{del.ARG_NAME: {"my-corpus"}},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		if expected := []int{7}; !cmp.SliceContentEq(mock.Calls.DeleteDataset, expected) {
			t.Errorf("unexpected deletions: %+v", mock.Calls.DeleteDataset)
		}
	})
}
