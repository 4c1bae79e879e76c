package download_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/periflow/cli/cmd/pf/config/session"
	"github.com/periflow/cli/cmd/pf/rest"
	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint/download"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/cmp"
	"github.com/periflow/cli/pkg/utils/try"
)

func TestDownload(t *testing.T) {
	t.Run("it downloads files of the requested form", func(t *testing.T) {
		ckptId := uuid.New()
		origForm := uuid.New()
		hfForm := uuid.New()

		files := []apickpt.File{
			{Name: "model.bin", Path: "model.bin", Size: 4096, DownloadURL: "https://storage.example/model.bin"},
		}

		mock := rmock.New(t)
		mock.Impl.ListCheckpoints = func(_ context.Context, _ uuid.UUID, _ uuid.UUID, category string) ([]apickpt.Checkpoint, error) {
			return []apickpt.Checkpoint{
				{ID: ckptId, Name: "gpt-13b-step-10000"},
			}, nil
		}
		mock.Impl.GetCheckpoint = func(_ context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error) {
			if checkpointId != ckptId {
				t.Errorf("unexpected checkpoint id: %s", checkpointId)
			}
			return apickpt.Checkpoint{
				ID: ckptId, Name: "gpt-13b-step-10000",
				Forms: []apickpt.Form{
					{ID: origForm, FormCategory: apickpt.FormOrig},
					{ID: hfForm, FormCategory: apickpt.FormHF},
				},
			}, nil
		}
		mock.Impl.GetCheckpointDownloadURLs = func(_ context.Context, formId uuid.UUID) ([]apickpt.File, error) {
			return files, nil
		}
		mock.Impl.DownloadFiles = func(_ context.Context, _ []apickpt.File, dest string) rest.Progress[struct{}] {
			return &rmock.MockedProgress[struct{}]{
				EstimatedTotalSize_: 4096,
				ProgressedSize_:     4096,
				Result_:             struct{}{},
				ResultOk_:           true,
				Sent_:               rmock.Closed(),
				Done_:               rmock.Closed(),
			}
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetOrganizationID(uuid.New()); err != nil {
			t.Fatal(err)
		}
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := download.New(download.WithProgressOutput(io.Discard))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[download.Flags]{
				Flags: download.Flags{Form: apickpt.FormHF, Dest: "./checkpoints"},
				Args:  map[string][]string{download.ARG_NAME: {"gpt-13b-step-10000"}},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		{
			expected := []uuid.UUID{hfForm}
			if actual := mock.Calls.GetCheckpointDownloadURLs; !cmp.SliceContentEq(actual, expected) {
				t.Errorf(
					"download urls are fetched for a wrong form:\n===actual===\n%+v\n===expected===\n%+v",
					actual, expected,
				)
			}
		}
		{
			expected := []string{"./checkpoints"}
			if actual := mock.Calls.DownloadFiles; !cmp.SliceContentEq(actual, expected) {
				t.Errorf(
					"unexpected download destination:\n===actual===\n%+v\n===expected===\n%+v",
					actual, expected,
				)
			}
		}
	})

	t.Run("it fails when the checkpoint has no such form", func(t *testing.T) {
		ckptId := uuid.New()

		mock := rmock.New(t)
		mock.Impl.ListCheckpoints = func(_ context.Context, _ uuid.UUID, _ uuid.UUID, category string) ([]apickpt.Checkpoint, error) {
			return []apickpt.Checkpoint{{ID: ckptId, Name: "raw-only"}}, nil
		}
		mock.Impl.GetCheckpoint = func(_ context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error) {
			return apickpt.Checkpoint{
				ID: ckptId, Name: "raw-only",
				Forms: []apickpt.Form{
					{ID: uuid.New(), FormCategory: apickpt.FormOrig},
				},
			}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetOrganizationID(uuid.New()); err != nil {
			t.Fatal(err)
		}
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := download.New(download.WithProgressOutput(io.Discard))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[download.Flags]{
				Flags: download.Flags{Form: apickpt.FormMegatron, Dest: "."},
				Args:  map[string][]string{download.ARG_NAME: {"raw-only"}},
			},
		)
		if err == nil || !strings.Contains(err.Error(), "has no megatron form") {
			t.Errorf("unexpected error: %v", err)
		}
		if len(mock.Calls.DownloadFiles) != 0 {
			t.Error("nothing should be downloaded")
		}
	})
}
