package upload_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	"github.com/periflow/cli/cmd/pf/rest"
	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset/upload"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	apistorage "github.com/periflow/cli/pkg/api/types/storage"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/cmp"
	"github.com/periflow/cli/pkg/utils/try"
)

func TestUpload(t *testing.T) {
	t.Run("it uploads into a platform-managed dataset and activates it", func(t *testing.T) {
		known := apistorage.FileInfo{
			Name: "train.jsonl", Path: "train.jsonl",
			MTime: "2023-04-05T06:07:08", Size: 1024,
		}
		uploaded := apistorage.FileInfo{
			Name: "valid.jsonl", Path: "valid.jsonl",
			MTime: "2023-04-06T07:08:09", Size: 512,
		}

		mock := rmock.New(t)
		mock.Impl.ListDatasets = func(_ context.Context, _ uuid.UUID) ([]apidata.Dataset, error) {
			return []apidata.Dataset{
				{
					ID: 7, Name: "my-corpus", Vendor: "fai",
					Active: false,
					Files:  []apistorage.FileInfo{known},
				},
			}, nil
		}
		mock.Impl.UploadDatasetFiles = func(_ context.Context, datasetId int, source string, expand bool) rest.Progress[[]apistorage.FileInfo] {
			if datasetId != 7 {
				t.Errorf("unexpected dataset id: %d", datasetId)
			}
			if !expand {
				t.Errorf("expand flag is not passed through")
			}
			return &rmock.MockedProgress[[]apistorage.FileInfo]{
				EstimatedTotalSize_: uploaded.Size,
				ProgressedSize_:     uploaded.Size,
				ProgressingFile_:    uploaded.Path,
				Result_:             []apistorage.FileInfo{uploaded},
				ResultOk_:           true,
				Sent_:               rmock.Closed(),
				Done_:               rmock.Closed(),
			}
		}
		mock.Impl.UpdateDataset = func(_ context.Context, datasetId int, update apidata.Update) (apidata.Dataset, error) {
			return apidata.Dataset{ID: datasetId, Name: "my-corpus", Vendor: "fai", Active: true}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := upload.New(upload.WithProgressOutput(io.Discard))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[upload.Flags]{
				Flags: upload.Flags{Expand: true},
				Args: map[string][]string{
					upload.ARG_NAME:   {"my-corpus"},
					upload.ARG_SOURCE: {"./corpus"},
				},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		{
			expected := []rmock.UploadArgs{{Source: "./corpus", Expand: true}}
			if actual := mock.Calls.UploadDatasetFiles; !cmp.SliceContentEq(actual, expected) {
				t.Errorf(
					"unexpected upload args:\n===actual===\n%+v\n===expected===\n%+v",
					actual, expected,
				)
			}
		}

		{
			if len(mock.Calls.UpdateDataset) != 1 {
				t.Fatalf("UpdateDataset should be called once, but %d times", len(mock.Calls.UpdateDataset))
			}
			update := mock.Calls.UpdateDataset[0]
			if update.Active == nil || !*update.Active {
				t.Errorf("the dataset should be activated: %+v", update)
			}
			if update.Files == nil {
				t.Fatal("the file inventory is not updated")
			}
			expected := []apistorage.FileInfo{known, uploaded}
			if !cmp.SliceContentEq(*update.Files, expected) {
				t.Errorf(
					"unexpected inventory:\n===actual===\n%+v\n===expected===\n%+v",
					*update.Files, expected,
				)
			}
		}
	})

	t.Run("it rejects datasets living in external storage", func(t *testing.T) {
		mock := rmock.New(t)
		mock.Impl.ListDatasets = func(_ context.Context, _ uuid.UUID) ([]apidata.Dataset, error) {
			return []apidata.Dataset{
				{ID: 8, Name: "ext", Vendor: "aws", Region: "us-east-1", StorageName: "bucket"},
			}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		testee := upload.New(upload.WithProgressOutput(io.Discard))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[upload.Flags]{
				Flags: upload.Flags{},
				Args: map[string][]string{
					upload.ARG_NAME:   {"ext"},
					upload.ARG_SOURCE: {"./corpus"},
				},
			},
		)
		if !errors.Is(err, kcmd.ErrUsage) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(mock.Calls.UploadDatasetFiles) != 0 {
			t.Error("nothing should be uploaded")
		}
	})
}
