package logs_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/job/logs"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	kflag "github.com/periflow/cli/pkg/commandline/flag"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/rfctime"
	"github.com/periflow/cli/pkg/utils/try"
)

func TestLogs(t *testing.T) {
	t.Run("it prints fetched records with the given selector", func(t *testing.T) {
		timestamp := try.To(rfctime.ParseRFC3339DateTime("2023-04-05T06:07:08+00:00")).OrFatal(t)

		mock := rmock.New(t)
		mock.Impl.GetTextLogs = func(_ context.Context, _ uuid.UUID, jobId int64, sel krst.LogSelector) ([]apijobs.TextLog, error) {
			if jobId != 42 {
				t.Errorf("unexpected job id: %d", jobId)
			}
			return []apijobs.TextLog{
				{Timestamp: timestamp, Type: apijobs.LogTypeStderr, NodeRank: 0, Content: "loss = 2.34"},
				{Timestamp: timestamp, Type: apijobs.LogTypeStderr, NodeRank: 1, Content: "loss = 2.31"},
			}, nil
		}

		store := try.To(session.Open(t.TempDir())).OrFatal(t)
		if err := store.SetProjectID(uuid.New()); err != nil {
			t.Fatal(err)
		}

		stdout := new(strings.Builder)
		testee := logs.New(logs.WithOutput(stdout))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[logs.Flags]{
				Flags: logs.Flags{
					Limit:     2,
					LogTypes:  kflag.Argslice{"stderr"},
					NodeRanks: kflag.IntSlice{0, 1},
					Content:   "loss",
				},
				Args: map[string][]string{logs.ARG_JOB_ID: {"42"}},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		if len(mock.Calls.GetTextLogs) != 1 {
			t.Fatalf("GetTextLogs should be called once, but %d times", len(mock.Calls.GetTextLogs))
		}
		sel := mock.Calls.GetTextLogs[0]
		if sel.Limit != 2 || sel.Content != "loss" {
			t.Errorf("unexpected selector: %+v", sel)
		}
		if len(sel.LogTypes) != 1 || sel.LogTypes[0] != apijobs.LogTypeStderr {
			t.Errorf("unexpected log types: %+v", sel.LogTypes)
		}

		lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("unexpected output: %q", stdout.String())
		}
		if !strings.Contains(lines[0], "[node 0] loss = 2.34") ||
			!strings.Contains(lines[1], "[node 1] loss = 2.31") {
			t.Errorf("unexpected output: %q", stdout.String())
		}
	})

	t.Run("it rejects job ids which are not numbers", func(t *testing.T) {
		mock := rmock.New(t)
		store := try.To(session.Open(t.TempDir())).OrFatal(t)

		testee := logs.New(logs.WithOutput(new(strings.Builder)))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[logs.Flags]{
				Flags: logs.Flags{},
				Args:  map[string][]string{logs.ARG_JOB_ID: {"my-job"}},
			},
		)
		if !errors.Is(err, kcmd.ErrUsage) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("it rejects unknown log types", func(t *testing.T) {
		mock := rmock.New(t)
		store := try.To(session.Open(t.TempDir())).OrFatal(t)

		testee := logs.New(logs.WithOutput(new(strings.Builder)))
		err := testee.Execute(
			context.Background(), logger.Null(), store, mock,
			usage.FlagSet[logs.Flags]{
				Flags: logs.Flags{LogTypes: kflag.Argslice{"syslog"}},
				Args:  map[string][]string{logs.ARG_JOB_ID: {"42"}},
			},
		)
		if !errors.Is(err, kcmd.ErrUsage) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(mock.Calls.GetTextLogs) != 0 {
			t.Error("no records should be fetched")
		}
	})
}
