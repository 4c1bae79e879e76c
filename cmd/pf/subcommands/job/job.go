// Package job groups subcommands managing training jobs.
package job

import (
	"github.com/google/subcommands"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/subcommands/job/artifacts"
	"github.com/periflow/cli/cmd/pf/subcommands/job/cancel"
	"github.com/periflow/cli/cmd/pf/subcommands/job/checkpoints"
	"github.com/periflow/cli/cmd/pf/subcommands/job/list"
	"github.com/periflow/cli/cmd/pf/subcommands/job/logs"
	"github.com/periflow/cli/cmd/pf/subcommands/job/run"
	"github.com/periflow/cli/cmd/pf/subcommands/job/template"
	"github.com/periflow/cli/cmd/pf/subcommands/job/terminate"
	"github.com/periflow/cli/cmd/pf/subcommands/job/view"
)

func New(cf kcmd.CommonFlags) subcommands.Command {
	commander := kcmd.NewCommander(
		"job",
		kcmd.Help{Synopsis: "run and inspect training jobs"},
	)
	commander.Register(kcmd.Build(run.New(), cf))
	commander.Register(kcmd.Build(list.New(), cf))
	commander.Register(kcmd.Build(view.New(), cf))
	commander.Register(kcmd.Build(logs.New(), cf))
	commander.Register(kcmd.Build(cancel.New(), cf))
	commander.Register(kcmd.Build(terminate.New(), cf))
	commander.Register(kcmd.Build(template.New(), cf))
	commander.Register(kcmd.Build(checkpoints.New(), cf))
	commander.Register(kcmd.Build(artifacts.New(), cf))
	return commander
}
