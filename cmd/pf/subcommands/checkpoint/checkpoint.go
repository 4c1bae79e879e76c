// Package checkpoint groups subcommands managing model checkpoints.
package checkpoint

import (
	"github.com/google/subcommands"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint/create"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint/del"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint/download"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint/list"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint/restore"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint/upload"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint/view"
)

func New(cf kcmd.CommonFlags) subcommands.Command {
	commander := kcmd.NewCommander(
		"checkpoint",
		kcmd.Help{Synopsis: "manage model checkpoints in the working project"},
	)
	commander.Register(kcmd.Build(create.New(), cf))
	commander.Register(kcmd.Build(list.New(), cf))
	commander.Register(kcmd.Build(view.New(), cf))
	commander.Register(kcmd.Build(upload.New(), cf))
	commander.Register(kcmd.Build(download.New(), cf))
	commander.Register(kcmd.Build(restore.New(), cf))
	commander.Register(kcmd.Build(del.New(), cf))
	return commander
}
