// Package dataset groups subcommands managing datasets.
package dataset

import (
	"github.com/google/subcommands"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset/create"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset/del"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset/edit"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset/list"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset/upload"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset/view"
)

func New(cf kcmd.CommonFlags) subcommands.Command {
	commander := kcmd.NewCommander(
		"dataset",
		kcmd.Help{Synopsis: "manage datasets in the working project"},
	)
	commander.Register(kcmd.Build(create.New(), cf))
	commander.Register(kcmd.Build(list.New(), cf))
	commander.Register(kcmd.Build(view.New(), cf))
	commander.Register(kcmd.Build(upload.New(), cf))
	commander.Register(kcmd.Build(edit.New(), cf))
	commander.Register(kcmd.Build(del.New(), cf))
	return commander
}
