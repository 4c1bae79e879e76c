// Package credential groups subcommands managing stored secrets.
package credential

import (
	"github.com/google/subcommands"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/subcommands/credential/create"
	"github.com/periflow/cli/cmd/pf/subcommands/credential/del"
	"github.com/periflow/cli/cmd/pf/subcommands/credential/list"
	"github.com/periflow/cli/cmd/pf/subcommands/credential/update"
	"github.com/periflow/cli/cmd/pf/subcommands/credential/view"
)

func New(cf kcmd.CommonFlags) subcommands.Command {
	commander := kcmd.NewCommander(
		"credential",
		kcmd.Help{Synopsis: "manage credentials in the working project"},
	)
	commander.Register(kcmd.Build(create.New(), cf))
	commander.Register(kcmd.Build(list.New(), cf))
	commander.Register(kcmd.Build(view.New(), cf))
	commander.Register(kcmd.Build(update.New(), cf))
	commander.Register(kcmd.Build(del.New(), cf))
	return commander
}
