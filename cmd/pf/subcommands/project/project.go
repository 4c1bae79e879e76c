// Package project groups subcommands managing projects.
package project

import (
	"github.com/google/subcommands"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/subcommands/project/adduser"
	"github.com/periflow/cli/cmd/pf/subcommands/project/create"
	"github.com/periflow/cli/cmd/pf/subcommands/project/list"
	"github.com/periflow/cli/cmd/pf/subcommands/project/members"
	"github.com/periflow/cli/cmd/pf/subcommands/project/setaccess"
	"github.com/periflow/cli/cmd/pf/subcommands/project/sw"
)

func New(cf kcmd.CommonFlags) subcommands.Command {
	commander := kcmd.NewCommander(
		"project",
		kcmd.Help{Synopsis: "manage projects in the working organization"},
	)
	commander.Register(kcmd.Build(create.New(), cf))
	commander.Register(kcmd.Build(list.New(), cf))
	commander.Register(kcmd.Build(sw.New(), cf))
	commander.Register(kcmd.Build(members.New(), cf))
	commander.Register(kcmd.Build(adduser.New(), cf))
	commander.Register(kcmd.Build(setaccess.New(), cf))
	return commander
}
