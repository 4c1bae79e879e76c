package org

import (
	"github.com/google/subcommands"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/subcommands/org/acceptinvite"
	"github.com/periflow/cli/cmd/pf/subcommands/org/create"
	"github.com/periflow/cli/cmd/pf/subcommands/org/invite"
	"github.com/periflow/cli/cmd/pf/subcommands/org/list"
	"github.com/periflow/cli/cmd/pf/subcommands/org/members"
	"github.com/periflow/cli/cmd/pf/subcommands/org/setprivilege"
	"github.com/periflow/cli/cmd/pf/subcommands/org/sw"
)

// New builds the `pf org` command group.
func New(cf kcmd.CommonFlags) subcommands.Command {
	commander := kcmd.NewCommander(
		"org",
		kcmd.Help{Synopsis: "manage organizations and their members"},
	)

	commander.Register(kcmd.Build(create.New(), cf))
	commander.Register(kcmd.Build(list.New(), cf))
	commander.Register(kcmd.Build(sw.New(), cf))
	commander.Register(kcmd.Build(invite.New(), cf))
	commander.Register(kcmd.Build(acceptinvite.New(), cf))
	commander.Register(kcmd.Build(members.New(), cf))
	commander.Register(kcmd.Build(setprivilege.New(), cf))

	return commander
}
