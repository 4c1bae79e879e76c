// Package vm groups subcommands inspecting VM offerings.
package vm

import (
	"github.com/google/subcommands"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/subcommands/vm/list"
	"github.com/periflow/cli/cmd/pf/subcommands/vm/quota"
)

func New(cf kcmd.CommonFlags) subcommands.Command {
	commander := kcmd.NewCommander(
		"vm",
		kcmd.Help{Synopsis: "show VM types and quotas available to you"},
	)
	commander.Register(kcmd.Build(list.New(), cf))
	commander.Register(kcmd.Build(quota.New(), cf))
	return commander
}
