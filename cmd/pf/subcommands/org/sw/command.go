// Package sw implements `pf org switch`.
package sw

import (
	"context"
	"log"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct{}

type Command struct{}

func New() kcmd.PfCommand[Flags] {
	return &Command{}
}

func (cmd *Command) Name() string {
	return "switch"
}

const ARG_NAME = "NAME"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the organization to work in`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "choose the working organization",
		Detail: `
Choose the organization other commands work in.

Switching the organization also drops the working project,
since projects belong to one organization.
`,
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	s *session.Store,
	c krst.Client,
	flags usage.FlagSet[Flags],
) error {
	org, err := resolve.OrganizationByName(ctx, c, flags.Args[ARG_NAME][0])
	if err != nil {
		return err
	}

	if err := s.SetOrganizationID(org.ID); err != nil {
		return err
	}
	if err := s.ClearProject(); err != nil {
		return err
	}

	l.Printf("working organization is now %s", org.Name)
	return nil
}
