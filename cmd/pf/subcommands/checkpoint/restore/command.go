package restore

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
	return "restore"
}

const ARG_NAME = "NAME"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the deleted checkpoint to restore`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "restore a soft-deleted checkpoint",
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	s *session.Store,
	c krst.Client,
	flags usage.FlagSet[Flags],
) error {
	orgId, err := resolve.WorkingOrganization(s)
	if err != nil {
		return err
	}
	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	ckpt, err := resolve.CheckpointByName(ctx, c, orgId, prjId, flags.Args[ARG_NAME][0])
	if err != nil {
		return err
	}

	if _, err := c.RestoreCheckpoint(ctx, ckpt.ID); err != nil {
		return err
	}

	l.Printf("checkpoint %s is restored", ckpt.Name)
	return nil
}
