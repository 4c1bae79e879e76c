package invite

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
	return "invite"
}

const ARG_EMAIL = "EMAIL"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_EMAIL, Required: true,
				Help: `Email address to send the invitation to`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "invite a user into the working organization",
		Example: `
	{{ .Command }} bob@example.com
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
	orgId, err := resolve.WorkingOrganization(s)
	if err != nil {
		return err
	}

	email := flags.Args[ARG_EMAIL][0]
	if err := c.InviteToOrganization(ctx, orgId, email); err != nil {
		return err
	}

	l.Printf("invitation is sent to %s", email)
	return nil
}
