// Package adduser implements `pf project add-user`.
package adduser

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
	return "add-user"
}

const ARG_USERNAME = "USERNAME"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_USERNAME, Required: true,
				Help: `Organization member to add to the working project`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "add an organization member to the working project",
		Example: `
	{{ .Command }} bob
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
	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	username := flags.Args[ARG_USERNAME][0]
	user, err := resolve.OrganizationMemberByUsername(ctx, c, orgId, username)
	if err != nil {
		return err
	}

	if err := c.AddProjectMember(ctx, prjId, user.ID); err != nil {
		return err
	}

	l.Printf("%s is added to the project", username)
	return nil
}
