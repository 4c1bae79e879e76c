// Package setaccess implements `pf project set-access`.
package setaccess

import (
	"context"
	"fmt"
	"log"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	apiprj "github.com/periflow/cli/pkg/api/types/projects"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils"
)

type Flags struct{}

type Command struct{}

func New() kcmd.PfCommand[Flags] {
	return &Command{}
}

func (cmd *Command) Name() string {
	return "set-access"
}

const (
	ARG_USERNAME     = "USERNAME"
	ARG_ACCESS_LEVEL = "ACCESS_LEVEL"
)

func accessLevels() []string {
	return []string{apiprj.AccessAdmin, apiprj.AccessDeveloper, apiprj.AccessGuest}
}

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_USERNAME, Required: true,
				Help: `Project member to change the access level of`,
			},
			{
				Name: ARG_ACCESS_LEVEL, Required: true,
				Help: `New access level: admin, developer or guest`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "change a member's access level in the working project",
		Example: `
	{{ .Command }} bob developer
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
	accessLevel := flags.Args[ARG_ACCESS_LEVEL][0]
	if _, ok := utils.First(accessLevels(), func(a string) bool { return a == accessLevel }); !ok {
		return fmt.Errorf(
			"%w: access level should be one of admin, developer or guest",
			kcmd.ErrUsage,
		)
	}

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

	if err := c.SetProjectAccessLevel(ctx, prjId, user.ID, accessLevel); err != nil {
		return err
	}

	l.Printf("%s is now %s of the project", username, accessLevel)
	return nil
}
