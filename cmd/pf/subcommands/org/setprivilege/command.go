// Package setprivilege implements `pf org set-privilege`.
package setprivilege

import (
	"context"
	"fmt"
	"log"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	apiorgs "github.com/periflow/cli/pkg/api/types/orgs"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct{}

type Command struct{}

func New() kcmd.PfCommand[Flags] {
	return &Command{}
}

func (cmd *Command) Name() string {
	return "set-privilege"
}

const (
	ARG_USERNAME  = "USERNAME"
	ARG_PRIVILEGE = "PRIVILEGE"
)

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_USERNAME, Required: true,
				Help: `Member to change the privilege of`,
			},
			{
				Name: ARG_PRIVILEGE, Required: true,
				Help: `New privilege level: ` + apiorgs.PrivilegeOwner + ` or ` + apiorgs.PrivilegeMember,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "change a member's privilege in the working organization",
		Example: `
	{{ .Command }} bob owner
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
	privilege := flags.Args[ARG_PRIVILEGE][0]
	if privilege != apiorgs.PrivilegeOwner && privilege != apiorgs.PrivilegeMember {
		return fmt.Errorf(
			"%w: privilege should be %s or %s",
			kcmd.ErrUsage, apiorgs.PrivilegeOwner, apiorgs.PrivilegeMember,
		)
	}

	orgId, err := resolve.WorkingOrganization(s)
	if err != nil {
		return err
	}

	username := flags.Args[ARG_USERNAME][0]
	user, err := resolve.OrganizationMemberByUsername(ctx, c, orgId, username)
	if err != nil {
		return err
	}

	if err := c.SetOrganizationPrivilege(ctx, orgId, user.ID, privilege); err != nil {
		return err
	}

	l.Printf("%s is now %s of the organization", username, privilege)
	return nil
}
