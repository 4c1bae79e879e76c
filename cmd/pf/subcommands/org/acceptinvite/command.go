// Package acceptinvite implements `pf org accept-invite`.
package acceptinvite

import (
	"context"
	"log"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct{}

type Command struct{}

func New() kcmd.PfCommand[Flags] {
	return &Command{}
}

func (cmd *Command) Name() string {
	return "accept-invite"
}

const (
	ARG_TOKEN = "TOKEN"
	ARG_KEY   = "KEY"
)

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_TOKEN, Required: true,
				Help: `Invitation token from the email`,
			},
			{
				Name: ARG_KEY, Required: true,
				Help: `Verification key from the email`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "join an organization you are invited to",
		Example: `
	{{ .Command }} SOME-TOKEN SOME-KEY
`,
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	_ *session.Store,
	c krst.Client,
	flags usage.FlagSet[Flags],
) error {
	token := flags.Args[ARG_TOKEN][0]
	key := flags.Args[ARG_KEY][0]

	if err := c.AcceptInvite(ctx, token, key); err != nil {
		return err
	}

	l.Println("you joined the organization. try `pf org list`")
	return nil
}
