package verify

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
	return "verify"
}

const ARG_TOKEN = "TOKEN"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_TOKEN, Required: true,
				Help: `Verification code sent to your email`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "verify a new account with the emailed code",
		Example: `
	{{ .Command }} SOME-VERIFICATION-CODE
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
	if err := c.ConfirmSignUp(ctx, token); err != nil {
		return err
	}

	l.Println("account verified. try `pf login`")
	return nil
}
