package signup

import (
	"context"
	"fmt"
	"log"
	"os"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/prompt"
	apiusers "github.com/periflow/cli/pkg/api/types/users"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct {
	Username string `flag:"username,short=u,metavar=NAME,help=account name. prompted when omitted."`
	Name     string `flag:"name,metavar=NAME,help=display name. prompted when omitted."`
	Email    string `flag:"email,metavar=ADDRESS,help=email address. prompted when omitted."`
}

type Command struct {
	prompt prompt.Prompter
}

type Option func(*Command) *Command

func WithPrompter(p prompt.Prompter) Option {
	return func(c *Command) *Command {
		c.prompt = p
		return c
	}
}

func New(opt ...Option) kcmd.PfCommand[Flags] {
	c := &Command{
		prompt: prompt.Terminal(os.Stdin, os.Stderr),
	}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (cmd *Command) Name() string {
	return "signup"
}

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(Flags{}, usage.Args{})
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "create a new account",
		Detail: `
Create a new account.

A verification code is sent to your email address.
Verify the account with ` + "`{{ .Command }} verify`" + ` of the pf CLI.
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
	spec := apiusers.SignUpSpec{
		Username: flags.Flags.Username,
		Name:     flags.Flags.Name,
		Email:    flags.Flags.Email,
	}

	var err error
	if spec.Username == "" {
		if spec.Username, err = cmd.prompt("Username", false); err != nil {
			return err
		}
	}
	if spec.Name == "" {
		if spec.Name, err = cmd.prompt("Name", false); err != nil {
			return err
		}
	}
	if spec.Email == "" {
		if spec.Email, err = cmd.prompt("Email", false); err != nil {
			return err
		}
	}

	password, err := cmd.prompt("Password", true)
	if err != nil {
		return err
	}
	again, err := cmd.prompt("Password (again)", true)
	if err != nil {
		return err
	}
	if password != again {
		return fmt.Errorf("%w: passwords do not match", kcmd.ErrUsage)
	}
	spec.Password = password

	if err := c.SignUp(ctx, spec); err != nil {
		return err
	}

	l.Printf("signed up as %s. check your email (%s) for the verification code", spec.Username, spec.Email)
	return nil
}
