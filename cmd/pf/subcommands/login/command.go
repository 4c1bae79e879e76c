package login

import (
	"context"
	"io"
	"log"
	"os"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/prompt"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct {
	Username string `flag:"username,short=u,metavar=NAME,help=account name. prompted when omitted."`
}

type Command struct {
	prompt prompt.Prompter
	output io.Writer
}

type Option func(*Command) *Command

func WithPrompter(p prompt.Prompter) Option {
	return func(c *Command) *Command {
		c.prompt = p
		return c
	}
}

func WithOutput(w io.Writer) Option {
	return func(c *Command) *Command {
		c.output = w
		return c
	}
}

func New(opt ...Option) kcmd.PfCommand[Flags] {
	c := &Command{
		prompt: prompt.Terminal(os.Stdin, os.Stderr),
		output: os.Stdout,
	}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (cmd *Command) Name() string {
	return "login"
}

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(Flags{}, usage.Args{})
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "log in and store the granted tokens",
		Example: `
	{{ .Command }}
	{{ .Command }} --username alice
`,
		Detail: `
Log in with your account.

Granted tokens are stored in the session directory, and other commands
use (and refresh) them silently until you log in again.
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
	username := flags.Flags.Username
	if username == "" {
		u, err := cmd.prompt("Username", false)
		if err != nil {
			return err
		}
		username = u
	}

	password, err := cmd.prompt("Password", true)
	if err != nil {
		return err
	}

	if _, err := c.Login(ctx, username, password); err != nil {
		return err
	}

	l.Printf("logged in as %s", username)
	return nil
}
