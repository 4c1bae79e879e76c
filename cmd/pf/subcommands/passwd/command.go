package passwd

import (
	"context"
	"fmt"
	"log"
	"os"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/prompt"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct{}

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
	return "passwd"
}

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(Flags{}, usage.Args{})
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "change the password of the current user",
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	_ *session.Store,
	c krst.Client,
	flags usage.FlagSet[Flags],
) error {
	oldPassword, err := cmd.prompt("Current password", true)
	if err != nil {
		return err
	}
	newPassword, err := cmd.prompt("New password", true)
	if err != nil {
		return err
	}
	again, err := cmd.prompt("New password (again)", true)
	if err != nil {
		return err
	}
	if newPassword != again {
		return fmt.Errorf("%w: passwords do not match", kcmd.ErrUsage)
	}

	if err := c.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}

	l.Println("password changed")
	return nil
}
