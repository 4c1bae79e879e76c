// Package del implements `pf credential delete`.
package del

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/prompt"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct {
	Force bool `flag:"force,help=delete without a confirmation prompt"`
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
	c := &Command{prompt: prompt.Terminal(os.Stdin, os.Stderr)}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (cmd *Command) Name() string {
	return "delete"
}

const ARG_ID = "CREDENTIAL_ID"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_ID, Required: true,
				Help: `Id of the credential to delete`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "delete a credential",
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	s *session.Store,
	c krst.Client,
	flags usage.FlagSet[Flags],
) error {
	credId, err := uuid.Parse(flags.Args[ARG_ID][0])
	if err != nil {
		return fmt.Errorf("%w: credential id should be a UUID", kcmd.ErrUsage)
	}

	if !flags.Flags.Force {
		ok, err := prompt.Confirm(cmd.prompt, fmt.Sprintf("delete credential %s?", credId))
		if err != nil {
			return err
		}
		if !ok {
			l.Printf("canceled")
			return nil
		}
	}

	if err := c.DeleteCredential(ctx, credId); err != nil {
		return err
	}

	l.Printf("credential %s is deleted", credId)
	return nil
}
