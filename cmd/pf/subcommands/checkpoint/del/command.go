// Package del implements `pf checkpoint delete`.
package del

import (
	"context"
	"fmt"
	"log"
	"os"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/prompt"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
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

const ARG_NAME = "NAME"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the checkpoint to delete`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "delete a checkpoint",
		Detail: `
Delete a checkpoint. It can be brought back with "checkpoint restore"
until the platform garbage-collects it.
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

	ckpt, err := resolve.CheckpointByName(ctx, c, orgId, prjId, flags.Args[ARG_NAME][0])
	if err != nil {
		return err
	}

	if !flags.Flags.Force {
		ok, err := prompt.Confirm(cmd.prompt, fmt.Sprintf("delete checkpoint %s?", ckpt.Name))
		if err != nil {
			return err
		}
		if !ok {
			l.Printf("canceled")
			return nil
		}
	}

	if err := c.DeleteCheckpoint(ctx, ckpt.ID); err != nil {
		return err
	}

	l.Printf("checkpoint %s is deleted", ckpt.Name)
	return nil
}
