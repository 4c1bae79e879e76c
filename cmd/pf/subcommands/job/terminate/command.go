package terminate

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/prompt"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct {
	Force bool `flag:"force,help=terminate without a confirmation prompt"`
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
	return "terminate"
}

const ARG_JOB_ID = "JOB_ID"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_JOB_ID, Required: true,
				Help: `Id of the job to terminate`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "stop a running job",
		Detail: `
Stop a running job. Checkpoints it has saved so far are kept.
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
	jobId, err := strconv.ParseInt(flags.Args[ARG_JOB_ID][0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: job id should be a number", kcmd.ErrUsage)
	}

	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	if !flags.Flags.Force {
		ok, err := prompt.Confirm(cmd.prompt, fmt.Sprintf("terminate job %d?", jobId))
		if err != nil {
			return err
		}
		if !ok {
			l.Printf("canceled")
			return nil
		}
	}

	if err := c.TerminateJob(ctx, prjId, jobId); err != nil {
		return err
	}

	l.Printf("job %d is terminating", jobId)
	return nil
}
