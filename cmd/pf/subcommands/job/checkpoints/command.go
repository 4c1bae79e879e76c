// Package checkpoints implements `pf job checkpoints`.
package checkpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct{}

type Command struct {
	output io.Writer
}

type Option func(*Command) *Command

func WithOutput(w io.Writer) Option {
	return func(c *Command) *Command {
		c.output = w
		return c
	}
}

func New(opt ...Option) kcmd.PfCommand[Flags] {
	c := &Command{output: os.Stdout}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (cmd *Command) Name() string {
	return "checkpoints"
}

const ARG_JOB_ID = "JOB_ID"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_JOB_ID, Required: true,
				Help: `Id of the job to list checkpoints of`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "list checkpoints a job has saved",
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

	checkpoints, err := c.ListJobCheckpoints(ctx, prjId, jobId)
	if err != nil {
		return err
	}

	buf, err := json.MarshalIndent(checkpoints, "", "    ")
	if err != nil {
		return err
	}
	cmd.output.Write(buf)
	io.WriteString(cmd.output, "\n")
	return nil
}
