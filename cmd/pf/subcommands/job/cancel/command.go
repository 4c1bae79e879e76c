package cancel

import (
	"context"
	"fmt"
	"log"
	"strconv"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct{}

type Command struct{}

func New() kcmd.PfCommand[Flags] {
	return &Command{}
}

func (cmd *Command) Name() string {
	return "cancel"
}

const ARG_JOB_ID = "JOB_ID"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_JOB_ID, Required: true,
				Help: `Id of the job to cancel`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "cancel a waiting or enqueued job",
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

	if err := c.CancelJob(ctx, prjId, jobId); err != nil {
		return err
	}

	l.Printf("job %d is cancelled", jobId)
	return nil
}
