package logs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	kflag "github.com/periflow/cli/pkg/commandline/flag"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils"
)

type Flags struct {
	Follow    bool           `flag:"follow,help=keep printing records as the job emits them"`
	Limit     int            `flag:"limit,metavar=N,help=fetch at most N records"`
	Ascending bool           `flag:"ascending,help=print records from the oldest"`
	LogTypes  kflag.Argslice `flag:"log-type,metavar=stdout|stderr|vmlog,help=record types to print. repeatable"`
	NodeRanks kflag.IntSlice `flag:"node-rank,metavar=RANK,help=print records of these node ranks only. repeatable"`
	Content   string         `flag:"content,metavar=TEXT,help=print records containing TEXT only"`
}

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
	return "logs"
}

const ARG_JOB_ID = "JOB_ID"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_JOB_ID, Required: true,
				Help: `Id of the job to read logs of`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "print log records of a job",
		Example: `
To print the last records once:

	{{ .Command }} 42

To stream records of a running job until interrupted:

	{{ .Command }} 42 --follow --log-type stderr
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

	logTypes := []apijobs.LogType{}
	for _, t := range flags.Flags.LogTypes {
		lt := apijobs.LogType(t)
		if _, ok := utils.First(apijobs.LogTypes(), func(k apijobs.LogType) bool { return k == lt }); !ok {
			return fmt.Errorf(
				"%w: unknown log type %s. choose from stdout, stderr or vmlog", kcmd.ErrUsage, t,
			)
		}
		logTypes = append(logTypes, lt)
	}

	sel := krst.LogSelector{
		Limit:     flags.Flags.Limit,
		Ascending: flags.Flags.Ascending,
		LogTypes:  logTypes,
		NodeRanks: flags.Flags.NodeRanks,
		Content:   flags.Flags.Content,
	}

	if !flags.Flags.Follow {
		prjId, err := resolve.WorkingProject(s)
		if err != nil {
			return err
		}
		records, err := c.GetTextLogs(ctx, prjId, jobId, sel)
		if err != nil {
			return err
		}
		for _, r := range records {
			cmd.printRecord(r)
		}
		return nil
	}

	stream, err := c.FollowLogs(ctx, jobId, sel)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		record, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		cmd.printRecord(record)
	}
}

func (cmd *Command) printRecord(r apijobs.TextLog) {
	fmt.Fprintf(
		cmd.output, "[%s] [%s] [node %d] %s\n",
		r.Timestamp.String(), r.Type, r.NodeRank, r.Content,
	)
}
