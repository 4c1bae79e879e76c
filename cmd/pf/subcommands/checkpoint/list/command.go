package list

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct {
	Category string `flag:"category,metavar=user_provided|job_generated,help=show checkpoints of this category only"`
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
	return "list"
}

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(Flags{}, usage.Args{})
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "list checkpoints in the working project",
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	s *session.Store,
	c krst.Client,
	flags usage.FlagSet[Flags],
) error {
	category := flags.Flags.Category
	if category != "" &&
		category != apickpt.CategoryUserProvided &&
		category != apickpt.CategoryJobGenerated {
		return fmt.Errorf(
			"%w: category should be %s or %s",
			kcmd.ErrUsage, apickpt.CategoryUserProvided, apickpt.CategoryJobGenerated,
		)
	}

	orgId, err := resolve.WorkingOrganization(s)
	if err != nil {
		return err
	}
	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	checkpoints, err := c.ListCheckpoints(ctx, orgId, prjId, category)
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
