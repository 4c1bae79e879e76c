package view

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"

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
	return "view"
}

const ARG_NAME = "NAME"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the checkpoint to show`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "show a checkpoint, including its forms and files",
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

	// the listing endpoint omits forms. fetch the full record.
	ckpt, err = c.GetCheckpoint(ctx, ckpt.ID)
	if err != nil {
		return err
	}

	buf, err := json.MarshalIndent(ckpt, "", "    ")
	if err != nil {
		return err
	}
	cmd.output.Write(buf)
	io.WriteString(cmd.output, "\n")
	return nil
}
