package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/transfer"
	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils"
)

type Flags struct {
	Form string `flag:"form,metavar=orig|megatron|hf,help=model form to download"`
	Dest string `flag:"dest,short=d,metavar=DIR,help=directory to download into"`
}

type Command struct {
	progressOut io.Writer
}

type Option func(*Command) *Command

func WithProgressOutput(w io.Writer) Option {
	return func(c *Command) *Command {
		c.progressOut = w
		return c
	}
}

func New(opt ...Option) kcmd.PfCommand[Flags] {
	c := &Command{progressOut: os.Stderr}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (cmd *Command) Name() string {
	return "download"
}

const ARG_NAME = "NAME"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{Form: apickpt.FormOrig, Dest: "."},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the checkpoint to download`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "download checkpoint files to this machine",
		Example: `
	{{ .Command }} gpt-13b-step-10000 -d ./checkpoints
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
	ckpt, err = c.GetCheckpoint(ctx, ckpt.ID)
	if err != nil {
		return err
	}
	form, ok := utils.First(ckpt.Forms, func(f apickpt.Form) bool {
		return f.FormCategory == flags.Flags.Form
	})
	if !ok {
		return fmt.Errorf(
			"checkpoint %s has no %s form", ckpt.Name, flags.Flags.Form,
		)
	}

	files, err := c.GetCheckpointDownloadURLs(ctx, form.ID)
	if err != nil {
		return err
	}

	l.Printf("downloading %d files into %s...", len(files), flags.Flags.Dest)
	prog := c.DownloadFiles(ctx, files, flags.Flags.Dest)
	if _, err := transfer.Watch(l, cmd.progressOut, prog); err != nil {
		return err
	}

	l.Printf("checkpoint %s is downloaded", ckpt.Name)
	return nil
}
