package upload

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
	Form   string `flag:"form,metavar=orig|megatron|hf,help=model form to upload files into"`
	Expand bool   `flag:"expand,help=upload the contents of SOURCE directory without the directory name prefix"`
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
	return "upload"
}

const (
	ARG_NAME   = "NAME"
	ARG_SOURCE = "SOURCE"
)

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{Form: apickpt.FormOrig},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the checkpoint to upload into`,
			},
			{
				Name: ARG_SOURCE, Required: true,
				Help: `File or directory to upload`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "upload checkpoint files from this machine",
		Example: `
	{{ .Command }} gpt-13b-step-10000 ./checkpoints/step-10000 --expand
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

	source := flags.Args[ARG_SOURCE][0]
	l.Printf("sending %s...", source)
	prog := c.UploadCheckpointFiles(ctx, form.ID, source, flags.Flags.Expand)
	files, err := transfer.Watch(l, cmd.progressOut, prog)
	if err != nil {
		return err
	}

	// merge with files uploaded before, path being the identity
	known := map[string]apickpt.File{}
	for _, f := range form.Files {
		known[f.Path] = f
	}
	for _, f := range files {
		known[f.Path] = apickpt.File{
			Name:  f.Name,
			Path:  f.Path,
			MTime: f.MTime,
			Size:  f.Size,
		}
	}
	inventory := make([]apickpt.File, 0, len(known))
	for _, f := range known {
		inventory = append(inventory, f)
	}

	if _, err := c.UpdateCheckpointFiles(ctx, form.ID, inventory); err != nil {
		return err
	}

	l.Printf("%d files are uploaded to %s", len(files), ckpt.Name)
	return nil
}
