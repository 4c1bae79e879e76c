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
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	apistorage "github.com/periflow/cli/pkg/api/types/storage"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/pointer"
)

type Flags struct {
	Expand bool `flag:"expand,help=upload the contents of SOURCE directory without the directory name prefix"`
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
		Flags{},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the dataset to upload into`,
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
		Synopsis: "upload files into a platform-managed dataset",
		Example: `
To upload ./corpus as a directory named "corpus" in the dataset:

	{{ .Command }} my-corpus ./corpus

To upload the files inside ./corpus at the dataset root:

	{{ .Command }} my-corpus ./corpus --expand
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
	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	ds, err := resolve.DatasetByName(ctx, c, prjId, flags.Args[ARG_NAME][0])
	if err != nil {
		return err
	}
	if t, err := ds.StorageType(); err != nil {
		return err
	} else if t != apistorage.TypeFAI {
		return fmt.Errorf(
			"%w: dataset %s lives in your own %s storage. upload files there directly",
			kcmd.ErrUsage, ds.Name, t,
		)
	}

	source := flags.Args[ARG_SOURCE][0]
	l.Printf("sending %s...", source)
	prog := c.UploadDatasetFiles(ctx, ds.ID, source, flags.Flags.Expand)
	files, err := transfer.Watch(l, cmd.progressOut, prog)
	if err != nil {
		return err
	}

	// merge with files uploaded before, path being the identity
	known := map[string]apistorage.FileInfo{}
	for _, f := range ds.Files {
		known[f.Path] = f
	}
	for _, f := range files {
		known[f.Path] = f
	}
	inventory := make([]apistorage.FileInfo, 0, len(known))
	for _, f := range known {
		inventory = append(inventory, f)
	}

	if _, err := c.UpdateDataset(ctx, ds.ID, apidata.Update{
		Files:  &inventory,
		Active: pointer.Ref(true),
	}); err != nil {
		return err
	}

	l.Printf("%d files are uploaded to %s", len(files), ds.Name)
	return nil
}
