package edit

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
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/pointer"
)

type Flags struct {
	NewName      string `flag:"new-name,metavar=NAME,help=new name of the dataset"`
	MetadataFile string `flag:"metadata-file,short=m,metavar=FILE.json,help=JSON file holding new dataset metadata"`
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
	return "edit"
}

const ARG_NAME = "NAME"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the dataset to edit`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "rename a dataset or replace its metadata",
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	s *session.Store,
	c krst.Client,
	flags usage.FlagSet[Flags],
) error {
	update := apidata.Update{}
	if flags.Flags.NewName != "" {
		update.Name = pointer.Ref(flags.Flags.NewName)
	}
	if flags.Flags.MetadataFile != "" {
		buf, err := os.ReadFile(flags.Flags.MetadataFile)
		if err != nil {
			return err
		}
		metadata := map[string]any{}
		if err := json.Unmarshal(buf, &metadata); err != nil {
			return fmt.Errorf("%s is not a JSON object: %w", flags.Flags.MetadataFile, err)
		}
		update.Metadata = &metadata
	}
	if update.Name == nil && update.Metadata == nil {
		return fmt.Errorf("%w: nothing to update. pass --new-name or --metadata-file", kcmd.ErrUsage)
	}

	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	ds, err := resolve.DatasetByName(ctx, c, prjId, flags.Args[ARG_NAME][0])
	if err != nil {
		return err
	}

	ds, err = c.UpdateDataset(ctx, ds.ID, update)
	if err != nil {
		return err
	}

	buf, err := json.MarshalIndent(ds, "", "    ")
	if err != nil {
		return err
	}
	cmd.output.Write(buf)
	io.WriteString(cmd.output, "\n")
	return nil
}
