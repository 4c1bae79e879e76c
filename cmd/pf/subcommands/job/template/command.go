package template

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
	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/jobconfig"
	"github.com/periflow/cli/pkg/utils"
)

type Flags struct {
	List bool `flag:"list,help=list predefined templates the platform offers"`

	Predefined   bool   `flag:"predefined,help=generate a configuration for a predefined template"`
	TemplateName string `flag:"template-name,metavar=NAME,help=predefined template to generate a configuration for"`

	PrivateImage     bool `flag:"private-image,help=include a credential for a private docker image"`
	Data             bool `flag:"data,help=include a dataset section"`
	InputCheckpoint  bool `flag:"input-checkpoint,help=include an input checkpoint section"`
	OutputCheckpoint bool `flag:"output-checkpoint,help=include an output checkpoint section"`
	Dist             bool `flag:"dist,help=include a distributed training section"`
	Wandb            bool `flag:"wandb,help=include a Weights & Biases plugin section"`
	Slack            bool `flag:"slack,help=include a Slack notification plugin section"`
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
	return "template"
}

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(Flags{}, usage.Args{})
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "generate a job configuration file to start from",
		Example: `
To generate a configuration for your own training code:

	{{ .Command }} --data --dist > job.yaml

To see predefined templates and generate a configuration for one:

	{{ .Command }} --list
	{{ .Command }} --predefined --template-name gpt-3-13b > job.yaml
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
	if flags.Flags.List {
		templates, err := c.ListJobTemplates(ctx)
		if err != nil {
			return err
		}
		buf, err := json.MarshalIndent(templates, "", "    ")
		if err != nil {
			return err
		}
		cmd.output.Write(buf)
		io.WriteString(cmd.output, "\n")
		return nil
	}

	if !flags.Flags.Predefined {
		buf, err := jobconfig.CustomTemplate(jobconfig.CustomTemplateOption{
			PrivateImage:     flags.Flags.PrivateImage,
			Workspace:        true,
			Data:             flags.Flags.Data,
			InputCheckpoint:  flags.Flags.InputCheckpoint,
			OutputCheckpoint: flags.Flags.OutputCheckpoint,
			Dist:             flags.Flags.Dist,
			Wandb:            flags.Flags.Wandb,
			Slack:            flags.Flags.Slack,
		})
		if err != nil {
			return err
		}
		cmd.output.Write(buf)
		return nil
	}

	if flags.Flags.TemplateName == "" {
		return fmt.Errorf("%w: --template-name is required with --predefined", kcmd.ErrUsage)
	}
	templates, err := c.ListJobTemplates(ctx)
	if err != nil {
		return err
	}
	tpl, ok := utils.First(templates, func(t apijobs.Template) bool {
		return t.Name == flags.Flags.TemplateName
	})
	if !ok {
		return fmt.Errorf(
			"template (%s) is not found. see `pf job template --list`",
			flags.Flags.TemplateName,
		)
	}

	buf, err := jobconfig.PredefinedTemplate(jobconfig.PredefinedTemplateOption{
		TemplateID:      tpl.ID.String(),
		ModelConfig:     tpl.DataExample,
		Data:            flags.Flags.Data,
		InputCheckpoint: flags.Flags.InputCheckpoint,
		Wandb:           flags.Flags.Wandb,
		Slack:           flags.Flags.Slack,
	})
	if err != nil {
		return err
	}
	cmd.output.Write(buf)
	return nil
}
