package create

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
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct {
	ValueFile   string `flag:"value-file,short=f,metavar=FILE.json,help=JSON file holding the credential value"`
	TypeVersion int    `flag:"type-version,metavar=N,help=schema version of the credential value"`
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
	return "create"
}

const (
	ARG_TYPE = "TYPE"
	ARG_NAME = "NAME"
)

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{TypeVersion: 1},
		usage.Args{
			{
				Name: ARG_TYPE, Required: true,
				Help: `Credential type: docker, s3, azure-blob, gcs, wandb or slack`,
			},
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the new credential`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "store a new credential in the working project",
		Example: `
To register an S3 credential:

	{{ .Command }} s3 my-bucket-reader -f ./aws.json

where aws.json looks like:

	{
	    "aws_access_key_id": "...",
	    "aws_secret_access_key": "...",
	    "aws_default_region": "us-east-1"
	}
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
	credType := apicred.Type(flags.Args[ARG_TYPE][0])
	serverName, err := credType.ServerName()
	if err != nil {
		return fmt.Errorf("%w: %s", kcmd.ErrUsage, err)
	}

	if flags.Flags.ValueFile == "" {
		return fmt.Errorf("%w: --value-file is required", kcmd.ErrUsage)
	}
	buf, err := os.ReadFile(flags.Flags.ValueFile)
	if err != nil {
		return err
	}
	value := map[string]any{}
	if err := json.Unmarshal(buf, &value); err != nil {
		return fmt.Errorf("%s is not a JSON object: %w", flags.Flags.ValueFile, err)
	}

	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	cred, err := c.CreateCredential(ctx, prjId, apicred.Spec{
		Type:        serverName,
		Name:        flags.Args[ARG_NAME][0],
		TypeVersion: flags.Flags.TypeVersion,
		Value:       value,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(cred, "", "    ")
	if err != nil {
		return err
	}
	cmd.output.Write(out)
	io.WriteString(cmd.output, "\n")
	return nil
}
