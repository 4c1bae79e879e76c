package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/pointer"
)

type Flags struct {
	Name      string `flag:"name,metavar=NAME,help=new name of the credential"`
	ValueFile string `flag:"value-file,short=f,metavar=FILE.json,help=JSON file holding the new credential value"`
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
	return "update"
}

const ARG_ID = "CREDENTIAL_ID"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_ID, Required: true,
				Help: `Id of the credential to update`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "update a credential's name or value",
		Example: `
	{{ .Command }} 11111111-2222-3333-4444-555555555555 -f ./new-value.json
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
	credId, err := uuid.Parse(flags.Args[ARG_ID][0])
	if err != nil {
		return fmt.Errorf("%w: credential id should be a UUID", kcmd.ErrUsage)
	}

	update := apicred.Update{}
	if flags.Flags.Name != "" {
		update.Name = pointer.Ref(flags.Flags.Name)
	}
	if flags.Flags.ValueFile != "" {
		buf, err := os.ReadFile(flags.Flags.ValueFile)
		if err != nil {
			return err
		}
		value := map[string]any{}
		if err := json.Unmarshal(buf, &value); err != nil {
			return fmt.Errorf("%s is not a JSON object: %w", flags.Flags.ValueFile, err)
		}
		update.Value = &value
	}
	if update.Name == nil && update.Value == nil {
		return fmt.Errorf("%w: nothing to update. pass --name or --value-file", kcmd.ErrUsage)
	}

	cred, err := c.UpdateCredential(ctx, credId, update)
	if err != nil {
		return err
	}

	buf, err := json.MarshalIndent(cred, "", "    ")
	if err != nil {
		return err
	}
	cmd.output.Write(buf)
	io.WriteString(cmd.output, "\n")
	return nil
}
