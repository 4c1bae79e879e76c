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
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct {
	Type string `flag:"type,short=t,metavar=TYPE,help=show credentials of this type only"`
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
		Synopsis: "list credentials in the working project",
		Example: `
	{{ .Command }} --type s3
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
	credType := apicred.Type(flags.Flags.Type)
	if credType != "" {
		if _, err := credType.ServerName(); err != nil {
			return fmt.Errorf("%w: %s", kcmd.ErrUsage, err)
		}
	}

	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	creds, err := c.ListCredentials(ctx, prjId, credType)
	if err != nil {
		return err
	}

	buf, err := json.MarshalIndent(creds, "", "    ")
	if err != nil {
		return err
	}
	cmd.output.Write(buf)
	io.WriteString(cmd.output, "\n")
	return nil
}
