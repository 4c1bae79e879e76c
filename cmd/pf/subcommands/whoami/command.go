package whoami

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/session"
	krst "github.com/periflow/cli/cmd/pf/rest"
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
	return "whoami"
}

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(Flags{}, usage.Args{})
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "show the current user and working context",
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	s *session.Store,
	c krst.Client,
	flags usage.FlagSet[Flags],
) error {
	me, err := c.CurrentUser(ctx)
	if err != nil {
		return err
	}

	view := struct {
		ID           uuid.UUID `json:"id"`
		Username     string    `json:"username"`
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		Organization string    `json:"organization,omitempty"`
		Project      string    `json:"project,omitempty"`
	}{
		ID:       me.ID,
		Username: me.Username,
		Name:     me.Name,
		Email:    me.Email,
	}

	if orgId, err := s.OrganizationID(); err == nil {
		view.Organization = orgId.String()
	} else if !errors.Is(err, session.ErrNotSet) {
		return err
	}
	if prjId, err := s.ProjectID(); err == nil {
		view.Project = prjId.String()
	} else if !errors.Is(err, session.ErrNotSet) {
		return err
	}

	buf, err := json.MarshalIndent(view, "", "    ")
	if err != nil {
		return err
	}
	cmd.output.Write(buf)
	io.WriteString(cmd.output, "\n")
	return nil
}
