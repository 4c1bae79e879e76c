package run

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
	"github.com/periflow/cli/cmd/pf/subcommands/internal/resolve"
	apivms "github.com/periflow/cli/pkg/api/types/vms"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/jobconfig"
	"github.com/periflow/cli/pkg/utils"
)

type Flags struct {
	Config     string `flag:"config,short=f,metavar=FILE.yaml,help=job configuration file"`
	Workspace  string `flag:"workspace,short=w,metavar=DIR,help=directory sent to the job as its workspace"`
	Name       string `flag:"name,metavar=NAME,help=override the job name in the configuration"`
	VM         string `flag:"vm,metavar=TYPE,help=override the VM type in the configuration"`
	NumDevices int    `flag:"num-devices,metavar=N,help=override the device count in the configuration"`
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
	return "run"
}

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(Flags{}, usage.Args{})
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "submit a training job to the working project",
		Example: `
	{{ .Command }} -f ./job.yaml -w ./my-training-code

Generate a configuration file to start from with "job template".
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
	if flags.Flags.Config == "" {
		return fmt.Errorf("%w: --config is required", kcmd.ErrUsage)
	}

	fp, err := os.Open(flags.Flags.Config)
	if err != nil {
		return err
	}
	conf, err := jobconfig.Load(fp)
	fp.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", flags.Flags.Config, err)
	}

	// flag overrides. RequestBody re-verifies, so a --vm override on a
	// predefined job is still rejected.
	if flags.Flags.Name != "" {
		conf.Name = flags.Flags.Name
	}
	if flags.Flags.VM != "" {
		conf.VM = flags.Flags.VM
	}
	if flags.Flags.NumDevices > 0 {
		conf.NumDevices = flags.Flags.NumDevices
	}

	orgId, err := resolve.WorkingOrganization(s)
	if err != nil {
		return err
	}
	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	body, err := conf.RequestBody(ctx, &clientResolver{
		client: c,
		orgId:  orgId,
		prjId:  prjId,
	})
	if err != nil {
		return err
	}

	if flags.Flags.Workspace != "" {
		l.Printf("packing workspace %s...", flags.Flags.Workspace)
	}
	job, err := c.RunJob(ctx, prjId, body, flags.Flags.Workspace)
	if err != nil {
		return err
	}

	l.Printf("job %d is submitted. follow it with `pf job logs %d --follow`", job.ID, job.ID)

	buf, err := json.MarshalIndent(job, "", "    ")
	if err != nil {
		return err
	}
	cmd.output.Write(buf)
	io.WriteString(cmd.output, "\n")
	return nil
}

// clientResolver resolves names in a job configuration against the server.
type clientResolver struct {
	client krst.Client
	orgId  uuid.UUID
	prjId  uuid.UUID
}

func (r *clientResolver) VMConfigID(ctx context.Context, vmName string) (int, error) {
	configs, err := r.client.ListVMConfigs(ctx, r.orgId)
	if err != nil {
		return 0, err
	}
	conf, ok := utils.First(configs, func(c apivms.VMConfig) bool {
		return c.VMConfigType.VMInstanceType.Code == vmName
	})
	if !ok {
		return 0, fmt.Errorf("VM type (%s) is not available to the organization", vmName)
	}
	return conf.ID, nil
}

func (r *clientResolver) DatasetID(ctx context.Context, name string) (int, error) {
	ds, err := resolve.DatasetByName(ctx, r.client, r.prjId, name)
	if err != nil {
		return 0, err
	}
	return ds.ID, nil
}
