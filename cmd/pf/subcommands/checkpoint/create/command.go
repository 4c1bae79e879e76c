package create

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
	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	apistorage "github.com/periflow/cli/pkg/api/types/storage"
	"github.com/periflow/cli/pkg/cloud"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type Flags struct {
	StorageType  string `flag:"storage-type,short=t,metavar=TYPE,help=storage vendor holding the checkpoint: s3 or azure-blob or gcs"`
	Region       string `flag:"region,metavar=REGION,help=region of the storage"`
	StorageName  string `flag:"storage-name,metavar=NAME,help=bucket or container name"`
	CredentialID string `flag:"credential-id,metavar=UUID,help=credential to read the storage with"`
	Iteration    int64  `flag:"iteration,metavar=N,help=training iteration the checkpoint was saved at"`
	DistFile     string `flag:"dist-file,metavar=FILE.json,help=JSON file describing the parallelism the checkpoint was trained with"`
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

const ARG_NAME = "NAME"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the new checkpoint`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "register a checkpoint stored in your own cloud storage",
		Example: `
	{{ .Command }} gpt-13b-step-10000 \
		--storage-type s3 \
		--region us-east-1 \
		--storage-name my-checkpoints \
		--credential-id 11111111-2222-3333-4444-555555555555 \
		--iteration 10000
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
	storageType := apistorage.Type(flags.Flags.StorageType)
	if storageType == apistorage.TypeFAI || flags.Flags.StorageType == "" {
		return fmt.Errorf(
			"%w: --storage-type should be s3, azure-blob or gcs", kcmd.ErrUsage,
		)
	}
	vendor, err := storageType.VendorName()
	if err != nil {
		return fmt.Errorf("%w: %s", kcmd.ErrUsage, err)
	}
	if flags.Flags.StorageName == "" || flags.Flags.CredentialID == "" {
		return fmt.Errorf(
			"%w: --storage-name and --credential-id are required", kcmd.ErrUsage,
		)
	}
	if err := apistorage.ValidateRegion(storageType, flags.Flags.Region); err != nil {
		return fmt.Errorf("%w: %s", kcmd.ErrUsage, err)
	}
	credId, err := uuid.Parse(flags.Flags.CredentialID)
	if err != nil {
		return fmt.Errorf("%w: credential id should be a UUID", kcmd.ErrUsage)
	}

	dist := map[string]any{}
	if flags.Flags.DistFile != "" {
		buf, err := os.ReadFile(flags.Flags.DistFile)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(buf, &dist); err != nil {
			return fmt.Errorf("%s is not a JSON object: %w", flags.Flags.DistFile, err)
		}
	}

	orgId, err := resolve.WorkingOrganization(s)
	if err != nil {
		return err
	}
	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}
	me, err := c.CurrentUser(ctx)
	if err != nil {
		return err
	}

	cred, err := c.GetCredential(ctx, credId)
	if err != nil {
		return err
	}
	credType, err := apicred.TypeOfServerName(cred.Type)
	if err != nil {
		return err
	}
	if string(credType) != string(storageType) {
		return fmt.Errorf(
			"credential %s is a %s credential, not for %s storage",
			cred.Name, credType, storageType,
		)
	}
	lister, err := cloud.ForVendor(ctx, storageType, cred.Value)
	if err != nil {
		return err
	}
	l.Printf("inspecting files in %s...", flags.Flags.StorageName)
	files, err := lister.ListFiles(ctx, flags.Flags.StorageName, "")
	if err != nil {
		return err
	}

	ckptFiles := make([]apickpt.File, 0, len(files))
	for _, f := range files {
		ckptFiles = append(ckptFiles, apickpt.File{
			Name:  f.Name,
			Path:  f.Path,
			MTime: f.MTime,
			Size:  f.Size,
		})
	}

	ckpt, err := c.CreateCheckpoint(ctx, orgId, prjId, apickpt.Spec{
		JobID: nil,
		Name:  flags.Args[ARG_NAME][0],
		Attributes: apickpt.Attributes{
			DataJSON:       map[string]any{},
			JobSettingJSON: map[string]any{},
		},
		UserID:       me.ID.String(),
		CredentialID: &credId,
		FormCategory: apickpt.FormOrig,
		DistJSON:     dist,
		Vendor:       vendor,
		Region:       flags.Flags.Region,
		StorageName:  flags.Flags.StorageName,
		Iteration:    flags.Flags.Iteration,
		Files:        ckptFiles,
	})
	if err != nil {
		return err
	}

	buf, err := json.MarshalIndent(ckpt, "", "    ")
	if err != nil {
		return err
	}
	cmd.output.Write(buf)
	io.WriteString(cmd.output, "\n")
	return nil
}
