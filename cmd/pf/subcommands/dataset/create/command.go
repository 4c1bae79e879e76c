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
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	apistorage "github.com/periflow/cli/pkg/api/types/storage"
	"github.com/periflow/cli/pkg/cloud"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils"
)

type Flags struct {
	StorageType  string `flag:"storage-type,short=t,metavar=TYPE,help=storage vendor: fai (platform-managed) or s3 or azure-blob or gcs"`
	Region       string `flag:"region,metavar=REGION,help=region of the storage (external storage only)"`
	StorageName  string `flag:"storage-name,metavar=NAME,help=bucket or container name (external storage only)"`
	CredentialID string `flag:"credential-id,metavar=UUID,help=credential to read the storage with (external storage only)"`
	MetadataFile string `flag:"metadata-file,short=m,metavar=FILE.json,help=JSON file holding dataset metadata"`
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
		Flags{StorageType: string(apistorage.TypeFAI)},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `Name of the new dataset`,
			},
		},
	)
}

func (*Command) Help() kcmd.Help {
	return kcmd.Help{
		Synopsis: "register a dataset to the working project",
		Detail: `
Register a dataset, in one of two ways.

With the default storage type "fai", an empty platform-managed
dataset is created. Put files into it with "dataset upload".

With an external storage type (s3, azure-blob or gcs), the files
already in your bucket or container are inventoried with the
credential you name, and the dataset is activated at once.
`,
		Example: `
To create a platform-managed dataset:

	{{ .Command }} my-corpus

To register an S3 bucket as a dataset:

	{{ .Command }} my-corpus \
		--storage-type s3 \
		--region us-east-1 \
		--storage-name my-bucket \
		--credential-id 11111111-2222-3333-4444-555555555555
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
	vendor, err := storageType.VendorName()
	if err != nil {
		return fmt.Errorf("%w: %s", kcmd.ErrUsage, err)
	}

	metadata := map[string]any{}
	if flags.Flags.MetadataFile != "" {
		buf, err := os.ReadFile(flags.Flags.MetadataFile)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(buf, &metadata); err != nil {
			return fmt.Errorf("%s is not a JSON object: %w", flags.Flags.MetadataFile, err)
		}
	}

	prjId, err := resolve.WorkingProject(s)
	if err != nil {
		return err
	}

	name := flags.Args[ARG_NAME][0]
	existing, err := c.ListDatasets(ctx, prjId)
	if err != nil {
		return err
	}
	if _, dup := utils.First(existing, func(d apidata.Dataset) bool { return d.Name == name }); dup {
		return fmt.Errorf("dataset %s already exists in the project", name)
	}

	spec := apidata.Spec{
		Name:     name,
		Vendor:   vendor,
		Metadata: metadata,
		Files:    []apistorage.FileInfo{},
	}

	if storageType == apistorage.TypeFAI {
		if flags.Flags.Region != "" || flags.Flags.StorageName != "" || flags.Flags.CredentialID != "" {
			return fmt.Errorf(
				"%w: --region, --storage-name and --credential-id are for external storages",
				kcmd.ErrUsage,
			)
		}
		// activated later, when files are uploaded
		spec.Active = false
	} else {
		if flags.Flags.StorageName == "" || flags.Flags.CredentialID == "" {
			return fmt.Errorf(
				"%w: --storage-name and --credential-id are required for %s",
				kcmd.ErrUsage, storageType,
			)
		}
		if err := apistorage.ValidateRegion(storageType, flags.Flags.Region); err != nil {
			return fmt.Errorf("%w: %s", kcmd.ErrUsage, err)
		}
		credId, err := uuid.Parse(flags.Flags.CredentialID)
		if err != nil {
			return fmt.Errorf("%w: credential id should be a UUID", kcmd.ErrUsage)
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

		spec.Region = flags.Flags.Region
		spec.StorageName = flags.Flags.StorageName
		spec.CredentialID = &credId
		spec.Files = files
		spec.Active = true
	}

	ds, err := c.CreateDataset(ctx, prjId, spec)
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
