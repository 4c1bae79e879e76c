// Package initialize implements `pf init`, which registers server
// endpoints as a named profile.
//
// It is not built on PfCommand because it must run before any
// profile exists.
package initialize

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/config/profiles"
	"github.com/periflow/cli/pkg/commandline/flag/flagger"
)

type Flags struct {
	ApiRoot  string `flag:"api-root,metavar=URL,help=endpoint of the training API server"`
	AuthRoot string `flag:"auth-root,metavar=URL,help=endpoint of the auth server"`
	WsRoot   string `flag:"ws-root,metavar=URL,help=endpoint of the websocket server for log streaming"`
	CaCert   string `flag:"ca-cert,metavar=PATH,help=PEM file of a private CA certificate for the servers"`
}

type Command struct {
	flags        *flagger.Flagger[Flags]
	profile      string
	profileStore string
}

func New(commonFlags kcmd.CommonFlags) *Command {
	return &Command{
		flags:        flagger.New(Flags{}),
		profile:      commonFlags.Profile,
		profileStore: commonFlags.ProfileStore,
	}
}

func (cmd *Command) Name() string {
	return "init"
}

func (cmd *Command) Synopsis() string {
	return "register server endpoints as a profile"
}

func (cmd *Command) Usage() string {
	return `Usage: pf init --api-root URL --auth-root URL [--ws-root URL] [--ca-cert PATH]

  Register server endpoints as a profile, to be used by other commands.

  The profile is written into the profile store file. Re-running with
  the same profile name overwrites the stored endpoints.

Flags:

`
}

func (cmd *Command) SetFlags(f *flag.FlagSet) {
	cmd.flags.SetFlags(f)
	f.StringVar(&cmd.profile, "profile", cmd.profile, "profile name to register")
	f.StringVar(&cmd.profileStore, "profile-store", cmd.profileStore, "path to profile store file")
}

func (cmd *Command) Execute(
	ctx context.Context,
	f *flag.FlagSet,
	args ...interface{},
) subcommands.ExitStatus {
	logger := log.Default()
	for _, arg := range args {
		if l, ok := arg.(*log.Logger); ok {
			logger = l
			break
		}
	}

	if err := cmd.run(logger); err != nil {
		logger.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (cmd *Command) run(logger *log.Logger) error {
	values := cmd.flags.Values
	if values.ApiRoot == "" || values.AuthRoot == "" {
		return fmt.Errorf("both --api-root and --auth-root are required")
	}

	prof := &profiles.Profile{
		ApiRoot:  values.ApiRoot,
		AuthRoot: values.AuthRoot,
		WsRoot:   values.WsRoot,
	}
	if values.CaCert != "" {
		pem, err := os.ReadFile(values.CaCert)
		if err != nil {
			return err
		}
		prof.Cert.CA = base64.StdEncoding.EncodeToString(pem)
	}
	if err := prof.Verify(); err != nil {
		return err
	}

	store, err := profiles.LoadProfileStore(cmd.profileStore)
	if err != nil {
		if !errors.Is(err, profiles.ErrProfileStoreNotFound) {
			return err
		}
		store = profiles.ProfileStore{}
	}

	store[cmd.profile] = prof
	if err := store.Save(cmd.profileStore); err != nil {
		return err
	}

	logger.Printf("profile %s is stored in %s", cmd.profile, cmd.profileStore)
	return nil
}
