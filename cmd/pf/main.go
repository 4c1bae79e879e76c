package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"

	kcmd "github.com/periflow/cli/cmd/pf/commandline/command"
	"github.com/periflow/cli/cmd/pf/subcommands/checkpoint"
	"github.com/periflow/cli/cmd/pf/subcommands/credential"
	"github.com/periflow/cli/cmd/pf/subcommands/dataset"
	"github.com/periflow/cli/cmd/pf/subcommands/initialize"
	"github.com/periflow/cli/cmd/pf/subcommands/job"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	"github.com/periflow/cli/cmd/pf/subcommands/login"
	"github.com/periflow/cli/cmd/pf/subcommands/org"
	"github.com/periflow/cli/cmd/pf/subcommands/passwd"
	"github.com/periflow/cli/cmd/pf/subcommands/project"
	"github.com/periflow/cli/cmd/pf/subcommands/signup"
	"github.com/periflow/cli/cmd/pf/subcommands/verify"
	"github.com/periflow/cli/cmd/pf/subcommands/version"
	"github.com/periflow/cli/cmd/pf/subcommands/vm"
	"github.com/periflow/cli/cmd/pf/subcommands/whoami"
	"github.com/periflow/cli/pkg/utils/try"
)

func main() {
	name := path.Base(os.Args[0])
	l := logger.Default()
	l.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(kcmd.DefaultCommonFlags(".")).OrFatal(l)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(subcommands.HelpCommand(), "help")
	commander.Register(subcommands.FlagsCommand(), "help")
	commander.Register(subcommands.CommandsCommand(), "help")

	commander.Register(initialize.New(cf), "setup")
	commander.Register(version.New(), "setup")

	commander.Register(kcmd.Build(signup.New(), cf), "account")
	commander.Register(kcmd.Build(verify.New(), cf), "account")
	commander.Register(kcmd.Build(login.New(), cf), "account")
	commander.Register(kcmd.Build(whoami.New(), cf), "account")
	commander.Register(kcmd.Build(passwd.New(), cf), "account")

	commander.Register(org.New(cf), "workspace")
	commander.Register(project.New(cf), "workspace")
	commander.Register(credential.New(cf), "workspace")

	commander.Register(dataset.New(cf), "training")
	commander.Register(job.New(cf), "training")
	commander.Register(checkpoint.New(cf), "training")
	commander.Register(vm.New(cf), "training")

	flag.Parse()
	os.Exit(int(commander.Execute(ctx, l, commander)))
}
