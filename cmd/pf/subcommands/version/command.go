package version

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/subcommands"
)

// Version is overwritten at build time via -ldflags.
var Version = "develop"

type Command struct {
	output io.Writer
}

func New() *Command {
	return &Command{output: os.Stdout}
}

func (cmd *Command) Name() string {
	return "version"
}

func (cmd *Command) Synopsis() string {
	return "show the version of this command"
}

func (cmd *Command) Usage() string {
	return "Usage: pf version\n"
}

func (*Command) SetFlags(*flag.FlagSet) {
	// noop
}

func (cmd *Command) Execute(
	ctx context.Context,
	f *flag.FlagSet,
	args ...interface{},
) subcommands.ExitStatus {
	fmt.Fprintf(cmd.output, "pf version %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	return subcommands.ExitSuccess
}
