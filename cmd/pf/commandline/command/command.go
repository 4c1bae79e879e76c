package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/subcommands"

	"github.com/periflow/cli/cmd/pf/config/profiles"
	"github.com/periflow/cli/cmd/pf/config/session"
	"github.com/periflow/cli/cmd/pf/rest"
	"github.com/periflow/cli/pkg/commandline/flag/flagger"
	"github.com/periflow/cli/pkg/commandline/usage"
)

type usagePlaceHolder struct {
	// full command name
	Command string
}

func (uph usagePlaceHolder) Fill(tpl string) (string, error) {
	tplExecuter, err := template.New("").Parse(tpl)
	if err != nil {
		return "", err
	}
	sb := new(strings.Builder)
	if err := tplExecuter.Execute(sb, uph); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Help message components.
type Help struct {
	// short description of the command.
	Synopsis string

	// example of the command.
	Example string

	// long description of the command.
	Detail string
}

// PfCommand is a command definition of the pf CLI.
//
// To convert PfCommand to subcommands.Command, use Build.
type PfCommand[T any] interface {
	// Execute executes the command as its entrypoint.
	//
	// # Args
	//
	// - *log.Logger: logger to be used in the command.
	//
	// - *session.Store: tokens and working context of the user.
	//
	// - rest.Client: client to be used in the command.
	//
	// - usage.FlagSet[T]: parsed flags and arguments.
	// It is output of Usage().Parse().
	//
	// # Returns
	//
	// - error: error if any.
	//
	// ErrUsage is returned if the command is invoked with invalid flags/arguments.
	Execute(ctx context.Context, l *log.Logger, s *session.Store, c rest.Client, flags usage.FlagSet[T]) error

	// Command name
	//
	// This method is expected to return same value in each call.
	Name() string

	// Command flags and arguments.
	//
	// This method is expected to return same value in each call.
	Usage() usage.Usage[T]

	// Help message components.
	//
	// This method is expected to return same value in each call.
	Help() Help
}

// ErrUsage is returned when the command is invoked with invalid flags/arguments.
//
// Return this from Execute.
var ErrUsage = errors.New("usage error")

type CommonFlags struct {
	Profile      string `flag:",help=profile name to use"`
	ProfileStore string `flag:",help=path to profile store file"`
	Home         string `flag:",help=directory where login session is stored"`
}

type commonFlagDetection struct {
	home string
}

type CommonFlagDetectionOption func(*commonFlagDetection) *commonFlagDetection

func WithHome(home string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.home = home
		return opt
	}
}

// DefaultCommonFlags detects default values of CommonFlags.
//
// The profile name is taken from the nearest .pfprofile file,
// looking upward from the directory from. When there is none,
// the profile named "default" is used.
func DefaultCommonFlags(from string, opt ...CommonFlagDetectionOption) (CommonFlags, error) {
	detparam := commonFlagDetection{
		home: "",
	}
	for _, o := range opt {
		detparam = *o(&detparam)
	}

	home := detparam.home
	if home == "" {
		_home, err := os.UserHomeDir()
		if err != nil {
			_home = ""
		}
		home = _home
	}

	if _from, err := filepath.Abs(from); err == nil {
		from = _from
	}

	profile := "default"
	for searchpath := from; ; {
		candidate := path.Join(searchpath, ".pfprofile")
		if s, err := os.Stat(candidate); err == nil && s.Mode().IsRegular() {
			_profile, err := os.ReadFile(candidate)
			if err != nil {
				return CommonFlags{}, err
			}
			if p := strings.Split(string(_profile), "\n"); 0 < len(p) {
				profile = strings.TrimSpace(p[0])
			}
			break
		}

		next := path.Dir(searchpath)
		if next == searchpath {
			break
		}
		searchpath = next
	}

	sessionDir, err := session.DefaultDir()
	if err != nil {
		sessionDir = path.Join(home, ".periflow")
	}

	return CommonFlags{
		Profile:      profile,
		ProfileStore: path.Join(home, ".periflow", "profile"),
		Home:         sessionDir,
	}, nil
}

// Build builds subcommands.Command from PfCommand.
func Build[T any](pc PfCommand[T], commonFlags CommonFlags) subcommands.Command {
	cf := flagger.New(commonFlags)

	// command specific flags
	f := pc.Usage()

	return &command[T]{c: pc, f: f, cf: cf}
}

// command is a wrapper of PfCommand to be used as subcommands.Command.
type command[T any] struct {
	c      PfCommand[T]
	f      usage.Usage[T]
	cf     *flagger.Flagger[CommonFlags]
	parent string
}

func (c *command[T]) SetParent(parent string) {
	c.parent = parent
}

func (c *command[T]) Name() string {
	return c.c.Name()
}

func (c *command[T]) Synopsis() string {
	return c.c.Help().Synopsis
}

func (c *command[T]) Usage() string {
	name := c.Name()
	if c.parent != "" {
		name = c.parent + " " + name
	}
	return BuildUsageMessage(
		name, c.c.Help(), c.c.Usage(), c.cf.Flags...,
	)
}

func BuildUsageMessage[T any](command string, help Help, usage usage.Usage[T], otherFlags ...flagger.Flag) string {
	indent := func(s string) string {
		return "  " + strings.ReplaceAll(s, "\n", "\n  ")
	}

	message := []string{"Usage: " + command + " " + usage.String()}

	if help.Detail != "" {
		message = append(
			message,
			"",
			indent(strings.TrimSpace(help.Detail)),
		)
	} else {
		message = append(
			message,
			"",
			indent(strings.TrimSpace(help.Synopsis)),
		)
	}

	if help.Example != "" {
		message = append(
			message,
			"",
			"Example:",
			indent(strings.TrimSpace(help.Example)),
		)
	}
	if args := usage.Args(); 0 < len(args) {
		message = append(
			message,
			"",
			"Arguments:",
		)
		for _, arg := range args {
			s := fmt.Sprintf("%s\n%s", arg.Name, strings.TrimSpace(arg.Help))
			s = strings.ReplaceAll(s, "\n", "\n	")
			message = append(message, indent(s))
		}
	}
	if 0 < len(usage.Flags())+len(otherFlags) {
		message = append(
			message,
			"",
			"Flags:",
			"",
			// subcommand's help command will show flags.
		)
	}
	tpl := strings.Join(message, "\n")

	plh := usagePlaceHolder{Command: command}
	text, err := plh.Fill(tpl)
	if err != nil {
		return tpl + "(templating error: " + err.Error() + ")\n"
	}
	return text
}

func (c *command[T]) SetFlags(f *flag.FlagSet) {
	c.f.SetFlags(f)
	c.cf.SetFlags(f)
}

func (c *command[T]) Execute(
	ctx context.Context,
	f *flag.FlagSet,
	args ...interface{},
) subcommands.ExitStatus {
	logger, _, ok := extract[*log.Logger](args)
	if !ok {
		return subcommands.ExitFailure
	}

	logger = log.New(
		logger.Writer(),
		"["+strings.TrimSpace(logger.Prefix())+" "+c.c.Name()+"] ",
		logger.Flags(),
	)

	commonOption := c.cf.Values
	prof, err := profiles.LoadProfileStore(commonOption.ProfileStore)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileStoreNotFound) {
			logger.Printf(
				"profile store (%s) not found.\nPlease try `pf init` first to register your server endpoints.",
				commonOption.ProfileStore,
			)
			return subcommands.ExitFailure
		}
		logger.Printf(
			"profile store (%s) can not be loaded: %s",
			commonOption.ProfileStore, err,
		)
		return subcommands.ExitFailure
	}

	profile, ok := prof[commonOption.Profile]
	if !ok {
		logger.Printf(
			"profile (%s) not found in %s. Please try `pf init` first to register your server endpoints.",
			commonOption.Profile, commonOption.ProfileStore,
		)
		return subcommands.ExitFailure
	}

	sess, err := session.Open(commonOption.Home)
	if err != nil {
		logger.Printf("cannot open session directory (%s): %s", commonOption.Home, err)
		return subcommands.ExitFailure
	}

	client, err := rest.NewClient(profile, sess)
	if err != nil {
		logger.Printf(
			"profile (%s in %s) may be broken: %s\n\nRemove it and try `pf init` again.",
			commonOption.Profile, commonOption.ProfileStore,
			err,
		)
		return subcommands.ExitFailure
	}

	// parse positional arguments
	flg, err := c.f.Parse(f.Args())
	if err != nil {
		logger.Println(err)
		if p, _, ok := extract[*subcommands.Commander](args); ok {
			p.ExplainCommand(os.Stderr, c)
		}

		return subcommands.ExitUsageError
	}

	if err := c.c.Execute(ctx, logger, sess, client, flg); err != nil {
		logger.Println(err)
		if errors.Is(err, ErrUsage) {
			if p, _, ok := extract[*subcommands.Commander](args); ok {
				p.ExplainCommand(os.Stderr, c)
			}

			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

// PfCommander is a command group of the pf CLI.
//
// This is also a subcommands.Command.
type PfCommander struct {
	name    string
	help    Help
	command []subcommands.Command
	parent  string
}

// NewCommander builds new PfCommander.
//
// To add subcommand, use Register.
//
// # Args
//
// - name: name of this subcommand group.
//
// - help: help message components.
func NewCommander(name string, help Help) *PfCommander {
	return &PfCommander{
		name:    name,
		help:    help,
		command: []subcommands.Command{},
	}
}

func (pc *PfCommander) SetParent(parent string) {
	pc.parent = parent
}

func (pc *PfCommander) Name() string {
	return pc.name
}

func (*PfCommander) SetFlags(*flag.FlagSet) {
	// noop
}

func (pc *PfCommander) Synopsis() string {
	return pc.help.Synopsis
}

func (pc *PfCommander) Usage() string {
	s := pc.help.Synopsis
	if pc.help.Detail != "" {
		s = pc.help.Detail
	}
	s = strings.TrimSpace(s)

	usage := []string{s}

	if len(pc.command) != 0 {
		usage = append(
			usage,
			"",
			"Subcommands:",
		)
		for _, cmd := range pc.command {
			usage = append(
				usage,
				fmt.Sprintf("\t%s\t%s", cmd.Name(), cmd.Synopsis()),
			)
		}
	}

	plh := usagePlaceHolder{Command: pc.name}
	if pc.parent != "" {
		plh.Command = pc.parent + " " + plh.Command
	}
	tpl := strings.Join(usage, "\n") + "\n\n"
	text, err := plh.Fill(tpl)
	if err != nil {
		return tpl + "(templating error: " + err.Error() + ")\n"
	}
	return text
}

func (pc *PfCommander) Register(cmd subcommands.Command) {
	pc.command = append(pc.command, cmd)
}

func (pc *PfCommander) Execute(
	ctx context.Context,
	f *flag.FlagSet,
	args ...interface{},
) subcommands.ExitStatus {
	logger, rest, ok := extract[*log.Logger](args)
	if !ok {
		return subcommands.ExitFailure
	}
	_, rest, _ = extract[*subcommands.Commander](rest)

	l := log.New(
		logger.Writer(),
		strings.TrimSpace(logger.Prefix())+" "+pc.name,
		logger.Flags(),
	)

	commander := subcommands.NewCommander(f, pc.name)
	commander.Register(subcommands.HelpCommand(), "help")
	commander.Register(subcommands.FlagsCommand(), "help")
	commander.Register(subcommands.CommandsCommand(), "help")
	for _, cmd := range pc.command {
		if c, ok := cmd.(interface{ SetParent(string) }); ok {
			c.SetParent(pc.parent + " " + pc.name)
		}
		commander.Register(cmd, "")
	}
	args = append([]any{l, commander}, rest...)

	return commander.Execute(ctx, args...)
}

func extract[T any](args []any) (T, []any, bool) {
	var value T
	var rest []any
	for i, arg := range args {
		if v, ok := arg.(T); ok {
			value = v
			rest = append(rest, args[i+1:]...)
			return value, rest, true
		}
		rest = append(rest, arg)
	}
	return value, rest, false
}
