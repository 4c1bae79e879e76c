package usage

import (
	"flag"
	"strings"

	"github.com/periflow/cli/pkg/commandline/flag/args"
	"github.com/periflow/cli/pkg/commandline/flag/flagger"
)

// Flags and arguments definition
type Usage[T any] struct {
	// Flag specification.
	//
	// Struct T's field with tag "flag" is used as flag name.
	//
	// Returned value is passed to flagger.New .
	// For more details, see flagger.New .
	f *flagger.Flagger[T]

	// positional arguments specification.
	args args.Args
}

func (u Usage[T]) Args() args.Args {
	return u.args
}

func (u Usage[T]) Flags() []flagger.Flag {
	return u.f.Flags
}

func (u Usage[T]) SetFlags(fls *flag.FlagSet) {
	u.f.SetFlags(fls)
}

func (u Usage[T]) String() string {
	return strings.TrimSpace(u.f.String() + " " + u.args.String())
}

// Parse argv and return parsed flags and positional arguments.
//
// If argv is too many/too less, return error.
//
// Before calling this method,
// you should call `Parse()` of FlagSet passed to `SetFlags`.
//
// # Example
//
//	flags := flag.NewFlagSet("command", flag.ExitOnError)
//	usage := New(..., Args{...})
//	usage.SetFlags(flags)
//	flags.Parse(os.Args[1:])
//	parsed, err := usage.Parse(flags.Args())
func (u Usage[T]) Parse(argv []string) (FlagSet[T], error) {
	flags, err := u.args.Parse(argv)
	if err != nil {
		return FlagSet[T]{Flags: *u.f.Values, Args: nil}, err
	}

	return FlagSet[T]{Flags: *u.f.Values, Args: flags}, nil
}

// Args is positional arguments specification.
type Args []args.Arg

// Build new Usage.
func New[T any](flag T, a Args) Usage[T] {
	return Usage[T]{
		f:    flagger.New(flag),
		args: args.New(a...),
	}
}

// Parsed flags and positional arguments.
type FlagSet[T any] struct {
	// Parsed flags.
	Flags T

	// Parsed positional arguments.
	Args map[string][]string
}
