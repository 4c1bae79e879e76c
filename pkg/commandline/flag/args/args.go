// Package args declares and parses positional arguments of a
// subcommand, like the dataset name of "pf dataset create NAME".
package args

import (
	"errors"
	"fmt"
)

// Arg is one positional argument.
type Arg struct {
	// Name labels the argument in usage lines and keys its values in
	// the parse result.
	Name string

	// Help message.
	Help string

	// Required arguments take at least one value.
	Required bool

	// Repeatable arguments absorb consecutive values.
	Repeatable bool
}

// String renders the argument for a usage line. Required arguments
// come out angle-bracketed, optional ones square-bracketed, and
// repeatable ones with a trailing ellipsis.
func (a Arg) String() string {
	str := a.Name
	if a.Repeatable {
		str += "..."
	}
	if a.Required {
		return "<" + str + ">"
	}
	return "[" + str + "]"
}

type Args []Arg

func (a Args) String() string {
	str := ""
	for _, arg := range a {
		str += " " + arg.String()
	}
	return str
}

func New(args ...Arg) Args {
	return args
}

var ErrArgs = errors.New("arguments error")
var ErrNotEnough = fmt.Errorf("%w: not enough", ErrArgs)
var ErrTooMany = fmt.Errorf("%w: too many", ErrArgs)

// Parse assigns argv to the declared arguments, in order.
//
// Values flow into the arguments left to right. A repeatable argument
// keeps absorbing values, but always leaves enough behind for the
// required arguments still waiting after it. The result maps each
// argument name to its values; an argument given no value maps to an
// empty slice.
//
// Parse returns ErrNotEnough when a required argument ends up empty
// and ErrTooMany when values are left over.
func (args Args) Parse(argv []string) (map[string][]string, error) {
	parsed := map[string][]string{}
	pending := 0 // required arguments not yet given a value
	for _, a := range args {
		if a.Required {
			pending++
		}
		parsed[a.Name] = []string{}
	}

	rest := argv[:]
	dest := args[:]
	for pending < len(rest) {
		val := rest[0]
		if len(dest) == 0 {
			return nil, ErrTooMany
		}
		d := dest[0]
		parsed[d.Name] = append(parsed[d.Name], val)
		if d.Required && len(parsed[d.Name]) == 1 {
			pending--
		}

		rest = rest[1:]
		if !d.Repeatable {
			dest = dest[1:]
		}
	}

	// the held-back values go to the remaining required arguments
	for _, d := range dest {
		if !d.Required {
			continue
		}
		if d.Repeatable && 0 < len(parsed[d.Name]) {
			continue
		}
		if len(rest) == 0 {
			return nil, ErrNotEnough
		}
		parsed[d.Name] = append(parsed[d.Name], rest[0])
		rest = rest[1:]
	}

	if 0 < len(rest) {
		return nil, ErrTooMany
	}

	return parsed, nil
}
