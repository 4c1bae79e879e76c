// Package flagger derives command line flags from struct fields.
//
// Every pf subcommand declares its flags as a plain struct with "flag"
// tags, and this package turns such a struct into *flag.FlagSet entries
// and usage strings.
package flagger

import (
	"flag"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// Flag is one command line flag, derived from a struct field.
type Flag struct {
	Name      string
	ShortName string
	Help      string
	MetaVar   string
	ptr       reflect.Value
}

// SetFlag registers the flag (and its short alias, if any) on fs.
//
// The field value at the time of registration is the default.
func (f Flag) SetFlag(fs *flag.FlagSet) error {
	alias := fmt.Sprintf("alias for %s", f.Name)

	switch dv := f.ptr.Interface().(type) {
	case *bool:
		fs.BoolVar(dv, f.Name, *dv, f.Help)
		if f.ShortName != "" {
			fs.BoolVar(dv, f.ShortName, *dv, alias)
		}
	case *string:
		fs.StringVar(dv, f.Name, *dv, f.Help)
		if f.ShortName != "" {
			fs.StringVar(dv, f.ShortName, *dv, alias)
		}
	case *int:
		fs.IntVar(dv, f.Name, *dv, f.Help)
		if f.ShortName != "" {
			fs.IntVar(dv, f.ShortName, *dv, alias)
		}
	case *int64:
		fs.Int64Var(dv, f.Name, *dv, f.Help)
		if f.ShortName != "" {
			fs.Int64Var(dv, f.ShortName, *dv, alias)
		}
	case *uint:
		fs.UintVar(dv, f.Name, *dv, f.Help)
		if f.ShortName != "" {
			fs.UintVar(dv, f.ShortName, *dv, alias)
		}
	case *uint64:
		fs.Uint64Var(dv, f.Name, *dv, f.Help)
		if f.ShortName != "" {
			fs.Uint64Var(dv, f.ShortName, *dv, alias)
		}
	case *float64:
		fs.Float64Var(dv, f.Name, *dv, f.Help)
		if f.ShortName != "" {
			fs.Float64Var(dv, f.ShortName, *dv, alias)
		}
	case *time.Duration:
		fs.DurationVar(dv, f.Name, *dv, f.Help)
		if f.ShortName != "" {
			fs.DurationVar(dv, f.ShortName, *dv, alias)
		}
	case flag.Value:
		fs.Var(dv, f.Name, f.Help)
		if f.ShortName != "" {
			fs.Var(dv, f.ShortName, alias)
		}
	default:
		return fmt.Errorf("unsupported flag type: %T (should be a pointer)", dv)
	}

	return nil
}

// String renders the flag for a usage line, like
//
//	--storage-type|-t=TYPE
//
// Booleans come out bracketed. The placeholder is MetaVar when given,
// otherwise the default value of the field.
func (f Flag) String() string {
	str := "--" + f.Name
	if f.ShortName != "" {
		str += "|-" + f.ShortName
	}

	switch val := f.ptr.Interface().(type) {
	case *bool:
		return "[" + str + "]"
	case *string:
		return str + "=" + f.metavarOr(*val)
	case *int:
		return str + "=" + f.metavarOr(fmt.Sprintf("%d", *val))
	case *int64:
		return str + "=" + f.metavarOr(fmt.Sprintf("%d", *val))
	case *uint:
		return str + "=" + f.metavarOr(fmt.Sprintf("%d", *val))
	case *uint64:
		return str + "=" + f.metavarOr(fmt.Sprintf("%d", *val))
	case *float64:
		return str + "=" + f.metavarOr(fmt.Sprintf("%f", *val))
	case *time.Duration:
		return str + "=" + f.metavarOr(fmt.Sprintf(`"%s"`, *val))
	case flag.Value:
		return str + "=" + f.metavarOr(val.String())
	default:
		return str + fmt.Sprintf("=%s (unsupported)", f.metavarOr(fmt.Sprintf("%s", val)))
	}
}

func (f Flag) metavarOr(fallback string) string {
	if f.MetaVar != "" {
		return f.MetaVar
	}
	return fallback
}

// Flagger holds the flags derived from a struct T and the struct
// receiving their parsed values.
type Flagger[T any] struct {
	Flags  []Flag
	Values *T
}

// New scans the "flag" tags of v and builds a Flagger over it.
//
// The tag's first element is the long flag name. When it is empty, the
// name is derived from the field name, kebab-cased (NumDevices becomes
// num-devices). The remaining elements are optional attributes:
//
//   - short: one letter alias
//   - help: help message
//   - metavar: value placeholder in usage lines (defaults to the
//     field's default value)
//
// For example,
//
//	type Flags struct {
//		StorageType string `flag:"storage-type,short=t,metavar=TYPE,help=storage vendor"`
//		NumDevices  int    `flag:",help=number of devices"`
//	}
//
// declares --storage-type (alias -t) and --num-devices.
//
// Untagged and unexported fields are skipped. Fields implementing
// flag.Value are registered as such. New panics when T is not a struct,
// since that is a programming error in the command definition.
func New[T any](v T) *Flagger[T] {
	fl := &Flagger[T]{Values: &v}

	rv := reflect.ValueOf(fl.Values)
	if rv.Elem().Kind() != reflect.Struct {
		panic("flag receiver must be struct")
	}

	rt := rv.Elem().Type()
	flags := make([]Flag, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup("flag")
		if !ok {
			continue
		}

		flg := Flag{}
		attrs := strings.Split(tag, ",")
		flg.Name = attrs[0]
		if flg.Name == "" {
			flg.Name = camelBoundary.ReplaceAllString(field.Name, "-${0}")
			flg.Name = strings.ToLower(flg.Name)[1:] // trim leading "-"
		}
		for _, a := range attrs[1:] {
			name, value, _ := strings.Cut(a, "=")
			switch name {
			case "short":
				flg.ShortName = value
			case "help":
				flg.Help = value
			case "metavar":
				flg.MetaVar = value
			}
		}

		if _, ok := rv.Elem().Field(i).Interface().(flag.Value); ok {
			flg.ptr = rv.Elem().Field(i)
		} else {
			flg.ptr = rv.Elem().Field(i).Addr()
		}
		flags = append(flags, flg)
	}

	fl.Flags = flags
	return fl
}

// SetFlags registers every flag on fs.
func (f *Flagger[T]) SetFlags(fs *flag.FlagSet) (*flag.FlagSet, error) {
	for _, flag := range f.Flags {
		if err := flag.SetFlag(fs); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

var camelBoundary = regexp.MustCompile("[A-Z][^A-Z]+")

func (f *Flagger[T]) String() string {
	var strs []string
	for _, flag := range f.Flags {
		strs = append(strs, flag.String())
	}
	return strings.Join(strs, " ")
}
