package flag

import (
	"fmt"
	"strconv"
	"time"

	"github.com/periflow/cli/pkg/utils/rfctime"
)

type Argslice []string

func (s *Argslice) String() string {
	return fmt.Sprintf("%v", *s)
}

func (s *Argslice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// IntSlice is repeatable integer flag, like "--node-rank 0 --node-rank 1".
type IntSlice []int

func (s *IntSlice) String() string {
	return fmt.Sprintf("%v", *s)
}

func (s *IntSlice) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*s = append(*s, n)
	return nil
}

type OptionalInt struct {
	v     int
	isSet bool
}

func (t *OptionalInt) String() string {
	if t == nil || !t.isSet {
		return ""
	}
	return strconv.Itoa(t.v)
}

func (t *OptionalInt) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	t.v = n
	t.isSet = true
	return nil
}

func (t *OptionalInt) Value() *int {
	if t == nil || !t.isSet {
		return nil
	}
	return &t.v
}

type LooseRFC3339 time.Time

func (t *LooseRFC3339) String() string {
	if t == nil {
		return ""
	}
	return time.Time(*t).Format(rfctime.RFC3339DateTimeFormatZ)
}

func (t *LooseRFC3339) Set(v string) error {
	parsedTime, err := rfctime.ParseLooseRFC3339(v)
	if err != nil {
		return err
	}
	*t = LooseRFC3339(parsedTime)
	return nil
}

func (t *LooseRFC3339) Time() *time.Time {
	if t == nil {
		return nil
	}
	return (*time.Time)(t)
}

type OptionalDuration struct {
	d     time.Duration
	isSet bool
}

func (t *OptionalDuration) String() string {
	if t == nil || !t.isSet {
		return ""
	}
	return t.d.String()
}

func (t *OptionalDuration) Set(v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	t.d = d
	t.isSet = true
	return nil
}

func (t *OptionalDuration) Duration() *time.Duration {
	if t == nil || !t.isSet {
		return nil
	}
	return &t.d
}
