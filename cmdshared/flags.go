package cmdshared

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Enum is a string flag restricted to a fixed set of values
type Enum struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*Enum)(nil)

// NewEnum creates an Enum holding def
func NewEnum(def string, allowed ...string) *Enum {
	return &Enum{value: def, allowed: allowed}
}

func (e *Enum) String() string { return e.value }

func (e *Enum) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range e.allowed {
		if a == v {
			e.value = v
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.allowed, ", "))
}

func (e *Enum) Type() string { return "string" }

// Allowed lists the accepted values, e.g. for shell completion
func (e *Enum) Allowed() []string { return e.allowed }

// EnumVarP registers an Enum flag on flags, completing to its allowed values
func EnumVarP(flags *pflag.FlagSet, e *Enum, name, shorthand, usage string) *pflag.Flag {
	flags.VarP(e, name, shorthand, fmt.Sprintf("%s (%s)", usage, strings.Join(e.allowed, ", ")))
	return flags.Lookup(name)
}
