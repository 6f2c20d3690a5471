package cmd

import (
	"fmt"
	"slices"
	"strings"
)

// enumValue is a pflag.Value restricted to a fixed set of lower-case words.
type enumValue struct {
	allowed []string
	value   string
	typ     string
}

func newEnumValue(typ, def string, allowed ...string) *enumValue {
	return &enumValue{allowed: allowed, value: def, typ: typ}
}

func (e *enumValue) String() string { return e.value }

func (e *enumValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(e.allowed, s) {
		return fmt.Errorf("must be one of %s", strings.Join(e.allowed, "|"))
	}
	e.value = s
	return nil
}

func (e *enumValue) Type() string { return e.typ }
