package filter

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PropertyType is the value type a property compares against.
type PropertyType string

const (
	TypeString  PropertyType = "string"
	TypeNumber  PropertyType = "number"
	TypeDate    PropertyType = "date"
	TypeBoolean PropertyType = "boolean"
)

// IsValid reports whether t is one of the known property types.
func (t PropertyType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeDate, TypeBoolean:
		return true
	}
	return false
}

// Option is one selectable value for a property.
type Option struct {
	Label string
	Value any
}

// OptionSource supplies candidate values for a property. The concrete kinds
// are StaticOptions, SyncOptions and AsyncOptions.
type OptionSource interface {
	isOptionSource()
}

// StaticOptions is a fixed list of options.
type StaticOptions []Option

// SyncOptions computes options from the search text without blocking.
type SyncOptions func(search string) []Option

// AsyncOptions fetches raw options for the search text. Each raw entry is
// either a bare value or an Option.
type AsyncOptions func(ctx context.Context, search string) ([]any, error)

func (StaticOptions) isOptionSource() {}
func (SyncOptions) isOptionSource()   {}
func (AsyncOptions) isOptionSource()  {}

// Operator is one comparison a property supports. Category is one of
// "comparison", "pattern" or "setNull"; anything else is uncategorized.
type Operator struct {
	Value    string
	Label    string
	Category string
}

// Property describes a filterable field supplied by the host application.
type Property struct {
	Label     string
	Name      string
	Type      PropertyType
	Options   OptionSource
	Operators []Operator
}

// IsAsync reports whether the property's options must be fetched.
func (p Property) IsAsync() bool {
	_, ok := p.Options.(AsyncOptions)
	return ok
}

// DisplayLabel returns Label, falling back to Name.
func (p Property) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// OperatorList returns the declared operators or the defaults for the type.
func (p Property) OperatorList() []Operator {
	if len(p.Operators) > 0 {
		return p.Operators
	}
	return DefaultOperators(p.Type)
}

// FindOperator looks up an operator by value.
func (p Property) FindOperator(value string) (Operator, bool) {
	for _, op := range p.OperatorList() {
		if op.Value == value {
			return op, true
		}
	}
	return Operator{}, false
}

// StaticResolve returns options for static and sync sources. Static lists are
// narrowed by a case-insensitive label match on search. Async sources return nil.
func (p Property) StaticResolve(search string) []Option {
	switch src := p.Options.(type) {
	case StaticOptions:
		if search == "" {
			return append([]Option(nil), src...)
		}
		q := strings.ToLower(search)
		var out []Option
		for _, o := range src {
			if strings.Contains(strings.ToLower(o.Label), q) {
				out = append(out, o)
			}
		}
		return out
	case SyncOptions:
		if src == nil {
			return nil
		}
		return src(search)
	}
	return nil
}

// NormalizeOptions wraps bare values as {label: value, value: value} and
// passes Option values through unchanged.
func NormalizeOptions(raw []any) []Option {
	out := make([]Option, 0, len(raw))
	for _, r := range raw {
		switch v := r.(type) {
		case Option:
			out = append(out, v)
		case *Option:
			if v != nil {
				out = append(out, *v)
			}
		case map[string]any:
			if label, ok := v["label"]; ok {
				out = append(out, Option{Label: fmt.Sprint(label), Value: v["value"]})
				continue
			}
			out = append(out, Option{Label: fmt.Sprint(v), Value: v})
		default:
			out = append(out, Option{Label: fmt.Sprint(v), Value: v})
		}
	}
	return out
}

// CoerceValue converts committed input text to the property's value type.
// Text that does not parse is kept as a string.
func CoerceValue(t PropertyType, text string) any {
	trimmed := strings.TrimSpace(text)
	switch t {
	case TypeNumber:
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) {
			return f
		}
	case TypeBoolean:
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return b
		}
	}
	return text
}

// IsFalsy reports whether v is empty in the loose sense used by the editor:
// nil, "", numeric zero or false.
func IsFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case int32:
		return x == 0
	case float64:
		return x == 0 || math.IsNaN(x)
	case float32:
		return x == 0
	}
	return false
}

// Registry is an ordered set of properties keyed by name.
type Registry struct {
	order  []string
	byName map[string]Property
}

// NewRegistry builds a registry; later duplicates replace earlier ones in place.
func NewRegistry(props ...Property) *Registry {
	r := &Registry{byName: make(map[string]Property, len(props))}
	for _, p := range props {
		r.Add(p)
	}
	return r
}

// Add inserts or replaces a property.
func (r *Registry) Add(p Property) {
	if _, ok := r.byName[p.Name]; !ok {
		r.order = append(r.order, p.Name)
	}
	r.byName[p.Name] = p
}

// Get returns the property with the given name.
func (r *Registry) Get(name string) (Property, bool) {
	if r == nil {
		return Property{}, false
	}
	p, ok := r.byName[name]
	return p, ok
}

// All returns properties in insertion order.
func (r *Registry) All() []Property {
	if r == nil {
		return nil
	}
	out := make([]Property, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of properties.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}
