package config

import (
	"fmt"

	"github.com/oakwood-commons/fxed/pkg/filter"
)

// ColumnSource resolves data-backed options for a column. It returns nil
// when no data file is available.
type ColumnSource func(column string) filter.AsyncOptions

// Registry converts the configured properties into filter properties.
// Properties with options_from: data get their options from columns; with a
// nil ColumnSource they have none.
func (c *Config) Registry(columns ColumnSource) (*filter.Registry, error) {
	reg := filter.NewRegistry()
	for _, pc := range c.Properties {
		p, err := pc.Property(columns)
		if err != nil {
			return nil, err
		}
		reg.Add(p)
	}
	if reg.Len() == 0 {
		return nil, ErrNoProperties
	}
	return reg, nil
}

// Property converts one property declaration.
func (pc PropertyConfig) Property(columns ColumnSource) (filter.Property, error) {
	t := filter.PropertyType(pc.Type)
	if pc.Type == "" {
		t = filter.TypeString
	}
	if !t.IsValid() {
		return filter.Property{}, fmt.Errorf("property %q: unknown type %q", pc.Name, pc.Type)
	}
	p := filter.Property{Label: pc.Label, Name: pc.Name, Type: t}

	switch {
	case len(pc.Options) > 0:
		opts := make(filter.StaticOptions, 0, len(pc.Options))
		for _, o := range pc.Options {
			label := o.Label
			if label == "" {
				label = fmt.Sprint(o.Value)
			}
			opts = append(opts, filter.Option{Label: label, Value: o.Value})
		}
		p.Options = opts
	case pc.OptionsFrom == OptionsFromData && columns != nil:
		column := pc.Column
		if column == "" {
			column = pc.Name
		}
		if fetch := columns(column); fetch != nil {
			p.Options = fetch
		}
	}

	for _, oc := range pc.Operators {
		p.Operators = append(p.Operators, filter.Operator{Value: oc.Value, Label: oc.Label, Category: oc.Category})
	}
	return p, nil
}
