package cmd

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/fxed/internal/config"
	"github.com/oakwood-commons/fxed/internal/source/duck"
	"github.com/oakwood-commons/fxed/pkg/filter"
)

// openSource loads the configured data file into DuckDB. It returns nil when
// no data file is configured.
func openSource(ctx context.Context, cfg *config.Config, lgr logr.Logger) (*duck.Source, error) {
	if cfg.Data.File == "" {
		return nil, nil
	}
	src, err := duck.New(lgr, cfg.Data.Limit)
	if err != nil {
		return nil, err
	}
	if err := src.Load(ctx, cfg.Data.File); err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("load data file: %w", err)
	}
	lgr.V(1).Info("data file loaded", "file", cfg.Data.File, "columns", src.Columns())
	return src, nil
}

// buildRegistry turns the configuration into properties. Without configured
// properties every column of src becomes one.
func buildRegistry(cfg *config.Config, src *duck.Source) (*filter.Registry, error) {
	if src == nil {
		return cfg.Registry(nil)
	}
	if len(cfg.Properties) == 0 {
		for _, col := range src.Columns() {
			cfg.Properties = append(cfg.Properties, config.PropertyConfig{
				Name:        col,
				Type:        string(src.PropertyType(col)),
				OptionsFrom: config.OptionsFromData,
			})
		}
	}
	return cfg.Registry(func(column string) filter.AsyncOptions {
		if _, ok := src.ColumnType(column); !ok {
			return nil
		}
		return typedOptions(src.Options(column), src.PropertyType(column))
	})
}

// typedOptions converts the text values DuckDB returns into values of the
// column's type, keeping the text as the label.
func typedOptions(fetch filter.AsyncOptions, t filter.PropertyType) filter.AsyncOptions {
	if t == filter.TypeString {
		return fetch
	}
	return func(ctx context.Context, search string) ([]any, error) {
		raw, err := fetch(ctx, search)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(raw))
		for _, v := range raw {
			s, ok := v.(string)
			if !ok {
				out = append(out, v)
				continue
			}
			out = append(out, filter.Option{Label: s, Value: filter.CoerceValue(t, s)})
		}
		return out, nil
	}
}
