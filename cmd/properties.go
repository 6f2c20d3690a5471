package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/fxed/pkg/filter"
	"github.com/oakwood-commons/fxed/pkg/logger"
)

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "List the configured properties and their operators",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		lgr := *logger.FromContext(rootCtx)
		src, err := openSource(rootCtx, activeConfig, lgr)
		if err != nil {
			return err
		}
		if src != nil {
			defer src.Close()
		}
		reg, err := buildRegistry(activeConfig, src)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), propertiesTable(reg))
		return err
	},
}

func propertiesTable(reg *filter.Registry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Headers("NAME", "LABEL", "TYPE", "VALUES", "OPERATORS")
	for _, p := range reg.All() {
		ops := make([]string, 0, len(p.OperatorList()))
		for _, op := range p.OperatorList() {
			ops = append(ops, op.Value)
		}
		t.Row(p.Name, p.DisplayLabel(), string(p.Type), describeOptions(p.Options), strings.Join(ops, ", "))
	}
	return t.String()
}

func describeOptions(src filter.OptionSource) string {
	switch o := src.(type) {
	case filter.StaticOptions:
		labels := make([]string, 0, len(o))
		for _, opt := range o {
			labels = append(labels, opt.Label)
		}
		return strings.Join(labels, ", ")
	case filter.SyncOptions:
		return "(computed)"
	case filter.AsyncOptions:
		return "(data)"
	}
	return "-"
}
