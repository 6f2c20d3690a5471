package editor

import (
	"fmt"

	"github.com/oakwood-commons/fxed/pkg/filter"
	"github.com/oakwood-commons/fxed/pkg/menu"
)

// Custom actions offered in a group slot next to the properties.
const (
	ActionAddGroup    = "add-group"
	ActionToggleLogic = "toggle-logic"
)

func propertyItems(reg *filter.Registry) []menu.Item {
	props := reg.All()
	items := make([]menu.Item, 0, len(props))
	for _, p := range props {
		items = append(items, menu.Item{Label: p.DisplayLabel(), Value: p.Name, Category: menu.Uncategorized})
	}
	return items
}

func groupActionItems(g *filter.Group, isRoot bool) []menu.Item {
	items := []menu.Item{{Label: "( ) add group", Category: menu.Uncategorized, Action: ActionAddGroup}}
	if g.Len() > 1 || !isRoot {
		items = append(items, menu.Item{
			Label:    fmt.Sprintf("switch to %s", g.Logic.Toggle()),
			Category: menu.Uncategorized,
			Action:   ActionToggleLogic,
		})
	}
	return items
}

func operatorItems(p filter.Property) []menu.Item {
	ops := p.OperatorList()
	items := make([]menu.Item, 0, len(ops))
	for _, op := range ops {
		items = append(items, menu.Item{Label: op.DisplayLabel(), Value: op.Value, Category: menu.ParseCategory(op.Category)})
	}
	return items
}

func optionItems(opts []filter.Option, limit int) []menu.Item {
	if limit > 0 && len(opts) > limit {
		opts = opts[:limit]
	}
	items := make([]menu.Item, 0, len(opts))
	for _, o := range opts {
		items = append(items, menu.Item{Label: o.Label, Value: o.Value, Category: menu.Uncategorized})
	}
	return items
}
