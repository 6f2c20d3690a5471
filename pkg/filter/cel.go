package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"
)

// ToCEL renders the group as a CEL boolean expression over one variable per
// property. Conditions without an operator and empty groups are left out; a
// group with nothing left renders as `true`. The expression is never
// evaluated here, only produced for a backend to consume.
func ToCEL(root *Group, reg *Registry) string {
	if s := groupCEL(root, reg, true); s != "" {
		return s
	}
	return "true"
}

func groupCEL(g *Group, reg *Registry, top bool) string {
	if g == nil {
		return ""
	}
	parts := make([]string, 0, len(g.Conditions))
	for _, n := range g.Conditions {
		var s string
		switch v := n.(type) {
		case *Condition:
			s = conditionCEL(v, reg)
		case *Group:
			s = groupCEL(v, reg, false)
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	joiner := " && "
	if g.Logic == Or {
		joiner = " || "
	}
	out := strings.Join(parts, joiner)
	if !top {
		out = "(" + out + ")"
	}
	return out
}

func conditionCEL(c *Condition, reg *Registry) string {
	if c.Operator == "" {
		return ""
	}
	typ := TypeString
	if p, ok := reg.Get(c.PropertyName); ok {
		typ = p.Type
	}
	name := c.PropertyName
	val := literalCEL(typ, c.Value)
	switch c.Operator {
	case OpEqual:
		return name + " == " + val
	case OpIsNull:
		return name + " == null"
	case OpIsNotNull:
		return name + " != null"
	case OpContains:
		return name + ".contains(" + val + ")"
	case OpNotContains:
		return "!" + name + ".contains(" + val + ")"
	case OpStartsWith:
		return name + ".startsWith(" + val + ")"
	case OpEndsWith:
		return name + ".endsWith(" + val + ")"
	default:
		return name + " " + c.Operator + " " + val
	}
}

func literalCEL(t PropertyType, v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int:
		return doubleLiteral(float64(x))
	case int64:
		return doubleLiteral(float64(x))
	case float64:
		return doubleLiteral(x)
	case string:
		if t == TypeDate {
			return "timestamp(" + strconv.Quote(x) + ")"
		}
		return strconv.Quote(x)
	default:
		return strconv.Quote(fmt.Sprint(x))
	}
}

func doubleLiteral(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "0.0"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// CheckCEL type-checks the CEL rendering of root against variables declared
// from the registry. Properties compared against null are declared dyn.
func CheckCEL(root *Group, reg *Registry) error {
	used := map[string]bool{}
	nullable := map[string]bool{}
	for _, p := range LeafPaths(root) {
		c := FindCondition(root, p)
		if c.Operator == "" {
			continue
		}
		used[c.PropertyName] = true
		if c.Operator == OpIsNull || c.Operator == OpIsNotNull {
			nullable[c.PropertyName] = true
		}
	}

	opts := make([]cel.EnvOption, 0, len(used))
	for name := range used {
		prop, ok := reg.Get(name)
		if !ok {
			return fmt.Errorf("unknown property %q", name)
		}
		typ := celType(prop.Type)
		if nullable[name] {
			typ = cel.DynType
		}
		opts = append(opts, cel.Variable(name, typ))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(ToCEL(root, reg))
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("compilation error: %w", issues.Err())
	}
	if out := ast.OutputType().String(); out != cel.BoolType.String() && out != cel.DynType.String() {
		return fmt.Errorf("expression yields %s, want bool", out)
	}
	return nil
}

func celType(t PropertyType) *cel.Type {
	switch t {
	case TypeNumber:
		return cel.DoubleType
	case TypeBoolean:
		return cel.BoolType
	case TypeDate:
		return cel.TimestampType
	default:
		return cel.StringType
	}
}
