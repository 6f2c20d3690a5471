package filter

// Operator values understood by the CEL rendering. Hosts may declare others;
// unknown operators render as a plain binary comparison.
const (
	OpEqual          = "="
	OpNotEqual       = "!="
	OpGreaterThan    = ">"
	OpGreaterOrEqual = ">="
	OpLessThan       = "<"
	OpLessOrEqual    = "<="
	OpContains       = "contains"
	OpNotContains    = "not contains"
	OpStartsWith     = "starts with"
	OpEndsWith       = "ends with"
	OpIsNull         = "is null"
	OpIsNotNull      = "is not null"
)

const (
	CategoryComparison = "comparison"
	CategoryPattern    = "pattern"
	CategorySetNull    = "setNull"
)

var (
	opEqual          = Operator{Value: OpEqual, Label: "equals", Category: CategoryComparison}
	opNotEqual       = Operator{Value: OpNotEqual, Label: "not equals", Category: CategoryComparison}
	opGreaterThan    = Operator{Value: OpGreaterThan, Label: "greater than", Category: CategoryComparison}
	opGreaterOrEqual = Operator{Value: OpGreaterOrEqual, Label: "at least", Category: CategoryComparison}
	opLessThan       = Operator{Value: OpLessThan, Label: "less than", Category: CategoryComparison}
	opLessOrEqual    = Operator{Value: OpLessOrEqual, Label: "at most", Category: CategoryComparison}
	opContains       = Operator{Value: OpContains, Label: "contains", Category: CategoryPattern}
	opNotContains    = Operator{Value: OpNotContains, Label: "does not contain", Category: CategoryPattern}
	opStartsWith     = Operator{Value: OpStartsWith, Label: "starts with", Category: CategoryPattern}
	opEndsWith       = Operator{Value: OpEndsWith, Label: "ends with", Category: CategoryPattern}
	opIsNull         = Operator{Value: OpIsNull, Label: "is empty", Category: CategorySetNull}
	opIsNotNull      = Operator{Value: OpIsNotNull, Label: "is not empty", Category: CategorySetNull}
)

// DefaultOperators returns the operators offered for a property type when the
// property does not declare its own.
func DefaultOperators(t PropertyType) []Operator {
	switch t {
	case TypeNumber, TypeDate:
		return []Operator{
			opEqual, opNotEqual,
			opGreaterThan, opGreaterOrEqual,
			opLessThan, opLessOrEqual,
			opIsNull, opIsNotNull,
		}
	case TypeBoolean:
		return []Operator{
			opEqual, opNotEqual,
			opIsNull, opIsNotNull,
		}
	default:
		return []Operator{
			opEqual, opNotEqual,
			opContains, opNotContains, opStartsWith, opEndsWith,
			opIsNull, opIsNotNull,
		}
	}
}

// IsNullOperator reports whether op takes no value.
func IsNullOperator(op Operator) bool {
	return op.Category == CategorySetNull
}

// DisplayLabel returns Label, falling back to Value.
func (op Operator) DisplayLabel() string {
	if op.Label != "" {
		return op.Label
	}
	return op.Value
}
