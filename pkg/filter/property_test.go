package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOptions(t *testing.T) {
	raw := []any{
		"active",
		42,
		Option{Label: "Pending", Value: "pending"},
		&Option{Label: "Closed", Value: "closed"},
		map[string]any{"label": "Open", "value": "open"},
	}
	got := NormalizeOptions(raw)
	require.Len(t, got, 5)
	assert.Equal(t, Option{Label: "active", Value: "active"}, got[0])
	assert.Equal(t, Option{Label: "42", Value: 42}, got[1])
	assert.Equal(t, Option{Label: "Pending", Value: "pending"}, got[2])
	assert.Equal(t, Option{Label: "Closed", Value: "closed"}, got[3])
	assert.Equal(t, Option{Label: "Open", Value: "open"}, got[4])
	assert.Empty(t, NormalizeOptions(nil))
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name string
		typ  PropertyType
		in   string
		want any
	}{
		{name: "integer", typ: TypeNumber, in: "18", want: int64(18)},
		{name: "float", typ: TypeNumber, in: " 2.5 ", want: 2.5},
		{name: "bad number stays text", typ: TypeNumber, in: "abc", want: "abc"},
		{name: "boolean", typ: TypeBoolean, in: "true", want: true},
		{name: "bad boolean stays text", typ: TypeBoolean, in: "maybe", want: "maybe"},
		{name: "string untouched", typ: TypeString, in: " 18 ", want: " 18 "},
		{name: "date untouched", typ: TypeDate, in: "2024-01-01", want: "2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceValue(tt.typ, tt.in))
		})
	}
}

func TestIsFalsy(t *testing.T) {
	for _, v := range []any{nil, "", 0, int64(0), 0.0, false} {
		assert.True(t, IsFalsy(v), "%#v", v)
	}
	for _, v := range []any{"x", 1, int64(-1), 0.5, true, []string{}} {
		assert.False(t, IsFalsy(v), "%#v", v)
	}
}

func TestPropertyOptions(t *testing.T) {
	static := Property{Name: "status", Options: StaticOptions{{Label: "Active", Value: "active"}, {Label: "Pending", Value: "pending"}}}
	assert.Len(t, static.StaticResolve(""), 2)
	assert.Equal(t, []Option{{Label: "Pending", Value: "pending"}}, static.StaticResolve("pend"))
	assert.False(t, static.IsAsync())

	sync := Property{Name: "n", Options: SyncOptions(func(search string) []Option {
		return []Option{{Label: search, Value: search}}
	})}
	assert.Equal(t, []Option{{Label: "q", Value: "q"}}, sync.StaticResolve("q"))

	async := Property{Name: "a", Options: AsyncOptions(func(context.Context, string) ([]any, error) { return nil, nil })}
	assert.True(t, async.IsAsync())
	assert.Nil(t, async.StaticResolve("x"))
}

func TestPropertyOperators(t *testing.T) {
	p := Property{Name: "age", Type: TypeNumber}
	ops := p.OperatorList()
	require.NotEmpty(t, ops)
	op, ok := p.FindOperator(">=")
	require.True(t, ok)
	assert.Equal(t, CategoryComparison, op.Category)
	_, ok = p.FindOperator("contains")
	assert.False(t, ok)

	custom := Property{Name: "x", Operators: []Operator{{Value: "~", Label: "like"}}}
	assert.Equal(t, []Operator{{Value: "~", Label: "like"}}, custom.OperatorList())

	nullOp, _ := Property{Type: TypeString}.FindOperator(OpIsNull)
	assert.True(t, IsNullOperator(nullOp))
	assert.Equal(t, "Age", Property{Name: "age", Label: "Age"}.DisplayLabel())
	assert.Equal(t, "age", Property{Name: "age"}.DisplayLabel())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(ageProp, statusProp, Property{Name: "age", Label: "Years", Type: TypeNumber})
	require.Equal(t, 2, r.Len())
	all := r.All()
	assert.Equal(t, "age", all[0].Name)
	assert.Equal(t, "Years", all[0].Label)
	_, ok := r.Get("missing")
	assert.False(t, ok)

	var nilReg *Registry
	assert.Equal(t, 0, nilReg.Len())
	assert.Nil(t, nilReg.All())
}
