// ==============================================================================================
// FILE: object/object_unit_test.go
// ==============================================================================================
// PURPOSE: Validates display forms, kind inference and Symbol construction.
// ==============================================================================================

package object

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectForms(t *testing.T) {
	assert.Equal(t, "42", (&Integer{Value: 42}).Inspect())
	assert.Equal(t, "-7", (&Integer{Value: -7}).Inspect())
	assert.Equal(t, "3.14", (&Float{Value: 3.14}).Inspect())
	assert.Equal(t, "true", TRUE.Inspect())
	assert.Equal(t, "false", FALSE.Inspect())
	assert.Equal(t, "null", NULL.Inspect())
	assert.Equal(t, "hello", (&String{Value: "hello"}).Inspect())
}

func TestArrayInspect(t *testing.T) {
	arr := &Array{Elements: []*Symbol{
		NewSymbol(&Integer{Value: 1}),
		NewSymbol(&String{Value: "two"}),
		NewSymbol(NULL),
	}}
	assert.Equal(t, "[1, two, null]", arr.Inspect())
	assert.Equal(t, "[]", (&Array{}).Inspect())
}

func TestStructInstanceInspect(t *testing.T) {
	inst := &StructInstance{
		TypeName: "P",
		Fields: map[string]*Symbol{
			"x": NewSymbol(&Integer{Value: 1}),
			"y": NewSymbol(&Integer{Value: 2}),
		},
		Order: []string{"x", "y"},
	}
	assert.Equal(t, "P { x: 1, y: 2 }", inst.Inspect())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInt, KindOf(&Integer{}))
	assert.Equal(t, KindFloat, KindOf(&Float{}))
	assert.Equal(t, KindBool, KindOf(TRUE))
	assert.Equal(t, KindString, KindOf(&String{}))
	assert.Equal(t, KindNull, KindOf(NULL))
	assert.Equal(t, KindArray, KindOf(&Array{}))
	assert.Equal(t, KindStruct, KindOf(&StructInstance{}))
	assert.Equal(t, KindStructType, KindOf(&StructType{}))
	assert.Equal(t, KindFunction, KindOf(&Function{}))
	assert.Equal(t, KindFunction, KindOf(&Builtin{}))
	assert.Equal(t, KindUnknown, KindOf(&ReturnValue{}))
}

func TestSymbolConstruction(t *testing.T) {
	sym := NewSymbol(&Integer{Value: 3})
	assert.Equal(t, KindInt, sym.Kind)
	assert.True(t, sym.IsMutable)

	konst := NewConstSymbol(&StructType{Name: "P"}, KindStructType)
	assert.Equal(t, KindStructType, konst.Kind)
	assert.False(t, konst.IsMutable)

	assert.Equal(t, KindNull, NullSymbol.Kind)
	assert.False(t, NullSymbol.IsMutable)
	assert.Equal(t, NULL, NullSymbol.Value)
}

func TestStructTypeHasField(t *testing.T) {
	st := &StructType{Name: "P", Fields: []string{"x", "y"}}
	assert.True(t, st.HasField("x"))
	assert.False(t, st.HasField("z"))
}

func TestBuiltinsTable(t *testing.T) {
	var buf bytes.Buffer
	builtins := Builtins(&buf)
	names := map[string]bool{}
	for _, b := range builtins {
		names[b.Name] = true
	}
	require.Equal(t, map[string]bool{"print": true, "len": true, "type": true}, names)
}
