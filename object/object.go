// ==============================================================================================
// FILE: object/object.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: Defines the runtime type system for the Dust language.
//          It provides the structures for all runtime values (Integers, Functions,
//          Structs, etc.) and the interfaces required to interact with them.
// ==============================================================================================

package object

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/Bluewraith04/dust/ast"
)

// ObjectType is a string alias for identifying the type of an object at runtime.
type ObjectType string

const (
	// Primitive Types
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	BOOLEAN_OBJ = "BOOLEAN"
	STRING_OBJ  = "STRING"
	NULL_OBJ    = "NULL"

	// Internal Control Flow Types
	RETURN_VALUE_OBJ = "RETURN_VALUE" // Wraps a return value to bubble up through the AST

	// Composite Types
	ARRAY_OBJ       = "ARRAY"
	STRUCT_TYPE_OBJ = "STRUCT_TYPE"     // The declared blueprint
	STRUCT_INST_OBJ = "STRUCT_INSTANCE" // The concrete instance

	// Callables
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
)

// Object is the base interface that every value in Dust must implement.
type Object interface {
	Type() ObjectType // Returns the type constant
	Inspect() string  // Returns the display form
}

// Singletons shared across the interpreter. TRUE/FALSE/NULL are never
// allocated anywhere else.
var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// ==============================================================================================
// PRIMITIVE OBJECTS
// ==============================================================================================

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// ==============================================================================================
// INTERNAL WRAPPERS
// ==============================================================================================

// ReturnValue carries a non-local return through the evaluator. It escapes
// blocks, loops and conditionals transparently; a function-call boundary
// unwraps it, and so does the top level of a program (Run, EvalItem).
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// ==============================================================================================
// COMPOSITE OBJECTS
// ==============================================================================================

// Array is an ordered sequence of Symbol cells. Elements are individually
// addressable so index assignment mutates in place, visible to every holder.
type Array struct {
	Elements []*Symbol
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	var out bytes.Buffer
	parts := make([]string, 0, len(a.Elements))
	for _, el := range a.Elements {
		parts = append(parts, el.Value.Inspect())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}

// StructType is the declared blueprint: the type name plus the ordered list
// of field names. Bound as an immutable symbol of kind "struct_type".
type StructType struct {
	Name   string
	Fields []string
}

func (st *StructType) Type() ObjectType { return STRUCT_TYPE_OBJ }
func (st *StructType) Inspect() string  { return "struct " + st.Name }

// HasField reports whether the declared field list contains name.
func (st *StructType) HasField(name string) bool {
	for _, f := range st.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// StructInstance is a concrete value of a declared struct type: a mapping of
// field name to Symbol cell, tagged with the type name. Field cells are
// shared by reference through the enclosing Symbol.
type StructInstance struct {
	TypeName string
	Fields   map[string]*Symbol
	Order    []string // declared field order, for stable display
}

func (si *StructInstance) Type() ObjectType { return STRUCT_INST_OBJ }
func (si *StructInstance) Inspect() string {
	var out bytes.Buffer
	parts := make([]string, 0, len(si.Order))
	for _, name := range si.Order {
		if cell, ok := si.Fields[name]; ok {
			parts = append(parts, name+": "+cell.Value.Inspect())
		}
	}
	out.WriteString(si.TypeName)
	out.WriteString(" { ")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(" }")
	return out.String()
}

// ==============================================================================================
// CALLABLES
// ==============================================================================================

// Function is a user-defined closure: parameters, body, and the environment
// captured at declaration time.
type Function struct {
	Name       string
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment // Closure: the environment at definition time
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, p.Value)
	}
	return "fn " + f.Name + "(" + strings.Join(params, ", ") + ") { ... }"
}

// BuiltinFunction is the signature for host-provided callables.
type BuiltinFunction func(args ...Object) (Object, error)

// Builtin wraps a host-provided function bound into the root environment.
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function " + b.Name }
