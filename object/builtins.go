// ==============================================================================================
// FILE: object/builtins.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: The built-in library: host-provided callables bound into the root
//          environment as immutable symbols of kind "function".
// ==============================================================================================

package object

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/samber/oops"
)

// Builtins constructs the built-in table over the given output writer.
// print writes there; the driver decides where "there" is (stdout normally,
// a buffer in tests).
func Builtins(out io.Writer) []*Builtin {
	return []*Builtin{
		{
			Name: "print",
			Fn: func(args ...Object) (Object, error) {
				parts := make([]string, 0, len(args))
				for _, arg := range args {
					parts = append(parts, arg.Inspect())
				}
				fmt.Fprintln(out, strings.Join(parts, " "))
				return NULL, nil
			},
		},
		{
			Name: "len",
			Fn: func(args ...Object) (Object, error) {
				if len(args) != 1 {
					return nil, oops.Code("Arity").Errorf("len() takes 1 argument, got %d", len(args))
				}
				switch arg := args[0].(type) {
				case *Array:
					return &Integer{Value: int64(len(arg.Elements))}, nil
				case *String:
					return &Integer{Value: int64(utf8.RuneCountInString(arg.Value))}, nil
				default:
					return nil, oops.Code("TypeError").Errorf("len() only supports arrays and strings, got %s", KindOf(args[0]))
				}
			},
		},
		{
			Name: "type",
			Fn: func(args ...Object) (Object, error) {
				if len(args) != 1 {
					return nil, oops.Code("Arity").Errorf("type() takes 1 argument, got %d", len(args))
				}
				return &String{Value: KindOf(args[0])}, nil
			},
		},
	}
}

// NewRootEnvironment creates the global scope pre-populated with the
// built-in library. Built-ins are immutable bindings of kind "function".
func NewRootEnvironment(out io.Writer) *Environment {
	env := NewEnvironment()
	for _, b := range Builtins(out) {
		// Define cannot fail here: builtin names are unique.
		_ = env.Define(b.Name, NewConstSymbol(b, KindFunction), false)
	}
	return env
}
