// ==============================================================================================
// FILE: evaluator/evaluator_integration_test.go
// ==============================================================================================
// PURPOSE: End-to-end evaluation: scoping, closures, non-local return,
//          structs, arrays, loops and scope-cursor restoration on all exit
//          paths.
// ==============================================================================================

package evaluator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bluewraith04/dust/diag"
	"github.com/Bluewraith04/dust/parser"
)

func TestArithmeticPrecedenceProgram(t *testing.T) {
	_, out := run(t, `let x = 1 + 2 * 3 ** 2; print(x);`)
	require.Equal(t, "19\n", out)
}

func TestClosures(t *testing.T) {
	_, out := run(t, `
fn make(a) {
	fn inner(b) { return a + b; }
	return inner;
}
let f = make(10);
print(f(5));
`)
	require.Equal(t, "15\n", out)
}

func TestClosuresAreIndependent(t *testing.T) {
	_, out := run(t, `
fn make(a) {
	fn inner(b) { return a + b; }
	return inner;
}
let f = make(10);
let g = make(100);
print(f(1), g(1));
`)
	require.Equal(t, "11 101\n", out)
}

func TestStructFieldMutation(t *testing.T) {
	_, out := run(t, `
struct P { x, y, };
let p = P{x: 1, y: 2};
p.x = 7;
print(p.x + p.y);
`)
	require.Equal(t, "9\n", out)
}

func TestArraysAndFor(t *testing.T) {
	_, out := run(t, `
let xs = [1, 2, 3];
let s = 0;
for e in xs { s = s + e; }
print(s);
`)
	require.Equal(t, "6\n", out)
}

func TestForOverString(t *testing.T) {
	_, out := run(t, `
let acc = "";
for c in "abc" { acc = acc + c + "."; }
print(acc);
`)
	require.Equal(t, "a.b.c.\n", out)
}

func TestForTypeError(t *testing.T) {
	err := runErr(t, `for e in 42 { }`)
	require.Equal(t, "TypeError", diag.Code(err))
}

// The loop variable lives in the loop's own scope.
func TestForLoopVariableScope(t *testing.T) {
	err := runErr(t, `for e in [1, 2] { } e;`)
	require.Equal(t, "Undefined", diag.Code(err))
}

func TestWhileLoop(t *testing.T) {
	_, out := run(t, `
let i = 0;
let sum = 0;
while i < 5 {
	i = i + 1;
	sum = sum + i;
}
print(sum);
`)
	require.Equal(t, "15\n", out)
}

func TestIfElifElse(t *testing.T) {
	src := `
fn classify(n) {
	if n < 0 { return "neg"; }
	elif n == 0 { return "zero"; }
	elif n < 10 { return "small"; }
	else { return "big"; }
}
print(classify(-3), classify(0), classify(5), classify(99));
`
	_, out := run(t, src)
	require.Equal(t, "neg zero small big\n", out)
}

// Only the first truthy branch runs.
func TestIfBranchSuppression(t *testing.T) {
	_, out := run(t, `
fn loud(tag, v) { print(tag); return v; }
if loud("a", true) { print("first"); }
elif loud("b", true) { print("second"); }
`)
	require.Equal(t, "a\nfirst\n", out)
}

func TestReturnUnwindsLoopsAndBlocks(t *testing.T) {
	_, out := run(t, `
fn find(xs, needle) {
	for x in xs {
		if x == needle {
			{ return "found"; }
		}
	}
	return "missing";
}
print(find([1, 2, 3], 2), find([1], 9));
`)
	require.Equal(t, "found missing\n", out)
}

func TestFunctionWithoutReturnYieldsNull(t *testing.T) {
	_, out := run(t, `fn noop() {} print(type(noop()));`)
	require.Equal(t, "null\n", out)
}

func TestRecursion(t *testing.T) {
	_, out := run(t, `
fn fib(n) {
	if n < 2 { return n; }
	return fib(n - 1) + fib(n - 2);
}
print(fib(10));
`)
	require.Equal(t, "55\n", out)
}

func TestBlockScoping(t *testing.T) {
	err := runErr(t, `{ let inner = 1; } inner;`)
	require.Equal(t, "Undefined", diag.Code(err))

	_, out := run(t, `
let x = 1;
{
	let x = 2;
	print(x);
}
print(x);
`)
	require.Equal(t, "2\n1\n", out)
}

// After an error inside a nested scope, the cursor must be back at the root:
// names defined in the failed scope are unreachable.
func TestScopeCursorRestoredAfterError(t *testing.T) {
	program, err := parser.Parse(`{ let q = 1; ghost(); }`)
	require.NoError(t, err)

	var buf bytes.Buffer
	interp := NewWithOutput(&buf)
	_, evalErr := interp.EvalItem(program.Statements[0])
	require.Error(t, evalErr)
	require.Equal(t, "Undefined", diag.Code(evalErr))

	// q must not have leaked into the root scope.
	program, err = parser.Parse(`q;`)
	require.NoError(t, err)
	_, evalErr = interp.EvalItem(program.Statements[0])
	require.Error(t, evalErr)
	require.Equal(t, "Undefined", diag.Code(evalErr))

	// The root scope still works normally.
	program, err = parser.Parse(`let q = 7; q;`)
	require.NoError(t, err)
	var last interface{ Inspect() string }
	for _, item := range program.Statements {
		result, err := interp.EvalItem(item)
		require.NoError(t, err)
		last = result
	}
	require.Equal(t, "7", last.Inspect())
}

func TestStructLiteralErrors(t *testing.T) {
	err := runErr(t, `struct R { a, b, }; let r = R{a: 1};`)
	require.Equal(t, "MissingField", diag.Code(err))
	require.Contains(t, err.Error(), "b")

	err = runErr(t, `struct R { a, }; let r = R{a: 1, a: 2};`)
	require.Equal(t, "DuplicateField", diag.Code(err))

	err = runErr(t, `struct R { a, }; let r = R{z: 1};`)
	require.Equal(t, "NoSuchField", diag.Code(err))

	err = runErr(t, `let r = Ghost{a: 1};`)
	require.Equal(t, "UnknownStructType", diag.Code(err))

	// A non-struct_type symbol is not a constructor either.
	err = runErr(t, `let NotAType = 1; let r = NotAType{a: 1};`)
	require.Equal(t, "UnknownStructType", diag.Code(err))
}

func TestAssignToImmutableFunction(t *testing.T) {
	err := runErr(t, `fn g() {} g = 1;`)
	require.Equal(t, "Immutable", diag.Code(err))
}

func TestAssignToBuiltin(t *testing.T) {
	err := runErr(t, `print = 1;`)
	require.Equal(t, "Immutable", diag.Code(err))
}

func TestRedefinitionInSameScope(t *testing.T) {
	err := runErr(t, `let x = 1; let x = 2;`)
	require.Equal(t, "Redefinition", diag.Code(err))

	// A child scope may shadow freely.
	_, out := run(t, `let x = 1; { let x = 2; print(x); }`)
	require.Equal(t, "2\n", out)
}

func TestContainersSharedByReference(t *testing.T) {
	_, out := run(t, `
let xs = [1, 2, 3];
let ys = xs;
ys[0] = 99;
print(xs[0]);

struct P { x, y, };
let p = P{x: 1, y: 2};
let q = p;
q.y = 42;
print(p.y);
`)
	require.Equal(t, "99\n42\n", out)
}

func TestIndexAssignment(t *testing.T) {
	_, out := run(t, `
let xs = [1, 2, 3];
xs[1] = 20;
print(xs);
`)
	require.Equal(t, "[1, 20, 3]\n", out)

	err := runErr(t, `let xs = [1]; xs[3] = 0;`)
	require.Equal(t, "IndexOutOfRange", diag.Code(err))

	err = runErr(t, `let s = "abc"; s[0] = "x";`)
	require.Equal(t, "TypeError", diag.Code(err))
}

func TestNestedPlaceAssignment(t *testing.T) {
	_, out := run(t, `
struct Cell { v, };
let grid = [Cell{v: 0}, Cell{v: 0}];
grid[1].v = 5;
print(grid[1].v, grid[0].v);
`)
	require.Equal(t, "5 0\n", out)
}

func TestMemberAccessErrors(t *testing.T) {
	err := runErr(t, `struct P { x, }; let p = P{x: 1}; p.z;`)
	require.Equal(t, "NoSuchField", diag.Code(err))

	err = runErr(t, `let n = 1; n.x;`)
	require.Equal(t, "TypeError", diag.Code(err))

	err = runErr(t, `ghost.x = 1;`)
	require.Equal(t, "Undefined", diag.Code(err))
}

func TestDisplayForms(t *testing.T) {
	_, out := run(t, `
struct P { x, y, };
let p = P{x: 1, y: "two"};
print(p);
print([1, 2.5, "s", true, null]);
print("plain string");
`)
	require.Equal(t, "P { x: 1, y: two }\n[1, 2.5, s, true, null]\nplain string\n", out)
}

func TestPrintReturnsNull(t *testing.T) {
	_, out := run(t, `print(type(print("x")));`)
	require.Equal(t, "x\nnull\n", out)
}

func TestTypeBuiltin(t *testing.T) {
	_, out := run(t, `
struct P { x, };
fn f() {}
print(type(1), type(1.5), type("s"), type(true), type(null));
print(type([1]), type(P{x: 1}), type(f), type(print), type(P));
`)
	require.Equal(t, "int float string bool null\narray struct function function struct_type\n", out)
}

func TestImportIsNoOp(t *testing.T) {
	_, out := run(t, `import "prelude"; print("after");`)
	require.Equal(t, "after\n", out)
}

func TestTopLevelReturnEndsProgram(t *testing.T) {
	program, err := parser.Parse(`print("before"); return 5; print("after");`)
	require.NoError(t, err)

	var buf bytes.Buffer
	interp := NewWithOutput(&buf)
	require.NoError(t, interp.Run(program))
	require.Equal(t, "before\n", buf.String())
}

func TestRunStopsOnFirstError(t *testing.T) {
	program, err := parser.Parse(`print("one"); ghost; print("two");`)
	require.NoError(t, err)

	var buf bytes.Buffer
	interp := NewWithOutput(&buf)
	runErr := interp.Run(program)
	require.Error(t, runErr)
	require.Equal(t, "Undefined", diag.Code(runErr))
	require.Equal(t, "one\n", buf.String())
}

// Parameters are ordinary mutable bindings inside the call scope.
func TestParameterMutation(t *testing.T) {
	_, out := run(t, `
fn double(n) { n = n * 2; return n; }
let v = 3;
print(double(v), v);
`)
	require.Equal(t, "6 3\n", out)
}

// A function value outliving its block keeps the captured environment alive.
func TestClosureOutlivesBlock(t *testing.T) {
	_, out := run(t, `
let f = null;
{
	let secret = 41;
	fn reveal() { return secret + 1; }
	f = reveal;
}
print(f());
`)
	require.Equal(t, "42\n", out)
}
