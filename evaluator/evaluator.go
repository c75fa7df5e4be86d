// ==============================================================================================
// FILE: evaluator/evaluator.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Implements the runtime execution engine.
//          It traverses the AST under a current-environment cursor and produces
//          side effects (IO) or results (Objects). It handles lexical scoping,
//          closures, non-local return and error propagation.
// ==============================================================================================

package evaluator

import (
	"io"
	"math"
	"os"
	"strings"

	"github.com/samber/oops"

	"github.com/Bluewraith04/dust/ast"
	"github.com/Bluewraith04/dust/object"
	"github.com/Bluewraith04/dust/token"
)

// Shared singletons (allocated once in the object package).
var (
	NULL  = object.NULL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Interpreter evaluates programs against a single root environment. The env
// field is the current-environment cursor: it is swapped on entering blocks,
// function calls and for-loops, and restored on every exit path.
type Interpreter struct {
	globalEnv *object.Environment
	env       *object.Environment
}

// New creates an interpreter whose root environment is pre-populated with the
// built-in library writing to stdout.
func New() *Interpreter {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput creates an interpreter whose built-ins write to out.
func NewWithOutput(out io.Writer) *Interpreter {
	root := object.NewRootEnvironment(out)
	return &Interpreter{globalEnv: root, env: root}
}

// GlobalEnv exposes the root environment, which persists across EvalItem
// calls for the lifetime of the interpreter.
func (i *Interpreter) GlobalEnv() *object.Environment { return i.globalEnv }

// Run evaluates every top-level item of a program in order. The first error
// aborts the run. A top-level return ends the program quietly.
func (i *Interpreter) Run(program *ast.Program) error {
	_, err := i.eval(program)
	return err
}

// EvalItem evaluates a single top-level item (the REPL entry point) and
// returns its value. A non-local return surfacing here yields its payload.
func (i *Interpreter) EvalItem(stmt ast.Statement) (object.Object, error) {
	result, err := i.eval(stmt)
	if err != nil {
		return nil, err
	}
	if rv, ok := result.(*object.ReturnValue); ok {
		return rv.Value, nil
	}
	return result, nil
}

// eval is the heart of the interpreter. It dispatches on the AST variant.
func (i *Interpreter) eval(node ast.Node) (object.Object, error) {
	switch node := node.(type) {

	// --- Root ---
	case *ast.Program:
		return i.evalProgram(node)

	// --- Declarations ---
	case *ast.FunctionDeclaration:
		return i.evalFunctionDeclaration(node)
	case *ast.StructDeclaration:
		return i.evalStructDeclaration(node)
	case *ast.ImportStatement:
		// Parsed and accepted; reserved for future module loading.
		return NULL, nil

	// --- Statements ---
	case *ast.LetStatement:
		return i.evalLetStatement(node)
	case *ast.AssignStatement:
		return i.evalAssignStatement(node)
	case *ast.IfStatement:
		return i.evalIfStatement(node)
	case *ast.WhileStatement:
		return i.evalWhileStatement(node)
	case *ast.ForStatement:
		return i.evalForStatement(node)
	case *ast.ReturnStatement:
		return i.evalReturnStatement(node)
	case *ast.ExpressionStatement:
		return i.eval(node.Expression)
	case *ast.BlockStatement:
		return i.evalBlockStatement(node)

	// --- Expressions ---
	case *ast.Identifier:
		return i.evalIdentifier(node)
	case *ast.PrefixExpression:
		return i.evalPrefixExpression(node)
	case *ast.InfixExpression:
		return i.evalInfixExpression(node)
	case *ast.CallExpression:
		return i.evalCallExpression(node)
	case *ast.MemberAccessExpression:
		return i.evalMemberAccess(node)
	case *ast.IndexExpression:
		return i.evalIndexExpression(node)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(node)
	case *ast.StructLiteral:
		return i.evalStructLiteral(node)

	// --- Literals ---
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}, nil
	case *ast.FloatLiteral:
		return &object.Float{Value: node.Value}, nil
	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil
	case *ast.BooleanLiteral:
		return nativeBool(node.Value), nil
	case *ast.NullLiteral:
		return NULL, nil
	}

	return nil, oops.Code("NotImplemented").Errorf("no evaluation rule for %T", node)
}

// evalProgram evaluates top-level items in order. After each item the
// environment cursor is back at the root (the scope discipline below
// guarantees it, including on error).
func (i *Interpreter) evalProgram(p *ast.Program) (object.Object, error) {
	var result object.Object = NULL
	for _, s := range p.Statements {
		res, err := i.eval(s)
		if err != nil {
			return nil, err
		}
		if rv, ok := res.(*object.ReturnValue); ok {
			// A top-level return ends the program with its value.
			return rv.Value, nil
		}
		result = res
	}
	return result, nil
}

// evalBlockStatement opens a fresh child scope, evaluates the contained
// statements in order and restores the parent scope on any exit: normal,
// non-local return, or error.
func (i *Interpreter) evalBlockStatement(block *ast.BlockStatement) (object.Object, error) {
	prev := i.env
	i.env = object.NewEnclosedEnvironment(prev)
	defer func() { i.env = prev }()

	var result object.Object = NULL
	for _, s := range block.Statements {
		res, err := i.eval(s)
		if err != nil {
			return nil, err
		}
		if _, ok := res.(*object.ReturnValue); ok {
			return res, nil
		}
		result = res
	}
	return result, nil
}

// ----------------------------------------------------------------------------
// DECLARATIONS
// ----------------------------------------------------------------------------

func (i *Interpreter) evalFunctionDeclaration(node *ast.FunctionDeclaration) (object.Object, error) {
	fn := &object.Function{
		Name:       node.Name.Value,
		Parameters: node.Parameters,
		Body:       node.Body,
		Env:        i.env, // capture the declaration environment (closure)
	}
	sym := object.NewConstSymbol(fn, object.KindFunction)
	if err := i.env.Define(node.Name.Value, sym, false); err != nil {
		return nil, withLine(err, node.Token)
	}
	return NULL, nil
}

func (i *Interpreter) evalStructDeclaration(node *ast.StructDeclaration) (object.Object, error) {
	fields := make([]string, 0, len(node.Fields))
	for _, f := range node.Fields {
		fields = append(fields, f.Value)
	}
	st := &object.StructType{Name: node.Name.Value, Fields: fields}
	sym := object.NewConstSymbol(st, object.KindStructType)
	if err := i.env.Define(node.Name.Value, sym, false); err != nil {
		return nil, withLine(err, node.Token)
	}
	return NULL, nil
}

// ----------------------------------------------------------------------------
// STATEMENTS
// ----------------------------------------------------------------------------

func (i *Interpreter) evalLetStatement(node *ast.LetStatement) (object.Object, error) {
	val, err := i.eval(node.Value)
	if err != nil {
		return nil, err
	}
	if err := i.env.Define(node.Name.Value, object.NewSymbol(val), false); err != nil {
		return nil, withLine(err, node.Token)
	}
	return NULL, nil
}

func (i *Interpreter) evalAssignStatement(node *ast.AssignStatement) (object.Object, error) {
	val, err := i.eval(node.Value)
	if err != nil {
		return nil, err
	}

	switch target := node.Target.(type) {
	case *ast.Identifier:
		if err := i.env.Assign(target.Value, val); err != nil {
			return nil, withLine(err, target.Token)
		}
		return NULL, nil
	case *ast.MemberAccessExpression, *ast.IndexExpression:
		cell, err := i.resolvePlace(node.Target)
		if err != nil {
			return nil, err
		}
		if !cell.IsMutable {
			return nil, oops.Code("Immutable").With("line", node.Token.Line).
				Errorf("cannot assign through immutable cell %s", node.Target.String())
		}
		cell.Value = val
		return NULL, nil
	default:
		return nil, oops.Code("NotImplemented").With("line", node.Token.Line).
			Errorf("invalid assignment target %s", node.Target.String())
	}
}

// resolvePlace resolves a member or index chain to the Symbol cell it
// designates, so assignment can mutate it in place.
func (i *Interpreter) resolvePlace(expr ast.Expression) (*object.Symbol, error) {
	switch e := expr.(type) {
	case *ast.MemberAccessExpression:
		obj, err := i.eval(e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*object.StructInstance)
		if !ok {
			return nil, oops.Code("TypeError").With("line", e.Token.Line).
				Errorf("member access on %s value, expected struct", object.KindOf(obj))
		}
		cell, ok := inst.Fields[e.Field.Value]
		if !ok {
			return nil, oops.Code("NoSuchField").With("line", e.Token.Line).
				Errorf("struct %s has no field %q", inst.TypeName, e.Field.Value)
		}
		return cell, nil
	case *ast.IndexExpression:
		left, err := i.eval(e.Left)
		if err != nil {
			return nil, err
		}
		idx, err := i.evalIndexValue(e)
		if err != nil {
			return nil, err
		}
		arr, ok := left.(*object.Array)
		if !ok {
			return nil, oops.Code("TypeError").With("line", e.Token.Line).
				Errorf("index assignment on %s value, expected array", object.KindOf(left))
		}
		if idx < 0 || idx >= int64(len(arr.Elements)) {
			return nil, oops.Code("IndexOutOfRange").With("line", e.Token.Line).
				Errorf("index %d out of range for array of length %d", idx, len(arr.Elements))
		}
		return arr.Elements[idx], nil
	default:
		return nil, oops.Code("NotImplemented").Errorf("not a place expression: %s", expr.String())
	}
}

func (i *Interpreter) evalIfStatement(node *ast.IfStatement) (object.Object, error) {
	for _, branch := range node.Branches {
		cond, err := i.eval(branch.Condition)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return i.eval(branch.Body)
		}
	}
	if node.Else != nil {
		return i.eval(node.Else)
	}
	return NULL, nil
}

func (i *Interpreter) evalWhileStatement(node *ast.WhileStatement) (object.Object, error) {
	for {
		cond, err := i.eval(node.Condition)
		if err != nil {
			return nil, err
		}
		if !isTruthy(cond) {
			return NULL, nil
		}
		res, err := i.eval(node.Body)
		if err != nil {
			return nil, err
		}
		if _, ok := res.(*object.ReturnValue); ok {
			return res, nil
		}
	}
}

// evalForStatement iterates an array or string. The loop variable lives in a
// fresh scope: defined on the first iteration, reassigned thereafter. The
// enclosing scope is restored on every exit path.
func (i *Interpreter) evalForStatement(node *ast.ForStatement) (object.Object, error) {
	iterable, err := i.eval(node.Iterable)
	if err != nil {
		return nil, err
	}

	var elements []object.Object
	switch it := iterable.(type) {
	case *object.Array:
		elements = make([]object.Object, 0, len(it.Elements))
		for _, cell := range it.Elements {
			elements = append(elements, cell.Value)
		}
	case *object.String:
		for _, r := range it.Value {
			elements = append(elements, &object.String{Value: string(r)})
		}
	default:
		return nil, oops.Code("TypeError").With("line", node.Token.Line).
			Errorf("for loop expects an array or string, got %s", object.KindOf(iterable))
	}

	prev := i.env
	i.env = object.NewEnclosedEnvironment(prev)
	defer func() { i.env = prev }()

	for idx, element := range elements {
		if idx == 0 {
			if err := i.env.Define(node.Name.Value, object.NewSymbol(element), false); err != nil {
				return nil, withLine(err, node.Token)
			}
		} else if err := i.env.Assign(node.Name.Value, element); err != nil {
			return nil, withLine(err, node.Token)
		}
		res, err := i.eval(node.Body)
		if err != nil {
			return nil, err
		}
		if _, ok := res.(*object.ReturnValue); ok {
			return res, nil
		}
	}
	return NULL, nil
}

func (i *Interpreter) evalReturnStatement(node *ast.ReturnStatement) (object.Object, error) {
	if node.ReturnValue == nil {
		return &object.ReturnValue{Value: NULL}, nil
	}
	val, err := i.eval(node.ReturnValue)
	if err != nil {
		return nil, err
	}
	return &object.ReturnValue{Value: val}, nil
}

// ----------------------------------------------------------------------------
// EXPRESSIONS
// ----------------------------------------------------------------------------

func (i *Interpreter) evalIdentifier(node *ast.Identifier) (object.Object, error) {
	sym, ok := i.env.Ref(node.Value)
	if !ok {
		return nil, oops.Code("Undefined").With("line", node.Token.Line).
			Errorf("undefined variable %q", node.Value)
	}
	return sym.Value, nil
}

func (i *Interpreter) evalPrefixExpression(node *ast.PrefixExpression) (object.Object, error) {
	right, err := i.eval(node.Right)
	if err != nil {
		return nil, err
	}
	switch node.Operator {
	case "!":
		return nativeBool(!isTruthy(right)), nil
	case "-":
		switch obj := right.(type) {
		case *object.Integer:
			return &object.Integer{Value: -obj.Value}, nil
		case *object.Float:
			return &object.Float{Value: -obj.Value}, nil
		default:
			return nil, oops.Code("TypeError").With("line", node.Token.Line).
				Errorf("unary - expects a number, got %s", object.KindOf(right))
		}
	}
	return nil, oops.Code("NotImplemented").Errorf("unknown prefix operator %q", node.Operator)
}

// evalInfixExpression evaluates both operands (left before right) and applies
// the operator. && and || are not short-circuiting: both sides always run.
func (i *Interpreter) evalInfixExpression(node *ast.InfixExpression) (object.Object, error) {
	left, err := i.eval(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Operator {
	case "&&":
		if !isTruthy(left) {
			return left, nil
		}
		return right, nil
	case "||":
		if isTruthy(left) {
			return left, nil
		}
		return right, nil
	case "==":
		return nativeBool(objectsEqual(left, right)), nil
	case "!=":
		return nativeBool(!objectsEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		return i.evalComparison(node, left, right)
	case "+", "-", "*", "/", "%", "**":
		return i.evalArithmetic(node, left, right)
	}
	return nil, oops.Code("NotImplemented").With("line", node.Token.Line).
		Errorf("unknown binary operator %q", node.Operator)
}

func (i *Interpreter) evalComparison(node *ast.InfixExpression, left, right object.Object) (object.Object, error) {
	if ls, ok := left.(*object.String); ok {
		if rs, ok := right.(*object.String); ok {
			switch node.Operator {
			case "<":
				return nativeBool(ls.Value < rs.Value), nil
			case "<=":
				return nativeBool(ls.Value <= rs.Value), nil
			case ">":
				return nativeBool(ls.Value > rs.Value), nil
			case ">=":
				return nativeBool(ls.Value >= rs.Value), nil
			}
		}
	}

	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, oops.Code("TypeError").With("line", node.Token.Line).
			Errorf("operator %s expects two numbers or two strings, got %s and %s",
				node.Operator, object.KindOf(left), object.KindOf(right))
	}
	switch node.Operator {
	case "<":
		return nativeBool(lf < rf), nil
	case "<=":
		return nativeBool(lf <= rf), nil
	case ">":
		return nativeBool(lf > rf), nil
	case ">=":
		return nativeBool(lf >= rf), nil
	}
	return nil, oops.Code("NotImplemented").Errorf("unknown comparison operator %q", node.Operator)
}

// evalArithmetic implements + - * / % **. Two integers stay in integer
// arithmetic except for /, which always produces a float. String + string
// concatenates.
func (i *Interpreter) evalArithmetic(node *ast.InfixExpression, left, right object.Object) (object.Object, error) {
	if node.Operator == "+" {
		if ls, ok := left.(*object.String); ok {
			if rs, ok := right.(*object.String); ok {
				return &object.String{Value: ls.Value + rs.Value}, nil
			}
		}
	}

	li, lIsInt := left.(*object.Integer)
	ri, rIsInt := right.(*object.Integer)
	if lIsInt && rIsInt {
		return i.evalIntegerArithmetic(node, li.Value, ri.Value)
	}

	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, oops.Code("TypeError").With("line", node.Token.Line).
			Errorf("operator %s expects numeric operands, got %s and %s",
				node.Operator, object.KindOf(left), object.KindOf(right))
	}

	switch node.Operator {
	case "+":
		return &object.Float{Value: lf + rf}, nil
	case "-":
		return &object.Float{Value: lf - rf}, nil
	case "*":
		return &object.Float{Value: lf * rf}, nil
	case "/":
		if rf == 0 {
			return nil, oops.Code("DivisionByZero").With("line", node.Token.Line).
				Errorf("division by zero")
		}
		return &object.Float{Value: lf / rf}, nil
	case "%":
		if rf == 0 {
			return nil, oops.Code("DivisionByZero").With("line", node.Token.Line).
				Errorf("modulo by zero")
		}
		return &object.Float{Value: math.Mod(lf, rf)}, nil
	case "**":
		return &object.Float{Value: math.Pow(lf, rf)}, nil
	}
	return nil, oops.Code("NotImplemented").Errorf("unknown arithmetic operator %q", node.Operator)
}

func (i *Interpreter) evalIntegerArithmetic(node *ast.InfixExpression, l, r int64) (object.Object, error) {
	switch node.Operator {
	case "+":
		return &object.Integer{Value: l + r}, nil
	case "-":
		return &object.Integer{Value: l - r}, nil
	case "*":
		return &object.Integer{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, oops.Code("DivisionByZero").With("line", node.Token.Line).
				Errorf("division by zero")
		}
		// Division always produces a float, even on two integers.
		return &object.Float{Value: float64(l) / float64(r)}, nil
	case "%":
		if r == 0 {
			return nil, oops.Code("DivisionByZero").With("line", node.Token.Line).
				Errorf("modulo by zero")
		}
		return &object.Integer{Value: l % r}, nil
	case "**":
		if r < 0 {
			return &object.Float{Value: math.Pow(float64(l), float64(r))}, nil
		}
		return &object.Integer{Value: intPow(l, r)}, nil
	}
	return nil, oops.Code("NotImplemented").Errorf("unknown arithmetic operator %q", node.Operator)
}

// intPow is exponentiation by squaring on int64.
func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func (i *Interpreter) evalCallExpression(node *ast.CallExpression) (object.Object, error) {
	callee, err := i.eval(node.Function)
	if err != nil {
		return nil, err
	}

	args := make([]object.Object, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		val, err := i.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	switch fn := callee.(type) {
	case *object.Function:
		return i.applyFunction(fn, args, node.Token.Line)
	case *object.Builtin:
		return fn.Fn(args...)
	default:
		return nil, oops.Code("NotCallable").With("line", node.Token.Line).
			Errorf("%s value is not callable", object.KindOf(callee))
	}
}

// applyFunction invokes a user-defined closure: a fresh scope whose parent is
// the environment captured at declaration time, parameters bound as mutable
// symbols, the body evaluated under the swapped cursor. A non-local return is
// caught here and becomes the call's value; otherwise the call yields null.
func (i *Interpreter) applyFunction(fn *object.Function, args []object.Object, line int) (object.Object, error) {
	if len(args) != len(fn.Parameters) {
		return nil, oops.Code("Arity").With("line", line).
			Errorf("%s() takes %d argument(s), got %d", fn.Name, len(fn.Parameters), len(args))
	}

	callEnv := object.NewEnclosedEnvironment(fn.Env)
	for idx, param := range fn.Parameters {
		if err := callEnv.Define(param.Value, object.NewSymbol(args[idx]), true); err != nil {
			return nil, err
		}
	}

	prev := i.env
	i.env = callEnv
	defer func() { i.env = prev }()

	// The body's statements run directly in the call scope; this is the
	// call boundary that observes the return signal.
	for _, s := range fn.Body.Statements {
		res, err := i.eval(s)
		if err != nil {
			return nil, err
		}
		if rv, ok := res.(*object.ReturnValue); ok {
			return rv.Value, nil
		}
	}
	return NULL, nil
}

func (i *Interpreter) evalMemberAccess(node *ast.MemberAccessExpression) (object.Object, error) {
	obj, err := i.eval(node.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*object.StructInstance)
	if !ok {
		return nil, oops.Code("TypeError").With("line", node.Token.Line).
			Errorf("member access on %s value, expected struct", object.KindOf(obj))
	}
	cell, ok := inst.Fields[node.Field.Value]
	if !ok {
		return nil, oops.Code("NoSuchField").With("line", node.Token.Line).
			Errorf("struct %s has no field %q", inst.TypeName, node.Field.Value)
	}
	return cell.Value, nil
}

// evalIndexValue evaluates the index operand of an index expression and
// requires it to be an integer.
func (i *Interpreter) evalIndexValue(node *ast.IndexExpression) (int64, error) {
	index, err := i.eval(node.Index)
	if err != nil {
		return 0, err
	}
	idx, ok := index.(*object.Integer)
	if !ok {
		return 0, oops.Code("TypeError").With("line", node.Token.Line).
			Errorf("index must be an integer, got %s", object.KindOf(index))
	}
	return idx.Value, nil
}

func (i *Interpreter) evalIndexExpression(node *ast.IndexExpression) (object.Object, error) {
	left, err := i.eval(node.Left)
	if err != nil {
		return nil, err
	}

	switch container := left.(type) {
	case *object.Array:
		idx, err := i.evalIndexValue(node)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= int64(len(container.Elements)) {
			return nil, oops.Code("IndexOutOfRange").With("line", node.Token.Line).
				Errorf("index %d out of range for array of length %d", idx, len(container.Elements))
		}
		return container.Elements[idx].Value, nil
	case *object.String:
		idx, err := i.evalIndexValue(node)
		if err != nil {
			return nil, err
		}
		runes := []rune(container.Value)
		if idx < 0 || idx >= int64(len(runes)) {
			return nil, oops.Code("IndexOutOfRange").With("line", node.Token.Line).
				Errorf("index %d out of range for string of length %d", idx, len(runes))
		}
		return &object.String{Value: string(runes[idx])}, nil
	default:
		return nil, oops.Code("TypeError").With("line", node.Token.Line).
			Errorf("index operator not supported on %s", object.KindOf(left))
	}
}

// evalArrayLiteral evaluates elements left-to-right and packages them as an
// array of Symbol cells, so each element is individually addressable.
func (i *Interpreter) evalArrayLiteral(node *ast.ArrayLiteral) (object.Object, error) {
	elements := make([]*object.Symbol, 0, len(node.Elements))
	for _, el := range node.Elements {
		val, err := i.eval(el)
		if err != nil {
			return nil, err
		}
		elements = append(elements, object.NewSymbol(val))
	}
	return &object.Array{Elements: elements}, nil
}

// evalStructLiteral instantiates a declared struct type. Field assignments
// are evaluated in order; the assigned set must equal the declared set.
func (i *Interpreter) evalStructLiteral(node *ast.StructLiteral) (object.Object, error) {
	sym, ok := i.env.Ref(node.TypeName.Value)
	if !ok || sym.Kind != object.KindStructType {
		return nil, oops.Code("UnknownStructType").With("line", node.Token.Line).
			Errorf("unknown struct type %q", node.TypeName.Value)
	}
	st := sym.Value.(*object.StructType)

	instance := &object.StructInstance{
		TypeName: st.Name,
		Fields:   make(map[string]*object.Symbol, len(st.Fields)),
		Order:    st.Fields,
	}

	for _, field := range node.Fields {
		name := field.Name.Value
		if !st.HasField(name) {
			return nil, oops.Code("NoSuchField").With("line", node.Token.Line).
				Errorf("struct type %q has no field %q", st.Name, name)
		}
		if _, assigned := instance.Fields[name]; assigned {
			return nil, oops.Code("DuplicateField").With("line", node.Token.Line).
				Errorf("field %q assigned more than once", name)
		}
		val, err := i.eval(field.Value)
		if err != nil {
			return nil, err
		}
		instance.Fields[name] = object.NewSymbol(val)
	}

	if len(instance.Fields) != len(st.Fields) {
		missing := []string{}
		for _, f := range st.Fields {
			if _, ok := instance.Fields[f]; !ok {
				missing = append(missing, f)
			}
		}
		return nil, oops.Code("MissingField").With("line", node.Token.Line).
			Errorf("missing required field(s) for struct type %q: %s",
				st.Name, strings.Join(missing, ", "))
	}
	return instance, nil
}

// ----------------------------------------------------------------------------
// HELPERS
// ----------------------------------------------------------------------------

func nativeBool(b bool) *object.Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// isTruthy implements Dust truthiness: false, null, 0, 0.0, empty string and
// empty array are falsy; every other value is truthy.
func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Boolean:
		return obj.Value
	case *object.Null:
		return false
	case *object.Integer:
		return obj.Value != 0
	case *object.Float:
		return obj.Value != 0.0
	case *object.String:
		return obj.Value != ""
	case *object.Array:
		return len(obj.Elements) != 0
	default:
		return true
	}
}

// numericValue extracts a float64 from an Integer or Float.
func numericValue(obj object.Object) (float64, bool) {
	switch obj := obj.(type) {
	case *object.Integer:
		return float64(obj.Value), true
	case *object.Float:
		return obj.Value, true
	default:
		return 0, false
	}
}

// objectsEqual implements == semantics: numbers compare numerically across
// int/float, strings and booleans by value, null equals null, containers and
// callables by identity. Mismatched kinds are unequal, never an error.
func objectsEqual(left, right object.Object) bool {
	if lf, ok := numericValue(left); ok {
		if rf, ok := numericValue(right); ok {
			return lf == rf
		}
		return false
	}
	switch l := left.(type) {
	case *object.String:
		r, ok := right.(*object.String)
		return ok && l.Value == r.Value
	case *object.Boolean:
		r, ok := right.(*object.Boolean)
		return ok && l.Value == r.Value
	case *object.Null:
		_, ok := right.(*object.Null)
		return ok
	default:
		return left == right
	}
}

// withLine attaches a source line to an error produced below the evaluator
// (environment operations have no token at hand).
func withLine(err error, tok token.Token) error {
	return oops.With("line", tok.Line).Wrap(err)
}
