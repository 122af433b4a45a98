// Package interpreter walks the resolved AST and executes it: a
// lexically-scoped, tree-walking evaluator over the Environment chain.
package interpreter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/resolver"
	"github.com/loxlang/golox/internal/token"
)

// RuntimeError is raised for type mismatches, undefined variables or
// properties, divide-by-zero, wrong arity, non-callable calls, and bad list
// indices. It unwinds immediately to the top of Interpret; it is never
// caught mid-program, matching spec §7's propagation policy.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func newRuntimeError(tok token.Token, message string) *RuntimeError {
	return &RuntimeError{Token: tok, Message: message}
}

// Interpreter executes a resolved statement list. Globals is the fixed root
// frame; env is whichever frame is current. Stdout receives everything a
// `print` statement writes.
type Interpreter struct {
	Globals *Environment
	env     *Environment
	locals  resolver.Locals
	Stdout  io.Writer
}

// New creates an Interpreter writing `print` output to stdout. The global
// frame is seeded with the native `clock` function.
func New(stdout io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	interp := &Interpreter{Globals: globals, env: globals, Stdout: stdout}
	interp.defineNatives()
	return interp
}

func (interp *Interpreter) defineNatives() {
	interp.Globals.Define("clock", &NativeFunction{
		Name:    "clock",
		NumArgs: 0,
		Fn: func(_ *Interpreter, _ []Value) Value {
			return Number{Val: float64(time.Now().UnixNano()) / 1e9}
		},
	})
}

// Interpret runs stmts using locals (the resolver's output) to resolve
// variable references. It returns the first RuntimeError encountered, if
// any; execution stops at that point, matching spec §7 ("runtime errors
// terminate evaluation").
func (interp *Interpreter) Interpret(stmts []ast.Stmt, locals resolver.Locals) (err *RuntimeError) {
	interp.locals = locals

	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(*RuntimeError)
			if !ok {
				panic(r)
			}
			err = re
		}
	}()

	for _, stmt := range stmts {
		interp.execStmt(stmt, interp.env)
	}
	return nil
}

// execStmt executes a single statement in env, returning (value, true) if
// execution reached a return statement, so block/function bodies can
// propagate it upward without relying on panic/recover — the "unwind-only,
// non-error signal" spec §5 calls for.
func (interp *Interpreter) execStmt(stmt ast.Stmt, env *Environment) (Value, bool) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		interp.eval(s.Expression, env)
		return nil, false

	case *ast.PrintStmt:
		val := interp.eval(s.Expression, env)
		fmt.Fprintln(interp.Stdout, Stringify(val))
		return nil, false

	case *ast.VarStmt:
		var val Value = Nil{}
		if s.Initializer != nil {
			val = interp.eval(s.Initializer, env)
		}
		env.Define(s.Name.Lexeme, val)
		return nil, false

	case *ast.BlockStmt:
		return interp.execBlockBody(s.Statements, NewEnvironment(env))

	case *ast.IfStmt:
		if IsTruthy(interp.eval(s.Condition, env)) {
			return interp.execStmt(s.ThenBranch, env)
		} else if s.ElseBranch != nil {
			return interp.execStmt(s.ElseBranch, env)
		}
		return nil, false

	case *ast.WhileStmt:
		for IsTruthy(interp.eval(s.Condition, env)) {
			if val, ret := interp.execStmt(s.Body, env); ret {
				return val, true
			}
		}
		return nil, false

	case *ast.FunctionStmt:
		fn := &Function{Decl: s, Closure: env}
		env.Define(s.Name.Lexeme, fn)
		return nil, false

	case *ast.ReturnStmt:
		var val Value = Nil{}
		if s.Value != nil {
			val = interp.eval(s.Value, env)
		}
		return val, true

	case *ast.ClassStmt:
		interp.execClassStmt(s, env)
		return nil, false

	default:
		panic(fmt.Sprintf("interpreter: unhandled statement type %T", stmt))
	}
}

// execBlockBody runs stmts in env (already a fresh child frame for blocks;
// the function's own call frame for a function body), restoring nothing
// itself — the caller owns env's lifetime. Every exit path, including a
// return partway through, simply stops iterating and hands the signal back.
func (interp *Interpreter) execBlockBody(stmts []ast.Stmt, env *Environment) (Value, bool) {
	for _, stmt := range stmts {
		if val, ret := interp.execStmt(stmt, env); ret {
			return val, true
		}
	}
	return nil, false
}

func (interp *Interpreter) execClassStmt(s *ast.ClassStmt, env *Environment) {
	env.Define(s.Name.Lexeme, Nil{})

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Decl:          m,
			Closure:       env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: s.Name.Lexeme, Methods: methods}
	env.Assign(s.Name.Lexeme, class)
}

// eval evaluates expr in env. Runtime errors panic with *RuntimeError,
// caught by Interpret; this mirrors spec §7's "unwinds immediately" policy
// without threading an error return through every recursive call.
func (interp *Interpreter) eval(expr ast.Expr, env *Environment) Value {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return interp.evalLiteral(e)
	case *ast.GroupingExpr:
		return interp.eval(e.Expression, env)
	case *ast.UnaryExpr:
		return interp.evalUnary(e, env)
	case *ast.BinaryExpr:
		return interp.evalBinary(e, env)
	case *ast.LogicalExpr:
		return interp.evalLogical(e, env)
	case *ast.VariableExpr:
		return interp.lookUpVariable(e.Name, e, env)
	case *ast.AssignExpr:
		return interp.evalAssign(e, env)
	case *ast.CallExpr:
		return interp.evalCall(e, env)
	case *ast.GetExpr:
		return interp.evalGet(e, env)
	case *ast.SetExpr:
		return interp.evalSet(e, env)
	case *ast.ThisExpr:
		return interp.lookUpVariable(e.Keyword, e, env)
	case *ast.TernaryExpr:
		if IsTruthy(interp.eval(e.Cond, env)) {
			return interp.eval(e.Truthy, env)
		}
		return interp.eval(e.Falsy, env)
	case *ast.ListLitExpr:
		items := make([]Value, len(e.Items))
		for i, item := range e.Items {
			items[i] = interp.eval(item, env)
		}
		return &List{Items: items}
	case *ast.ListIndexExpr:
		return interp.evalListIndex(e, env)
	default:
		panic(fmt.Sprintf("interpreter: unhandled expression type %T", expr))
	}
}

func (interp *Interpreter) evalLiteral(e *ast.LiteralExpr) Value {
	switch e.Kind {
	case token.TRUE:
		return Bool{Val: true}
	case token.FALSE:
		return Bool{Val: false}
	case token.NIL:
		return Nil{}
	case token.STRING:
		return String{Val: e.Value}
	case token.NUMBER:
		f, _ := strconv.ParseFloat(e.Value, 64)
		return Number{Val: f}
	default:
		panic("interpreter: unhandled literal kind")
	}
}

func (interp *Interpreter) evalUnary(e *ast.UnaryExpr, env *Environment) Value {
	right := interp.eval(e.Right, env)

	switch e.Operator.Kind {
	case token.BANG:
		return Bool{Val: !IsTruthy(right)}
	case token.MINUS:
		n := interp.asNumber(right, e.Operator)
		return Number{Val: -n}
	default:
		panic("interpreter: unhandled unary operator")
	}
}

func (interp *Interpreter) evalLogical(e *ast.LogicalExpr, env *Environment) Value {
	left := interp.eval(e.Left, env)

	if e.Operator.Kind == token.OR {
		if IsTruthy(left) {
			return left
		}
		return interp.eval(e.Right, env)
	}

	// AND
	if !IsTruthy(left) {
		return left
	}
	return interp.eval(e.Right, env)
}

func (interp *Interpreter) evalBinary(e *ast.BinaryExpr, env *Environment) Value {
	left := interp.eval(e.Left, env)
	right := interp.eval(e.Right, env)

	switch e.Operator.Kind {
	case token.PLUS:
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return String{Val: ls.Val + rs.Val}
			}
		}
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return Number{Val: ln.Val + rn.Val}
			}
		}
		panic(newRuntimeError(e.Operator, "Operands must be two numbers or two strings."))

	case token.MINUS:
		l, r := interp.asNumbers(left, right, e.Operator)
		return Number{Val: l - r}

	case token.STAR:
		l, r := interp.asNumbers(left, right, e.Operator)
		return Number{Val: l * r}

	case token.SLASH:
		l, r := interp.asNumbers(left, right, e.Operator)
		if r == 0 {
			panic(newRuntimeError(e.Operator, "Can not divide by zero."))
		}
		return Number{Val: l / r}

	case token.GREATER:
		l, r := interp.asNumbers(left, right, e.Operator)
		return Bool{Val: l > r}
	case token.GREATER_EQUAL:
		l, r := interp.asNumbers(left, right, e.Operator)
		return Bool{Val: l >= r}
	case token.LESS:
		l, r := interp.asNumbers(left, right, e.Operator)
		return Bool{Val: l < r}
	case token.LESS_EQUAL:
		l, r := interp.asNumbers(left, right, e.Operator)
		return Bool{Val: l <= r}

	case token.EQUAL_EQUAL:
		return Bool{Val: IsEqual(left, right)}
	case token.BANG_EQUAL:
		return Bool{Val: !IsEqual(left, right)}

	default:
		panic(newRuntimeError(e.Operator, "Operator is not a valid binary expression."))
	}
}

func (interp *Interpreter) asNumber(v Value, tok token.Token) float64 {
	n, ok := v.(Number)
	if !ok {
		panic(newRuntimeError(tok, "Operands must be numbers."))
	}
	return n.Val
}

func (interp *Interpreter) asNumbers(a, b Value, tok token.Token) (float64, float64) {
	an, aok := a.(Number)
	bn, bok := b.(Number)
	if !aok || !bok {
		panic(newRuntimeError(tok, "Operands must be numbers."))
	}
	return an.Val, bn.Val
}

func (interp *Interpreter) evalAssign(e *ast.AssignExpr, env *Environment) Value {
	val := interp.eval(e.Value, env)

	if dist, ok := interp.locals[e]; ok {
		env.AssignAt(dist, e.Name.Lexeme, val)
	} else if !interp.Globals.Assign(e.Name.Lexeme, val) {
		panic(newRuntimeError(e.Name, "Undefined variable '"+e.Name.Lexeme+"'."))
	}

	return val
}

func (interp *Interpreter) lookUpVariable(name token.Token, expr ast.Expr, env *Environment) Value {
	if dist, ok := interp.locals[expr]; ok {
		return env.GetAt(dist, name.Lexeme)
	}
	if v, ok := interp.Globals.Get(name.Lexeme); ok {
		return v
	}
	panic(newRuntimeError(name, "Undefined variable '"+name.Lexeme+"'."))
}

func (interp *Interpreter) evalCall(e *ast.CallExpr, env *Environment) Value {
	callee := interp.eval(e.Callee, env)

	args := make([]Value, len(e.Args))
	for i, argExpr := range e.Args {
		args[i] = interp.eval(argExpr, env)
	}

	callable, ok := callee.(Callable)
	if !ok {
		panic(newRuntimeError(e.Paren, "Can only call functions and classes."))
	}

	if len(args) != callable.Arity() {
		panic(newRuntimeError(e.Paren, fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args))))
	}

	return callable.Call(interp, args)
}

func (interp *Interpreter) evalGet(e *ast.GetExpr, env *Environment) Value {
	obj := interp.eval(e.Object, env)

	switch o := obj.(type) {
	case *Instance:
		if v, ok := o.Fields[e.Name.Lexeme]; ok {
			return v
		}
		if method, ok := o.Class.FindMethod(e.Name.Lexeme); ok {
			return method.bind(o)
		}
		panic(newRuntimeError(e.Name, "Undefined property '"+e.Name.Lexeme+"'."))
	case *List:
		return getListProperty(o, e.Name)
	default:
		panic(newRuntimeError(e.Name, "Only class instances have properties."))
	}
}

func (interp *Interpreter) evalSet(e *ast.SetExpr, env *Environment) Value {
	obj := interp.eval(e.Object, env)

	instance, ok := obj.(*Instance)
	if !ok {
		panic(newRuntimeError(e.Name, "Only class instances have properties."))
	}

	val := interp.eval(e.Value, env)
	instance.Fields[e.Name.Lexeme] = val
	return val
}

func (interp *Interpreter) evalListIndex(e *ast.ListIndexExpr, env *Environment) Value {
	listVal := interp.eval(e.List, env)
	list, ok := listVal.(*List)
	if !ok {
		panic(newRuntimeError(e.Bracket, "Only lists can be indexed."))
	}

	indexVal := interp.eval(e.Index, env)
	idx := validateListIndex(list, indexVal, e.Bracket)
	return list.Items[idx]
}
