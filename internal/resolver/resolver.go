// Package resolver performs a single static pass over the parsed statement
// list, computing for every variable reference the lexical distance between
// the reference and its declaration. This lets the interpreter jump
// straight to the right environment frame instead of walking the parent
// chain and comparing names at every level.
package resolver

import (
	"github.com/loxlang/golox/internal/ast"
)

// ErrorReporter receives resolve-time diagnostics.
type ErrorReporter interface {
	Error(line int, message string)
}

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
)

// Locals maps each Variable/Assign/This expression node (keyed by identity,
// not structural equality — see internal/ast's package doc) to the number
// of enclosing scopes between the reference and its binding. A node absent
// from Locals resolves against the global environment.
type Locals map[ast.Expr]int

// Resolver walks a statement list exactly once and produces a Locals map.
type Resolver struct {
	reporter ErrorReporter
	locals   Locals
	scopes   []map[string]bool
	currentF functionType
	currentC classType
}

// New creates a Resolver reporting diagnostics to reporter.
func New(reporter ErrorReporter) *Resolver {
	return &Resolver{reporter: reporter, locals: make(Locals)}
}

// Resolve walks every statement and returns the accumulated Locals map.
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		r.resolveExpr(s.Expression)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expression)
	case *ast.VarStmt:
		r.declare(s.Name.Lexeme, s.Name.Line)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name.Lexeme)
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *ast.FunctionStmt:
		r.declare(s.Name.Lexeme, s.Name.Line)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s, functionFunction)
	case *ast.ReturnStmt:
		if r.currentF == functionNone {
			r.reporter.Error(s.Keyword.Line, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentF == functionInitializer {
				r.reporter.Error(s.Keyword.Line, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.ClassStmt:
		r.resolveClass(s)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(c *ast.ClassStmt) {
	enclosingClass := r.currentC
	r.currentC = classClass
	defer func() { r.currentC = enclosingClass }()

	r.declare(c.Name.Lexeme, c.Name.Line)
	r.define(c.Name.Lexeme)

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	defer r.endScope()

	for _, method := range c.Methods {
		ft := functionMethod
		if method.Name.Lexeme == "init" {
			ft = functionInitializer
		}
		r.resolveFunction(method, ft)
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt, ft functionType) {
	enclosingF := r.currentF
	r.currentF = ft
	defer func() { r.currentF = enclosingF }()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		r.declare(param.Lexeme, param.Line)
		r.define(param.Lexeme)
	}
	r.resolveStmts(fn.Body)
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		// nothing to resolve
	case *ast.GroupingExpr:
		r.resolveExpr(e.Expression)
	case *ast.UnaryExpr:
		r.resolveExpr(e.Right)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.reporter.Error(e.Name.Line, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.GetExpr:
		r.resolveExpr(e.Object)
	case *ast.SetExpr:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.ThisExpr:
		if r.currentC == classNone {
			r.reporter.Error(e.Keyword.Line, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword.Lexeme)
	case *ast.TernaryExpr:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Truthy)
		r.resolveExpr(e.Falsy)
	case *ast.ListLitExpr:
		for _, item := range e.Items {
			r.resolveExpr(item)
		}
	case *ast.ListIndexExpr:
		r.resolveExpr(e.List)
		r.resolveExpr(e.Index)
	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks name as present-but-not-yet-usable in the innermost scope.
// It is a no-op at global scope, matching Environment's more permissive
// redefinition semantics there.
func (r *Resolver) declare(name string, line int) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name]; exists {
		r.reporter.Error(line, "Already a variable with this name in this scope.")
	}
	scope[name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any local scope: falls back to global lookup at runtime
}
