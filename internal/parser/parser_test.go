package parser

import (
	"testing"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/scanner"
	"github.com/loxlang/golox/internal/token"
)

type collectingReporter struct {
	errors []string
}

func (r *collectingReporter) Error(line int, message string) {
	r.errors = append(r.errors, message)
}

func parse(t *testing.T, source string) ([]ast.Stmt, *collectingReporter) {
	t.Helper()
	rep := &collectingReporter{}
	toks := scanner.New(source, rep).Scan()
	if len(rep.errors) != 0 {
		t.Fatalf("scan errors: %v", rep.errors)
	}
	stmts := New(toks, rep).Parse()
	return stmts, rep
}

func TestParseExpressionStatement(t *testing.T) {
	stmts, rep := parse(t, "1 + 2 * 3;")
	if len(rep.errors) != 0 {
		t.Fatalf("unexpected errors: %v", rep.errors)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	es, ok := stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.ExprStmt", stmts[0])
	}
	bin, ok := es.Expression.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.BinaryExpr", es.Expression)
	}
	if bin.Operator.Kind != token.PLUS {
		t.Errorf("top operator = %v, want PLUS (precedence: * binds tighter)", bin.Operator.Kind)
	}
	if _, ok := bin.Right.(*ast.BinaryExpr); !ok {
		t.Errorf("right operand = %T, want nested *ast.BinaryExpr for 2 * 3", bin.Right)
	}
}

func TestParseFactorAcceptsLeadingUnary(t *testing.T) {
	// Documented divergence: `a * -b` must parse, although a grammar whose
	// factor takes primary as its right operand would reject it.
	stmts, rep := parse(t, "a * -b;")
	if len(rep.errors) != 0 {
		t.Fatalf("unexpected errors: %v", rep.errors)
	}
	es := stmts[0].(*ast.ExprStmt)
	bin := es.Expression.(*ast.BinaryExpr)
	if _, ok := bin.Right.(*ast.UnaryExpr); !ok {
		t.Errorf("right operand = %T, want *ast.UnaryExpr", bin.Right)
	}
}

func TestParseVarDeclaration(t *testing.T) {
	stmts, rep := parse(t, "var x = 1;")
	if len(rep.errors) != 0 {
		t.Fatalf("unexpected errors: %v", rep.errors)
	}
	vs, ok := stmts[0].(*ast.VarStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.VarStmt", stmts[0])
	}
	if vs.Name.Lexeme != "x" {
		t.Errorf("name = %q, want x", vs.Name.Lexeme)
	}
	if vs.Initializer == nil {
		t.Error("initializer is nil, want literal 1")
	}
}

func TestParseIfElse(t *testing.T) {
	stmts, rep := parse(t, `if (true) print 1; else print 2;`)
	if len(rep.errors) != 0 {
		t.Fatalf("unexpected errors: %v", rep.errors)
	}
	ifs, ok := stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.IfStmt", stmts[0])
	}
	if ifs.ElseBranch == nil {
		t.Error("else branch is nil")
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, rep := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	if len(rep.errors) != 0 {
		t.Fatalf("unexpected errors: %v", rep.errors)
	}
	// Outer block: { var i = 0; while (...) { ... } }
	outer, ok := stmts[0].(*ast.BlockStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.BlockStmt wrapping the initializer", stmts[0])
	}
	if len(outer.Statements) != 2 {
		t.Fatalf("outer block has %d statements, want 2 (init, while)", len(outer.Statements))
	}
	if _, ok := outer.Statements[0].(*ast.VarStmt); !ok {
		t.Errorf("outer.Statements[0] = %T, want *ast.VarStmt", outer.Statements[0])
	}
	whileStmt, ok := outer.Statements[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("outer.Statements[1] = %T, want *ast.WhileStmt", outer.Statements[1])
	}
	// Body of while should be a block containing [print stmt, increment expr stmt].
	innerBlock, ok := whileStmt.Body.(*ast.BlockStmt)
	if !ok {
		t.Fatalf("while body = %T, want *ast.BlockStmt (body + increment)", whileStmt.Body)
	}
	if len(innerBlock.Statements) != 2 {
		t.Fatalf("inner block has %d statements, want 2 (body, increment)", len(innerBlock.Statements))
	}
}

func TestParseClassWithMethods(t *testing.T) {
	stmts, rep := parse(t, `class Greeter { greet() { print "hi"; } }`)
	if len(rep.errors) != 0 {
		t.Fatalf("unexpected errors: %v", rep.errors)
	}
	cs, ok := stmts[0].(*ast.ClassStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.ClassStmt", stmts[0])
	}
	if cs.Name.Lexeme != "Greeter" {
		t.Errorf("class name = %q, want Greeter", cs.Name.Lexeme)
	}
	if len(cs.Methods) != 1 || cs.Methods[0].Name.Lexeme != "greet" {
		t.Errorf("methods = %v, want [greet]", cs.Methods)
	}
}

func TestParseCallIndexAndGetChain(t *testing.T) {
	stmts, rep := parse(t, `f()[0].x;`)
	if len(rep.errors) != 0 {
		t.Fatalf("unexpected errors: %v", rep.errors)
	}
	es := stmts[0].(*ast.ExprStmt)
	get, ok := es.Expression.(*ast.GetExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.GetExpr (the trailing .x)", es.Expression)
	}
	idx, ok := get.Object.(*ast.ListIndexExpr)
	if !ok {
		t.Fatalf("get.Object = %T, want *ast.ListIndexExpr", get.Object)
	}
	if _, ok := idx.List.(*ast.CallExpr); !ok {
		t.Errorf("idx.List = %T, want *ast.CallExpr", idx.List)
	}
}

func TestParseTernary(t *testing.T) {
	stmts, rep := parse(t, `true ? 1 : 2;`)
	if len(rep.errors) != 0 {
		t.Fatalf("unexpected errors: %v", rep.errors)
	}
	es := stmts[0].(*ast.ExprStmt)
	if _, ok := es.Expression.(*ast.TernaryExpr); !ok {
		t.Errorf("got %T, want *ast.TernaryExpr", es.Expression)
	}
}

func TestParseInvalidAssignmentTargetReportsError(t *testing.T) {
	_, rep := parse(t, `1 = 2;`)
	if len(rep.errors) != 1 || rep.errors[0] != "Invalid assignment target." {
		t.Fatalf("errors = %v, want [Invalid assignment target.]", rep.errors)
	}
}

func TestParseErrorRecoverySynchronizesOnNextStatement(t *testing.T) {
	// The first statement is malformed (missing variable name); recovery should
	// still let the second statement parse successfully.
	stmts, rep := parse(t, "var ; print 1;")
	if len(rep.errors) == 0 {
		t.Fatal("expected at least one error")
	}
	var sawPrint bool
	for _, s := range stmts {
		if _, ok := s.(*ast.PrintStmt); ok {
			sawPrint = true
		}
	}
	if !sawPrint {
		t.Errorf("expected recovery to still parse the later print statement, got %v", stmts)
	}
}
