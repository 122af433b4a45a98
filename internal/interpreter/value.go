package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/loxlang/golox/internal/ast"
)

// Value is any runtime value the interpreter can produce or operate on:
// Nil, Bool, Number, String, a Callable (function/native/class), an
// *Instance, or a *List.
type Value interface {
	value()
}

type Nil struct{}

func (Nil) value() {}

type Bool struct{ Val bool }

func (Bool) value() {}

type Number struct{ Val float64 }

func (Number) value() {}

type String struct{ Val string }

func (String) value() {}

// Function is a user-defined Lox function (or method): its declaration plus
// the environment frame that was current when it was declared.
type Function struct {
	Decl          *ast.FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func (*Function) value() {}

// NativeFunction wraps a host-provided builtin such as clock.
type NativeFunction struct {
	Name    string
	NumArgs int
	Fn      func(interp *Interpreter, args []Value) Value
}

func (*NativeFunction) value() {}

// Class is a user-defined class: a name and its method table.
type Class struct {
	Name    string
	Methods map[string]*Function
}

func (*Class) value() {}

// Instance is an object created by calling a Class.
type Instance struct {
	ID     uuid.UUID
	Class  *Class
	Fields map[string]Value
}

func (*Instance) value() {}

// List is a first-class, mutable, growable sequence of values.
type List struct {
	Items []Value
}

func (*List) value() {}

// --- constructors ---

func NewBool(b bool) Value     { return Bool{Val: b} }
func NewNumber(n float64) Value { return Number{Val: n} }
func NewString(s string) Value  { return String{Val: s} }
func NewNil() Value             { return Nil{} }

// --- predicates shared across the interpreter ---

// IsTruthy reports whether v acts as true in a conditional context: every
// value is truthy except Nil and Bool{false}.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Bool:
		return val.Val
	default:
		return true
	}
}

// IsEqual implements Lox equality: Nil equals only Nil, numbers compare by
// IEEE value, strings and bools by content, everything else by identity
// (which for distinct dynamic types is always false).
func IsEqual(a, b Value) bool {
	_, aNil := a.(Nil)
	_, bNil := b.(Nil)
	if aNil || bNil {
		return aNil && bNil
	}

	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av.Val == bv.Val
	case String:
		bv, ok := b.(String)
		return ok && av.Val == bv.Val
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Val == bv.Val
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify renders v the way `print` and the REPL display it.
func Stringify(v Value) string {
	switch val := v.(type) {
	case Nil:
		return "nil"
	case Bool:
		return strconv.FormatBool(val.Val)
	case Number:
		return formatNumber(val.Val)
	case String:
		return val.Val
	case *Function:
		return fmt.Sprintf("<fn %s>", val.Decl.Name.Lexeme)
	case *NativeFunction:
		return fmt.Sprintf("<native fn %s>", val.Name)
	case *Class:
		return val.Name
	case *Instance:
		return fmt.Sprintf("%s instance (%s)", val.Class.Name, val.ID)
	case *List:
		items := make([]string, len(val.Items))
		for i, item := range val.Items {
			if s, ok := item.(String); ok {
				items[i] = strconv.Quote(s.Val)
			} else {
				items[i] = Stringify(item)
			}
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatNumber renders a number as a plain decimal, dropping the fraction
// when the value is integral (so `2.0` prints as `2`, not `2.0` or `2e+00`).
func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
