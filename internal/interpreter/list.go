package interpreter

import (
	"github.com/google/uuid"

	"github.com/loxlang/golox/internal/token"
)

func newInstanceID() uuid.UUID {
	return uuid.New()
}

// listMethod is a bound method on a *List: append or delete. Grounded in
// original_source/interpreter/lox_list.py's LoxListAppendItem /
// LoxListDeleteItem, generalized so index errors always raise instead of
// sometimes returning nil (see SPEC_FULL.md §6 and the Open Question in
// spec §9).
type listMethod struct {
	name string
	list *List
	tok  token.Token // the property-access token, for error line numbers
	fn   func(list *List, tok token.Token, args []Value) Value
}

func (*listMethod) value() {}

func (m *listMethod) Arity() int { return 1 }

func (m *listMethod) Call(interp *Interpreter, args []Value) Value {
	return m.fn(m.list, m.tok, args)
}

// getListProperty resolves property accesses on list values: `append` and
// `delete` are the only two, both arity-1 bound methods.
func getListProperty(list *List, name token.Token) Value {
	switch name.Lexeme {
	case "append":
		return &listMethod{name: "append", list: list, tok: name, fn: listAppend}
	case "delete":
		return &listMethod{name: "delete", list: list, tok: name, fn: listDelete}
	default:
		panic(newRuntimeError(name, "Undefined property '"+name.Lexeme+"'."))
	}
}

func listAppend(list *List, tok token.Token, args []Value) Value {
	list.Items = append(list.Items, args[0])
	return Nil{}
}

func listDelete(list *List, tok token.Token, args []Value) Value {
	idx := validateListIndex(list, args[0], tok)
	removed := list.Items[idx]
	list.Items = append(list.Items[:idx], list.Items[idx+1:]...)
	return removed
}

// validateListIndex checks that index is a whole-number Number within
// bounds for list, raising a RuntimeError located at tok otherwise.
func validateListIndex(list *List, index Value, tok token.Token) int {
	n, ok := index.(Number)
	if !ok {
		panic(newRuntimeError(tok, "List index must be a number."))
	}
	i := int(n.Val)
	if float64(i) != n.Val || i < 0 || i >= len(list.Items) {
		panic(newRuntimeError(tok, "Index out of range."))
	}
	return i
}
