package interpreter

// Callable is any Value that can appear to the left of a call expression:
// a user-defined function or method, a native function, or a class (whose
// "call" constructs an instance).
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, args []Value) Value
}

func (f *Function) Arity() int { return len(f.Decl.Params) }

// Call runs the function body in a fresh environment parented at the
// function's closure, with parameters bound to args. A return statement
// unwinds the body via execBlockBody's return-signal threading, not a panic —
// see Interpreter.execStmt.
func (f *Function) Call(interp *Interpreter, args []Value) Value {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	returned, hasReturn := interp.execBlockBody(f.Decl.Body, env)

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this")
	}
	if hasReturn {
		return returned
	}
	return Nil{}
}

// bind produces a copy of the method whose closure has been extended one
// scope deeper with `this` bound to instance — the scope depth the resolver
// expects when it resolves `this` inside a method body.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

func (n *NativeFunction) Arity() int { return n.NumArgs }

func (n *NativeFunction) Call(interp *Interpreter, args []Value) Value {
	return n.Fn(interp, args)
}

func (c *Class) Arity() int {
	if init, ok := c.Methods["init"]; ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance and, if the class declares an `init`
// method, runs it against args before returning the instance.
func (c *Class) Call(interp *Interpreter, args []Value) Value {
	instance := &Instance{ID: newInstanceID(), Class: c, Fields: make(map[string]Value)}
	if init, ok := c.Methods["init"]; ok {
		init.bind(instance).Call(interp, args)
	}
	return instance
}

// FindMethod looks up name in the class's method table.
func (c *Class) FindMethod(name string) (*Function, bool) {
	m, ok := c.Methods[name]
	return m, ok
}
