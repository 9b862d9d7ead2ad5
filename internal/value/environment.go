package value

// Environment is a chain of lexical scopes. Evaluation is single threaded;
// lookups walk outward, definitions always land in the innermost scope.
type Environment struct {
	bindings map[string]Value
	outer    *Environment
}

func NewEnvironment() *Environment {
	return &Environment{bindings: make(map[string]Value)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.bindings[name]
	if ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

func (e *Environment) Define(name string, v Value) Value {
	e.bindings[name] = v
	return v
}
