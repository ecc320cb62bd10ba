package model

// Decorator enriches a step after the builder produced it, for example by
// applying requirement flags or stripping hidden fields.
type Decorator interface {
	Decorate(*Step) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Step) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(step *Step) error {
	return fn(step)
}
