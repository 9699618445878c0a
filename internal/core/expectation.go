package core

import (
	"fmt"
	"reflect"
)

// Case is one case declaration: its own mocks, the dependency names it wants
// exposed, and the body to run.
//
// Expect must be a function shaped like one of:
//
//	func(module M)
//	func(module M, deps *Dependencies)
//	func(module M, deps *Dependencies, done Done)
//
// M is any type the resolved module is assignable to. The declared parameter
// count decides the completion contract: with two or fewer parameters the case
// completes when the body returns; with three it completes when done is called,
// even if the body never uses done. A body asserts through deps.T(), the
// reporter of its own case.
type Case struct {
	Mock   Mocks
	Store  []string
	Expect any
}

// Done signals that an asynchronous case body has finished.
type Done func()

type expectation struct {
	fn         reflect.Value
	arity      int
	moduleType reflect.Type
}

// unexported variables.
var (
	//nolint:gochecknoglobals // reflect types used for shape checks
	dependenciesType = reflect.TypeFor[*Dependencies]()
	//nolint:gochecknoglobals // reflect types used for shape checks
	doneType = reflect.TypeFor[Done]()
	//nolint:gochecknoglobals // reflect types used for shape checks
	plainDoneType = reflect.TypeFor[func()]()
)

func newExpectation(body any) (expectation, error) {
	if body == nil {
		return expectation{}, fmt.Errorf("%w: no expectation function", ErrMisconfiguredCase)
	}

	fn := reflect.ValueOf(body)
	if fn.Kind() != reflect.Func {
		return expectation{}, fmt.Errorf("%w: expectation must be a function, got %T", ErrMisconfiguredCase, body)
	}

	fnType := fn.Type()

	switch {
	case fnType.IsVariadic():
		return expectation{}, fmt.Errorf("%w: expectation must not be variadic: %s", ErrMisconfiguredCase, fnType)
	case fnType.NumOut() != 0:
		return expectation{}, fmt.Errorf("%w: expectation must not return values: %s", ErrMisconfiguredCase, fnType)
	case fnType.NumIn() < 1 || fnType.NumIn() > 3:
		return expectation{}, fmt.Errorf("%w: expectation takes 1 to 3 parameters, got %d: %s",
			ErrMisconfiguredCase, fnType.NumIn(), fnType)
	}

	if fnType.NumIn() >= 2 && fnType.In(1) != dependenciesType {
		return expectation{}, fmt.Errorf("%w: second parameter must be %s, got %s",
			ErrMisconfiguredCase, dependenciesType, fnType.In(1))
	}

	if fnType.NumIn() == 3 && fnType.In(2) != doneType && fnType.In(2) != plainDoneType {
		return expectation{}, fmt.Errorf("%w: third parameter must be %s, got %s",
			ErrMisconfiguredCase, doneType, fnType.In(2))
	}

	return expectation{
		fn:         fn,
		arity:      fnType.NumIn(),
		moduleType: fnType.In(0),
	}, nil
}

// async reports whether the body asked for a completion signal.
func (e expectation) async() bool {
	return e.arity == 3
}

// call runs the body on the calling goroutine. An absent module is passed as
// the zero value of the module parameter.
func (e expectation) call(module any, deps *Dependencies, done Done) error {
	moduleArg := reflect.Zero(e.moduleType)

	if module != nil {
		moduleArg = reflect.ValueOf(module)
		if !moduleArg.Type().AssignableTo(e.moduleType) {
			return fmt.Errorf("%w: module of type %T is not assignable to %s",
				ErrMisconfiguredCase, module, e.moduleType)
		}
	}

	args := []reflect.Value{moduleArg}

	if e.arity >= 2 {
		args = append(args, reflect.ValueOf(deps))
	}

	if e.arity == 3 {
		args = append(args, reflect.ValueOf(done).Convert(e.fn.Type().In(2)))
	}

	e.fn.Call(args)

	return nil
}
