// Package guard provides strict runtime type checking for dynamically
// invoked functions. Wrap builds a caller that verifies every argument's
// dynamic type against the function signature before the call happens, so
// a mismatched argument can never reach the wrapped function.
package guard

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotFunc is returned by Wrap when the input is not a function.
	ErrNotFunc = errors.New("guard: not a function")
	// ErrVariadic is returned by Wrap for variadic functions, which are
	// not supported.
	ErrVariadic = errors.New("guard: variadic functions are not supported")
	// ErrArity is returned by a guarded call with the wrong argument count.
	ErrArity = errors.New("guard: wrong argument count")
	// ErrTypeMismatch is returned by a guarded call when an argument's
	// dynamic type does not exactly match the parameter type.
	ErrTypeMismatch = errors.New("guard: argument type mismatch")
)

// Func is a guarded caller. It validates its arguments and either invokes
// the wrapped function, returning its results, or reports why it refused.
type Func func(args ...any) ([]any, error)

// Wrap returns a guarded caller for fn. The caller checks arity and exact
// parameter types on every invocation: an int parameter accepts only an
// int, never a float64 or a named integer type.
func Wrap(fn any) (Func, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %T", ErrNotFunc, fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, ErrVariadic
	}

	return func(args ...any) ([]any, error) {
		if len(args) != t.NumIn() {
			return nil, fmt.Errorf("%w: want %d, got %d", ErrArity, t.NumIn(), len(args))
		}

		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			want := t.In(i)
			if arg == nil {
				if !nilable(want) {
					return nil, fmt.Errorf("%w: argument %d is nil, want %s", ErrTypeMismatch, i, want)
				}
				in[i] = reflect.Zero(want)
				continue
			}
			got := reflect.TypeOf(arg)
			// Interface parameters accept any implementation; everything
			// else requires the exact type, so int never admits float64.
			if want.Kind() == reflect.Interface {
				if !got.Implements(want) {
					return nil, fmt.Errorf("%w: argument %d is %s, does not implement %s", ErrTypeMismatch, i, got, want)
				}
			} else if got != want {
				return nil, fmt.Errorf("%w: argument %d is %s, want %s", ErrTypeMismatch, i, got, want)
			}
			in[i] = reflect.ValueOf(arg)
		}

		out := v.Call(in)
		results := make([]any, len(out))
		for i, r := range out {
			results[i] = r.Interface()
		}
		return results, nil
	}, nil
}

// MustWrap is Wrap for statically known functions; it panics on error.
func MustWrap(fn any) Func {
	f, err := Wrap(fn)
	if err != nil {
		panic(err)
	}
	return f
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	}
	return false
}

// SumTwo adds two integers. It is the reference function for guarded
// invocation: call it through MustWrap(SumTwo) to reject non-int input.
func SumTwo(a, b int) int {
	return a + b
}
