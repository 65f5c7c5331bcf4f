package buffer

import "fmt"

// Attribute is a value that may be left unspecified in an architecture
// description.
type Attribute[T any] struct {
	value     T
	specified bool
}

// Specified returns an attribute holding v.
func Specified[T any](v T) Attribute[T] {
	return Attribute[T]{value: v, specified: true}
}

// Specify sets the value.
func (a *Attribute[T]) Specify(v T) {
	a.value = v
	a.specified = true
}

// IsSpecified tells if a value has been set.
func (a Attribute[T]) IsSpecified() bool {
	return a.specified
}

// Get returns the value. Reading an unspecified attribute is a programming
// error.
func (a Attribute[T]) Get() T {
	if !a.specified {
		panic("reading an unspecified attribute")
	}

	return a.value
}

// GetOr returns the value, or def if it is not specified.
func (a Attribute[T]) GetOr(def T) T {
	if !a.specified {
		return def
	}

	return a.value
}

func (a Attribute[T]) String() string {
	if !a.specified {
		return "-"
	}

	return fmt.Sprint(a.value)
}
