package symbols

import (
	"fmt"

	"github.com/arnavsurve/slangc/internal/compiler/types"
)

// Variable is the view shared by every variable kind. It lets callers read a
// value without knowing which concrete kind they hold.
type Variable interface {
	Symbol
	AnyValue() any
	// IsInitialValueCalculated reports whether Value is known at compile time.
	IsInitialValueCalculated() bool
	SetValueCalculated(calculated bool)
	MarkInferred()
}

type variable[T int32 | bool | string] struct {
	base
	value      T
	calculated bool
}

func newVariable[T int32 | bool | string](name string, line int, tag types.SymbolType) variable[T] {
	v := variable[T]{base: newBase(name, line, tag)}
	v.value = mustDefault[T](tag)
	return v
}

// Value returns the current value.
func (v *variable[T]) Value() T { return v.value }

// SetValue replaces the value. The caller has already type-checked the
// assignment; nothing is re-verified here.
func (v *variable[T]) SetValue(val T) {
	v.value = val
	v.calculated = true
}

func (v *variable[T]) AnyValue() any                      { return v.value }
func (v *variable[T]) IsInitialValueCalculated() bool     { return v.calculated }
func (v *variable[T]) SetValueCalculated(calculated bool) { v.calculated = calculated }
func (v *variable[T]) MarkInferred()                      { v.inferred = true }

// mustDefault reads the catalog default for a variable tag. Variable kinds
// only exist for tags that have one.
func mustDefault[T int32 | bool | string](tag types.SymbolType) T {
	d, err := types.DefaultValue(tag)
	if err != nil {
		panic(err)
	}
	return d.(T)
}

// --- Bool ---

type BoolSymbol struct {
	variable[bool]
}

// NewBool declares a bool variable holding the default value.
func NewBool(name string, line int) *BoolSymbol {
	return &BoolSymbol{variable: newVariable[bool](name, line, types.Bool)}
}

// NewBoolValue declares a bool variable holding a folded value.
func NewBoolValue(name string, line int, value bool) *BoolSymbol {
	s := NewBool(name, line)
	s.SetValue(value)
	return s
}

// --- Int ---

type IntSymbol struct {
	variable[int32]
}

func NewInt(name string, line int) *IntSymbol {
	return &IntSymbol{variable: newVariable[int32](name, line, types.Int)}
}

func NewIntValue(name string, line int, value int32) *IntSymbol {
	s := NewInt(name, line)
	s.SetValue(value)
	return s
}

// --- String ---

type StringSymbol struct {
	variable[string]
}

func NewString(name string, line int) *StringSymbol {
	return &StringSymbol{variable: newVariable[string](name, line, types.String)}
}

func NewStringValue(name string, line int, value string) *StringSymbol {
	s := NewString(name, line)
	s.SetValue(value)
	return s
}

// NewVariable builds the variable kind for tag with its default value.
// Tags without a default (void, function) fail with types.ErrNoDefaultValue.
func NewVariable(tag types.SymbolType, name string, line int) (Variable, error) {
	switch tag {
	case types.Int:
		return NewInt(name, line), nil
	case types.Bool:
		return NewBool(name, line), nil
	case types.String:
		return NewString(name, line), nil
	}
	_, err := types.DefaultValue(tag)
	return nil, fmt.Errorf("variable %q: %w", name, err)
}

// NewVariableValue builds the variable kind for tag holding value. The
// dynamic type of value must be the tag's native kind.
func NewVariableValue(tag types.SymbolType, name string, line int, value any) (Variable, error) {
	switch v := value.(type) {
	case int32:
		if tag == types.Int {
			return NewIntValue(name, line, v), nil
		}
	case bool:
		if tag == types.Bool {
			return NewBoolValue(name, line, v), nil
		}
	case string:
		if tag == types.String {
			return NewStringValue(name, line, v), nil
		}
	}
	if _, err := NewVariable(tag, name, line); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("variable %q: %w: %T is not %s", name, ErrValueType, value, tag)
}
