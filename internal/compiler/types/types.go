// Package types is the catalog of primitive static types known to the
// compiler and the default value each of them carries.
package types

import (
	"errors"
	"fmt"
)

// ErrNoDefaultValue is returned when a default is requested for a type that
// has none (void, function).
var ErrNoDefaultValue = errors.New("type has no default value")

// SymbolType tags the static type of a symbol.
type SymbolType int

const (
	Invalid SymbolType = iota
	Int
	Bool
	String
	Void
	Function
)

func (t SymbolType) String() string {
	switch t {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Void:
		return "void"
	case Function:
		return "function"
	}
	return "invalid"
}

// Descriptor returns the JVM field descriptor for the type.
// Function and Invalid have no field descriptor and return "".
func (t SymbolType) Descriptor() string {
	switch t {
	case Int:
		return "I"
	case Bool:
		return "Z"
	case String:
		return "Ljava/lang/String;"
	case Void:
		return "V"
	}
	return ""
}

// All lists every valid tag in declaration order.
func All() []SymbolType {
	return []SymbolType{Int, Bool, String, Void, Function}
}

// keywords maps source type keywords to tags. "function" is not something a
// program can write as a type.
var keywords = map[string]SymbolType{
	"int":    Int,
	"bool":   Bool,
	"string": String,
	"void":   Void,
}

// Lookup resolves a source type keyword.
func Lookup(keyword string) (SymbolType, bool) {
	t, ok := keywords[keyword]
	return t, ok
}

// DefaultValue returns the default value for t: int32(0) for int, false for
// bool and "" for string.
func DefaultValue(t SymbolType) (any, error) {
	switch t {
	case Int:
		return int32(0), nil
	case Bool:
		return false, nil
	case String:
		return "", nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoDefaultValue, t)
}
