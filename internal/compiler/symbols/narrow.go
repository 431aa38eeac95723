package symbols

import (
	"fmt"
	"strings"

	"github.com/arnavsurve/slangc/internal/compiler/types"
)

// The As* helpers narrow a Symbol to its concrete kind. The tag is checked
// first; a symbol whose tag does not match yields ok == false.

func AsBool(s Symbol) (*BoolSymbol, bool) {
	if s == nil || !s.IsSymbolType(types.Bool) {
		return nil, false
	}
	b, ok := s.(*BoolSymbol)
	return b, ok
}

func AsInt(s Symbol) (*IntSymbol, bool) {
	if s == nil || !s.IsSymbolType(types.Int) {
		return nil, false
	}
	i, ok := s.(*IntSymbol)
	return i, ok
}

func AsString(s Symbol) (*StringSymbol, bool) {
	if s == nil || !s.IsSymbolType(types.String) {
		return nil, false
	}
	str, ok := s.(*StringSymbol)
	return str, ok
}

func AsFunction(s Symbol) (*FunctionSymbol, bool) {
	if s == nil || !s.IsSymbolType(types.Function) {
		return nil, false
	}
	fn, ok := s.(*FunctionSymbol)
	return fn, ok
}

// AsVariable narrows to any variable kind.
func AsVariable(s Symbol) (Variable, bool) {
	if s == nil {
		return nil, false
	}
	switch {
	case s.IsSymbolType(types.Int), s.IsSymbolType(types.Bool), s.IsSymbolType(types.String):
		v, ok := s.(Variable)
		return v, ok
	}
	return nil, false
}

// Describe renders a symbol the way it would be declared:
// "x: bool" or "f(a: int, b: string): bool".
func Describe(s Symbol) string {
	fn, ok := AsFunction(s)
	if !ok {
		return fmt.Sprintf("%s: %s", s.Name(), s.SymbolType())
	}
	params := make([]string, 0, fn.ParamCount())
	for _, p := range fn.params {
		params = append(params, Describe(p))
	}
	return fmt.Sprintf("%s(%s): %s", fn.Name(), strings.Join(params, ", "), fn.ReturnType())
}
