package symbols

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arnavsurve/slangc/internal/compiler/types"
)

// FunctionSymbol is a declared function: an ordered parameter list and a
// return type from the allow-list.
type FunctionSymbol struct {
	base
	returnType types.SymbolType
	params     []Symbol
}

// IsAllowedReturnType reports whether a function may be declared to return t.
func IsAllowedReturnType(t types.SymbolType) bool {
	switch t {
	case types.Int, types.Bool, types.String, types.Void:
		return true
	}
	return false
}

// AllowedReturnTypes returns a fresh copy of the allow-list.
func AllowedReturnTypes() []types.SymbolType {
	return []types.SymbolType{types.Int, types.Bool, types.String, types.Void}
}

// NewFunction declares a function with no parameters returning void.
func NewFunction(name string, line int) *FunctionSymbol {
	return &FunctionSymbol{
		base:       newBase(name, line, types.Function),
		returnType: types.Void,
		params:     []Symbol{},
	}
}

// NewFunctionWithSignature declares a function with the given parameters and
// return type. params is copied; its order is the declaration order.
func NewFunctionWithSignature(name string, line int, params []Symbol, returnType types.SymbolType, inferred bool) (*FunctionSymbol, error) {
	if !IsAllowedReturnType(returnType) {
		return nil, fmt.Errorf("function %q: %w: %s", name, ErrInvalidReturnType, returnType)
	}
	for i, p := range params {
		if p == nil {
			return nil, fmt.Errorf("function %q: %w: parameter %d is nil", name, ErrInvalidParameter, i)
		}
		if p.IsSymbolType(types.Function) || p.IsSymbolType(types.Void) || p.IsSymbolType(types.Invalid) {
			return nil, fmt.Errorf("function %q: %w: %s has type %s", name, ErrInvalidParameter, p.Name(), p.SymbolType())
		}
	}

	fn := NewFunction(name, line)
	fn.returnType = returnType
	fn.params = slices.Clone(params)
	if fn.params == nil {
		fn.params = []Symbol{}
	}
	fn.inferred = inferred
	return fn, nil
}

func (f *FunctionSymbol) ReturnType() types.SymbolType { return f.returnType }
func (f *FunctionSymbol) ParamCount() int              { return len(f.params) }

// ParamList returns the parameters in declaration order. The slice is a copy;
// the symbols are shared.
func (f *FunctionSymbol) ParamList() []Symbol {
	return slices.Clone(f.params)
}

// ParamAt returns the i-th parameter.
func (f *FunctionSymbol) ParamAt(i int) (Symbol, error) {
	if i < 0 || i >= len(f.params) {
		return nil, fmt.Errorf("function %q: %w: %d not in [0, %d)", f.name, ErrIndexOutOfRange, i, len(f.params))
	}
	return f.params[i], nil
}

// Descriptor builds the JVM method descriptor, e.g. (IZ)Ljava/lang/String;
func (f *FunctionSymbol) Descriptor() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range f.params {
		b.WriteString(p.SymbolType().Descriptor())
	}
	b.WriteByte(')')
	b.WriteString(f.returnType.Descriptor())
	return b.String()
}
