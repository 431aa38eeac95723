package scope

import (
	"errors"
	"fmt"

	"github.com/arnavsurve/slangc/internal/compiler/symbols"
)

var ErrAlreadyDeclared = errors.New("symbol already declared in this scope")

// --- Scope ---
type Scope struct {
	Outer *Scope
	Name  string
	ID    int

	symbols  map[string]symbols.Symbol
	order    []string
	children []*Scope
	nextID   *int // shared by the whole tree, owned by the root
}

// NewScope creates the root scope when outer is nil, otherwise a child of
// outer. IDs are unique within one tree; the root is 0.
func NewScope(outer *Scope, name string) *Scope {
	s := &Scope{
		Outer:   outer,
		Name:    name,
		symbols: make(map[string]symbols.Symbol),
	}
	if outer == nil {
		s.nextID = new(int)
	} else {
		s.nextID = outer.nextID
		*s.nextID++
		s.ID = *s.nextID
		outer.children = append(outer.children, s)
	}
	return s
}

// Define adds a symbol ONLY to the current scope level and gives it its
// augmented name. It returns an error if the name already exists at this level.
func (s *Scope) Define(sym symbols.Symbol) error {
	if err := s.bind(sym); err != nil {
		return err
	}
	if s.IsGlobal() {
		sym.SetAugmentedName(sym.Name())
	} else {
		sym.SetAugmentedName(fmt.Sprintf("%s_%d", sym.Name(), s.ID))
	}
	return nil
}

// Reference makes a symbol owned elsewhere (a function parameter) visible at
// this level. Its augmented name is left alone.
func (s *Scope) Reference(sym symbols.Symbol) error {
	return s.bind(sym)
}

func (s *Scope) bind(sym symbols.Symbol) error {
	if prev, exists := s.symbols[sym.Name()]; exists {
		return fmt.Errorf("%w: '%s' (first declared at line %d)", ErrAlreadyDeclared, sym.Name(), prev.FirstAppearedLine())
	}
	s.symbols[sym.Name()] = sym
	s.order = append(s.order, sym.Name())
	return nil
}

// Lookup searches for a symbol starting from the current scope and traversing outwards.
func (s *Scope) Lookup(name string) (symbols.Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Outer {
		if sym, ok := scope.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupCurrentScope checks ONLY the current scope level.
func (s *Scope) LookupCurrentScope(name string) (symbols.Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Symbols returns this level's symbols in definition order.
func (s *Scope) Symbols() []symbols.Symbol {
	out := make([]symbols.Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.symbols[name])
	}
	return out
}

func (s *Scope) Children() []*Scope { return s.children }
func (s *Scope) IsGlobal() bool     { return s.Outer == nil }

func (s *Scope) Depth() int {
	d := 0
	for scope := s.Outer; scope != nil; scope = scope.Outer {
		d++
	}
	return d
}

// Walk visits s and its descendants in pre-order. Returning false from fn
// skips that scope's children.
func (s *Scope) Walk(fn func(*Scope) bool) {
	if !fn(s) {
		return
	}
	for _, c := range s.children {
		c.Walk(fn)
	}
}
