// Package symbols defines what a declared name is: its origin line, its
// static type tag and the declaration data that goes with that tag.
//
// The set of symbol kinds is closed. Code outside this package holds a
// Symbol and narrows it with the As* helpers after checking IsSymbolType.
package symbols

import (
	"errors"

	"github.com/arnavsurve/slangc/internal/compiler/types"
)

var (
	ErrInvalidReturnType = errors.New("invalid return type")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrIndexOutOfRange   = errors.New("parameter index out of range")
	ErrValueType         = errors.New("value does not match variable type")
)

// Symbol is implemented by every symbol kind.
type Symbol interface {
	Name() string
	FirstAppearedLine() int
	SymbolType() types.SymbolType
	// IsSymbolType reports whether t is this symbol's tag. It never fails.
	IsSymbolType(t types.SymbolType) bool
	// IsInferredType reports whether the type was inferred rather than written.
	IsInferredType() bool
	// AugmentedName is the scope-unique name used for generated locals.
	AugmentedName() string
	SetAugmentedName(name string)

	sealed()
}

// base carries the fields every symbol has. The tag is fixed at construction.
type base struct {
	name          string
	line          int
	tag           types.SymbolType
	inferred      bool
	augmentedName string
}

func newBase(name string, line int, tag types.SymbolType) base {
	return base{name: name, line: line, tag: tag, augmentedName: name}
}

func (b *base) Name() string                         { return b.name }
func (b *base) FirstAppearedLine() int               { return b.line }
func (b *base) SymbolType() types.SymbolType         { return b.tag }
func (b *base) IsSymbolType(t types.SymbolType) bool { return b.tag == t }
func (b *base) IsInferredType() bool                 { return b.inferred }
func (b *base) AugmentedName() string                { return b.augmentedName }
func (b *base) SetAugmentedName(name string)         { b.augmentedName = name }
func (b *base) sealed()                              {}
