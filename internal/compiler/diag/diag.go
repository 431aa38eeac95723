// Package diag holds the problems found in a source file. They are values,
// not Go errors; a file with errors still produces a symbol table.
package diag

import (
	"fmt"
	"sort"
)

type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "Warning"
	}
	return "Error"
}

// MarshalText lets JSON and YAML output carry "error"/"warning".
func (s Severity) MarshalText() ([]byte, error) {
	if s == Warning {
		return []byte("warning"), nil
	}
	return []byte("error"), nil
}

type Phase string

const (
	Syntax   Phase = "Syntax"
	Semantic Phase = "Semantic"
)

type Diagnostic struct {
	Line     int      `json:"line" yaml:"line"`
	Column   int      `json:"column" yaml:"column"`
	Severity Severity `json:"severity" yaml:"severity"`
	Phase    Phase    `json:"phase" yaml:"phase"`
	Message  string   `json:"message" yaml:"message"`
}

// String renders "line:col: Semantic Error: msg".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s %s: %s", d.Line, d.Column, d.Phase, d.Severity, d.Message)
}

type List []Diagnostic

func (l *List) Add(d Diagnostic) { *l = append(*l, d) }

func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

func (l List) Errors() List   { return l.filter(Error) }
func (l List) Warnings() List { return l.filter(Warning) }

func (l List) filter(sev Severity) List {
	var out List
	for _, d := range l {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders by position, keeping insertion order for equal positions.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Line != l[j].Line {
			return l[i].Line < l[j].Line
		}
		return l[i].Column < l[j].Column
	})
}

func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.String()
	}
	return out
}
