// Package report renders compiled units for the command line: symbol tables
// as a table, JSON or YAML, and diagnostics as compiler-style lines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/arnavsurve/slangc/internal/compiler/diag"
	"github.com/arnavsurve/slangc/internal/compiler/scope"
	"github.com/arnavsurve/slangc/internal/compiler/symbols"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Row is one symbol as seen from the scope that binds it.
type Row struct {
	Scope         string `json:"scope" yaml:"scope"`
	ScopeID       int    `json:"scope_id" yaml:"scope_id"`
	Depth         int    `json:"depth" yaml:"depth"`
	Name          string `json:"name" yaml:"name"`
	AugmentedName string `json:"augmented_name" yaml:"augmented_name"`
	Type          string `json:"type" yaml:"type"`
	Line          int    `json:"line" yaml:"line"`
	Value         string `json:"value,omitempty" yaml:"value,omitempty"`
	Calculated    bool   `json:"calculated" yaml:"calculated"`
	Signature     string `json:"signature" yaml:"signature"`
	Descriptor    string `json:"descriptor" yaml:"descriptor"`
	Inferred      bool   `json:"inferred" yaml:"inferred"`
}

// Collect flattens the scope tree rooted at global, scopes in pre-order and
// symbols in definition order.
func Collect(global *scope.Scope) []Row {
	rows := []Row{}
	if global == nil {
		return rows
	}
	global.Walk(func(s *scope.Scope) bool {
		for _, sym := range s.Symbols() {
			rows = append(rows, newRow(s, sym))
		}
		return true
	})
	return rows
}

func newRow(s *scope.Scope, sym symbols.Symbol) Row {
	row := Row{
		Scope:         s.Name,
		ScopeID:       s.ID,
		Depth:         s.Depth(),
		Name:          sym.Name(),
		AugmentedName: sym.AugmentedName(),
		Type:          sym.SymbolType().String(),
		Line:          sym.FirstAppearedLine(),
		Signature:     symbols.Describe(sym),
		Descriptor:    sym.SymbolType().Descriptor(),
		Inferred:      sym.IsInferredType(),
	}
	if fn, ok := symbols.AsFunction(sym); ok {
		row.Descriptor = fn.Descriptor()
	}
	if v, ok := symbols.AsVariable(sym); ok && v.IsInitialValueCalculated() {
		row.Calculated = true
		row.Value = formatValue(v.AnyValue())
	}
	return row
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// RenderSymbols writes rows in format: table, json or yaml.
func RenderSymbols(w io.Writer, rows []Row, format string) error {
	switch format {
	case "table", "":
		return renderTable(w, rows)
	case "json":
		return renderJSON(w, rows)
	case "yaml":
		return renderYAML(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func renderTable(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 symbols)")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Scope", "Name", "Augmented", "Type", "Line", "Value", "Signature", "Descriptor", "Inferred"})

	for _, r := range rows {
		t.AppendRow(table.Row{
			fmt.Sprintf("%s#%d", r.Scope, r.ScopeID),
			r.Name,
			r.AugmentedName,
			r.Type,
			r.Line,
			r.Value,
			r.Signature,
			r.Descriptor,
			r.Inferred,
		})
	}

	t.Render()
	_, err := fmt.Fprintf(w, "(%d symbols)\n", len(rows))
	return err
}

func renderJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func renderYAML(w io.Writer, rows []Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return err
	}
	return enc.Close()
}

// RenderDiagnostics writes one "path:line:col: Phase Severity: msg" line per
// diagnostic.
func RenderDiagnostics(w io.Writer, path string, list diag.List) error {
	for _, d := range list {
		if _, err := fmt.Fprintf(w, "%s:%s\n", path, d); err != nil {
			return err
		}
	}
	return nil
}
