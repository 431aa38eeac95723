// Package compiler runs the front end over slang source: lex, parse, and
// analyze into a symbol table.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/arnavsurve/slangc/internal/compiler/analyzer"
	"github.com/arnavsurve/slangc/internal/compiler/ast"
	"github.com/arnavsurve/slangc/internal/compiler/diag"
	"github.com/arnavsurve/slangc/internal/compiler/lexer"
	"github.com/arnavsurve/slangc/internal/compiler/parser"
	"github.com/arnavsurve/slangc/internal/compiler/scope"
)

var ErrBadExtension = errors.New("unexpected source file extension")

type Options struct {
	Extension     string // required source extension, e.g. ".sl"; empty accepts any
	FoldConstants bool
	WarnShadowing bool
	Jobs          int
	Logger        *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Extension:     ".sl",
		FoldConstants: true,
		WarnShadowing: true,
		Jobs:          4,
	}
}

// Unit is the result of compiling one source file.
type Unit struct {
	Path        string
	Program     *ast.Program
	Global      *scope.Scope // nil when the file had syntax errors
	Diagnostics diag.List
}

func (u *Unit) HasErrors() bool { return u.Diagnostics.HasErrors() }

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CompileSource compiles src in memory. name is used for logging and as
// Unit.Path. Semantic analysis is skipped when parsing reports errors.
func CompileSource(name, src string, opts Options) *Unit {
	log := opts.logger().With("file", name)
	unit := &Unit{Path: name}

	prog, errs := parseProgram(src)
	unit.Program = prog
	unit.Diagnostics = append(unit.Diagnostics, errs...)
	if errs.HasErrors() {
		log.Debug("parse failed", "errors", len(errs))
		unit.Diagnostics.Sort()
		return unit
	}

	global, diags := analyzer.Analyze(prog, analyzer.Options{
		FoldConstants: opts.FoldConstants,
		WarnShadowing: opts.WarnShadowing,
		Logger:        log,
	})
	unit.Global = global
	unit.Diagnostics = append(unit.Diagnostics, diags...)
	unit.Diagnostics.Sort()

	log.Debug("compiled", "symbols", len(global.Symbols()), "errors", len(unit.Diagnostics.Errors()), "warnings", len(unit.Diagnostics.Warnings()))
	return unit
}

// CompileFile reads and compiles one file. The error covers only I/O and
// extension problems; source problems are in Unit.Diagnostics.
func CompileFile(ctx context.Context, path string, opts Options) (*Unit, error) {
	if err := validateExtension(path, opts.Extension); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return CompileSource(path, content, opts), nil
}

// CompileFiles compiles paths concurrently, at most opts.Jobs at a time. Each
// unit gets its own scope tree. Units are returned in the order of paths; the
// first I/O error cancels the remaining work.
func CompileFiles(ctx context.Context, paths []string, opts Options) ([]*Unit, error) {
	units := make([]*Unit, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			unit, err := CompileFile(ctx, path, opts)
			if err != nil {
				return err
			}
			units[i] = unit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func validateExtension(path, ext string) error {
	if ext == "" {
		return nil
	}
	if filepath.Ext(path) != ext {
		return fmt.Errorf("%w: %s (source must have %s extension)", ErrBadExtension, path, ext)
	}
	return nil
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(b), nil
}

func parseProgram(src string) (*ast.Program, diag.List) {
	lex := lexer.NewLexer(src)
	p := parser.NewParser(lex)
	prog := p.ParseProgram()
	return prog, p.Errors()
}
