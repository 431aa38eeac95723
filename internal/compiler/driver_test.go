package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/slangc/internal/compiler/diag"
	"github.com/arnavsurve/slangc/internal/compiler/symbols"
	"github.com/arnavsurve/slangc/internal/compiler/types"
	"github.com/arnavsurve/slangc/internal/testutil"
)

func testOptions(t *testing.T) Options {
	opts := DefaultOptions()
	opts.Logger = testutil.NewTestLogger(t)
	return opts
}

func TestGoodSources(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "good", "*.sl"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			unit, err := CompileFile(context.Background(), file, testOptions(t))
			require.NoError(t, err)
			assert.False(t, unit.HasErrors(), "unexpected errors:\n%v", unit.Diagnostics.Errors().Strings())
			require.NotNil(t, unit.Global)
			assert.NotEmpty(t, unit.Global.Symbols())
		})
	}
}

func TestBadSources(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "bad", "*.sl"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			unit, err := CompileFile(context.Background(), file, testOptions(t))
			require.NoError(t, err)
			assert.True(t, unit.HasErrors(), "expected failure but got success")
		})
	}
}

func TestCompileSourceSyntaxErrorsSkipAnalysis(t *testing.T) {
	unit := CompileSource("bad.sl", "let x = ;\nlet y: int = \"s\";", testOptions(t))
	assert.Nil(t, unit.Global)
	require.NotEmpty(t, unit.Diagnostics)
	for _, d := range unit.Diagnostics {
		assert.Equal(t, diag.Syntax, d.Phase)
	}
}

func TestCompileSourceSymbols(t *testing.T) {
	unit := CompileSource("main.sl", "fn f(): bool { return true; }\nlet x: bool;", testOptions(t))
	require.False(t, unit.HasErrors())
	assert.Equal(t, "main.sl", unit.Path)
	require.NotNil(t, unit.Program)
	assert.Len(t, unit.Program.Statements, 2)

	f, ok := unit.Global.Lookup("f")
	require.True(t, ok)
	fn, ok := symbols.AsFunction(f)
	require.True(t, ok)
	assert.Equal(t, types.Bool, fn.ReturnType())

	x, ok := unit.Global.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 2, x.FirstAppearedLine())
}

func TestCompileSourceOptions(t *testing.T) {
	src := "let a = 1 + 1;\nfn f(): void { let a = 2; }"

	opts := testOptions(t)
	opts.FoldConstants = false
	opts.WarnShadowing = false
	unit := CompileSource("opts.sl", src, opts)
	assert.Empty(t, unit.Diagnostics)

	a, _ := unit.Global.Lookup("a")
	v, ok := symbols.AsVariable(a)
	require.True(t, ok)
	assert.False(t, v.IsInitialValueCalculated())

	unit = CompileSource("opts.sl", src, testOptions(t))
	assert.Len(t, unit.Diagnostics.Warnings(), 1)
}

func TestCompileFileExtension(t *testing.T) {
	path := testutil.WriteSource(t, "main.txt", "let x = 1;")

	_, err := CompileFile(context.Background(), path, testOptions(t))
	require.ErrorIs(t, err, ErrBadExtension)

	opts := testOptions(t)
	opts.Extension = ""
	unit, err := CompileFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.False(t, unit.HasErrors())
}

func TestCompileFileMissing(t *testing.T) {
	_, err := CompileFile(context.Background(), filepath.Join(t.TempDir(), "nope.sl"), testOptions(t))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompileFileCanceled(t *testing.T) {
	path := testutil.WriteSource(t, "main.sl", "let x = 1;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompileFile(ctx, path, testOptions(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompileFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, src := range []string{"let a = 1;", "let b = true;", "let c = \"c\";", "let d = e;"} {
		path := filepath.Join(dir, string(rune('a'+i))+".sl")
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		paths = append(paths, path)
	}

	opts := testOptions(t)
	opts.Jobs = 2
	units, err := CompileFiles(context.Background(), paths, opts)
	require.NoError(t, err)
	require.Len(t, units, 4)

	for i, unit := range units {
		assert.Equal(t, paths[i], unit.Path)
	}
	assert.False(t, units[0].HasErrors())
	assert.True(t, units[3].HasErrors())

	// Each file has its own scope tree.
	_, ok := units[1].Global.Lookup("a")
	assert.False(t, ok)
	assert.NotSame(t, units[0].Global, units[1].Global)
}

func TestCompileFilesStopsOnIOError(t *testing.T) {
	good := testutil.WriteSource(t, "ok.sl", "let x = 1;")
	missing := filepath.Join(t.TempDir(), "missing.sl")

	_, err := CompileFiles(context.Background(), []string{good, missing}, testOptions(t))
	require.ErrorIs(t, err, os.ErrNotExist)
}
