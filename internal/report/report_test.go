package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arnavsurve/slangc/internal/compiler"
	"github.com/arnavsurve/slangc/internal/compiler/diag"
	"github.com/arnavsurve/slangc/internal/compiler/scope"
)

const source = `let x: bool;
let greeting = "hi";
fn f(a: int): bool {
  let y = a;
  return true;
}
`

func collectSource(t *testing.T) []Row {
	t.Helper()
	unit := compiler.CompileSource("main.sl", source, compiler.DefaultOptions())
	require.False(t, unit.HasErrors(), unit.Diagnostics.Strings())
	return Collect(unit.Global)
}

func TestCollect(t *testing.T) {
	rows := collectSource(t)
	require.Len(t, rows, 5)

	// Hoisted functions are defined before the lets in the global scope.
	assert.Equal(t, "f", rows[0].Name)
	assert.Equal(t, "function", rows[0].Type)
	assert.Equal(t, "f(a: int): bool", rows[0].Signature)
	assert.Equal(t, "(I)Z", rows[0].Descriptor)
	assert.Empty(t, rows[0].Value)

	assert.Equal(t, Row{
		Scope: "global", ScopeID: 0, Depth: 0,
		Name: "x", AugmentedName: "x", Type: "bool", Line: 1,
		Signature: "x: bool", Descriptor: "Z",
	}, rows[1])

	assert.Equal(t, `"hi"`, rows[2].Value)
	assert.True(t, rows[2].Calculated)
	assert.True(t, rows[2].Inferred)
	assert.Equal(t, "Ljava/lang/String;", rows[2].Descriptor)

	assert.Equal(t, "f", rows[3].Scope)
	assert.Equal(t, 1, rows[3].Depth)
	assert.Equal(t, "a", rows[3].Name)

	assert.Equal(t, "y", rows[4].Name)
	assert.Equal(t, "y_1", rows[4].AugmentedName)
	assert.False(t, rows[4].Calculated)
}

func TestCollectNil(t *testing.T) {
	assert.Empty(t, Collect(nil))
	assert.NotNil(t, Collect(nil))
	assert.Empty(t, Collect(scope.NewScope(nil, "global")))
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSymbols(&buf, collectSource(t), "table"))

	out := buf.String()
	assert.Contains(t, out, "SCOPE")
	assert.Contains(t, out, "global#0")
	assert.Contains(t, out, "f(a: int): bool")
	assert.Contains(t, out, "y_1")
	assert.True(t, strings.HasSuffix(out, "(5 symbols)\n"))
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSymbols(&buf, nil, "table"))
	assert.Equal(t, "(0 symbols)\n", buf.String())
}

func TestRenderJSON(t *testing.T) {
	rows := collectSource(t)
	var buf bytes.Buffer
	require.NoError(t, RenderSymbols(&buf, rows, "json"))

	var decoded []Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)
	assert.Contains(t, buf.String(), `"augmented_name": "y_1"`)
}

func TestRenderYAML(t *testing.T) {
	rows := collectSource(t)
	var buf bytes.Buffer
	require.NoError(t, RenderSymbols(&buf, rows, "yaml"))

	var decoded []Row
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)
	assert.Contains(t, buf.String(), "scope_id: 0")
}

func TestRenderUnknownFormat(t *testing.T) {
	err := RenderSymbols(&bytes.Buffer{}, nil, "xml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderDiagnostics(t *testing.T) {
	list := diag.List{
		{Line: 2, Column: 5, Severity: diag.Error, Phase: diag.Semantic, Message: "Undeclared identifier 'y'"},
		{Line: 3, Column: 1, Severity: diag.Warning, Phase: diag.Semantic, Message: "Result of expression 'x' is unused"},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderDiagnostics(&buf, "main.sl", list))
	assert.Equal(t,
		"main.sl:2:5: Semantic Error: Undeclared identifier 'y'\n"+
			"main.sl:3:1: Semantic Warning: Result of expression 'x' is unused\n",
		buf.String())
}
