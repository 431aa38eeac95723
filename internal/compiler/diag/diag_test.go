package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Line: 4, Column: 7, Severity: Error, Phase: Semantic, Message: "boom"}
	assert.Equal(t, "4:7: Semantic Error: boom", d.String())

	w := Diagnostic{Line: 1, Column: 1, Severity: Warning, Phase: Semantic, Message: "hm"}
	assert.Equal(t, "1:1: Semantic Warning: hm", w.String())
}

func TestListFilteringAndSort(t *testing.T) {
	var l List
	l.Add(Diagnostic{Line: 3, Column: 1, Severity: Warning, Phase: Semantic, Message: "c"})
	l.Add(Diagnostic{Line: 1, Column: 5, Severity: Error, Phase: Syntax, Message: "b"})
	l.Add(Diagnostic{Line: 1, Column: 2, Severity: Error, Phase: Syntax, Message: "a"})

	assert.True(t, l.HasErrors())
	assert.Len(t, l.Errors(), 2)
	assert.Len(t, l.Warnings(), 1)

	l.Sort()
	assert.Equal(t, []string{
		"1:2: Syntax Error: a",
		"1:5: Syntax Error: b",
		"3:1: Semantic Warning: c",
	}, l.Strings())

	assert.False(t, l.Warnings().HasErrors())
}
