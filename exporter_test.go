package loom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportDOT(t *testing.T) {
	s := New()

	id0 := Add(s, func() int { return 1 }, WithName("source"))
	Add2(s, func(a, b int) int { return a + b }, FutureOf[int](id0), Lit(2), WithName("sum"))

	var sb strings.Builder
	require.NoError(t, s.ExportDOT(&sb))

	expected := `digraph "loom" {
    rankdir=LR;
    "source";
    "sum";
    "source" -> "sum";
}
`
	assert.Equal(t, expected, sb.String())
}

func TestExportDOTOptions(t *testing.T) {
	s := New()
	Add(s, func() int { return 1 })

	var sb strings.Builder
	require.NoError(t, s.ExportDOT(&sb, DOTWithGraphName("pipeline"), DOTWithRankDir("TB")))

	out := sb.String()
	assert.Contains(t, out, `digraph "pipeline" {`)
	assert.Contains(t, out, "rankdir=TB;")
}

func TestExportDOTForwardReference(t *testing.T) {
	s := New()
	Add1(s, func(x int) int { return x }, FutureOf[int](3), WithName("eager"))

	var sb strings.Builder
	require.NoError(t, s.ExportDOT(&sb))

	// Unregistered dependencies render by their placeholder name; nothing
	// resolves and nothing fails.
	assert.Contains(t, sb.String(), `"task-3" -> "eager";`)
}

func TestExportDOTQuotesNames(t *testing.T) {
	s := New()
	Add(s, func() int { return 1 }, WithName(`tricky"name`))

	var sb strings.Builder
	require.NoError(t, s.ExportDOT(&sb))
	assert.Contains(t, sb.String(), `"tricky\"name";`)
}

func TestExportDOTNilWriter(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.ExportDOT(nil), ErrNilWriter)
}
