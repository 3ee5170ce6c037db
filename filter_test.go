package openspout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterRow(values ...Value) *Row {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Value: v}
	}
	return &Row{cells: cells}
}

func TestRowFilter_MatchesCells(t *testing.T) {
	f, err := NewRowFilter(`cells[0] == "Total" && cells[1] == 42`)
	require.NoError(t, err)

	ok, err := f.Match("Data", 1, filterRow(Text("Total"), Integer(42)))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Match("Data", 1, filterRow(Text("Subtotal"), Integer(42)))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRowFilter_SheetAndRowIndex(t *testing.T) {
	f, err := NewRowFilter(`sheet == "Data" && rowIndex > 1`)
	require.NoError(t, err)

	ok, err := f.Match("Data", 2, filterRow(Text("x")))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Match("Data", 1, filterRow(Text("x")))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.Match("Other", 2, filterRow(Text("x")))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRowFilter_EmptyCellIsNil(t *testing.T) {
	f, err := NewRowFilter(`cells[0] == nil`)
	require.NoError(t, err)

	ok, err := f.Match("Data", 1, filterRow(Empty{}))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRowFilter_UndefinedVariableIsFalse(t *testing.T) {
	f, err := NewRowFilter(`missing`)
	require.NoError(t, err)

	ok, err := f.Match("Data", 1, filterRow(Text("x")))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRowFilter_NonBoolResult(t *testing.T) {
	f, err := NewRowFilter(`rowIndex + 1`)
	require.NoError(t, err)

	_, err = f.Match("Data", 1, filterRow(Text("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected bool")
}

func TestRowFilter_CompileError(t *testing.T) {
	_, err := NewRowFilter(`cells[`)
	assert.Error(t, err)
}
