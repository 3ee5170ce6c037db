package openspout

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RowFilter evaluates a boolean expression against rows. The expression
// sees three variables: sheet (the sheet name), rowIndex (1-based position
// in the stream) and cells (a list of native cell values).
//
//	filter, err := openspout.NewRowFilter(`len(cells) > 0 && cells[0] == "Total"`)
type RowFilter struct {
	expression string
	program    *vm.Program
}

// NewRowFilter compiles the filter expression once for reuse across rows.
func NewRowFilter(expression string) (*RowFilter, error) {
	program, err := expr.Compile(expression, expr.Env(map[string]any{}), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &RowFilter{expression: expression, program: program}, nil
}

// Match evaluates the filter for one row. A nil result counts as false; any
// other non-bool result is an error.
func (f *RowFilter) Match(sheet string, rowIndex int, row *Row) (bool, error) {
	cells := make([]any, len(row.Cells()))
	for i, c := range row.Cells() {
		cells[i] = Native(c.Value)
	}
	env := map[string]any{
		"sheet":    sheet,
		"rowIndex": rowIndex,
		"cells":    cells,
	}
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.expression, err)
	}
	if result == nil {
		return false, nil
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q evaluated to %T, expected bool", f.expression, result)
	}
	return b, nil
}
