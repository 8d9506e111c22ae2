// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Table is a report ready for serialization: ordered column names and rows
// of scalar cells (string, int, or nil for a missing value). Row i, cell j
// belongs to Columns[j].
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Row returns row i as a column-name to value mapping.
func (t Table) Row(i int) map[string]any {
	m := make(map[string]any, len(t.Columns))
	for j, col := range t.Columns {
		if j < len(t.Rows[i]) {
			m[col] = t.Rows[i][j]
		} else {
			m[col] = nil
		}
	}
	return m
}
