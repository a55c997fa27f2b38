package dataset

import (
	"time"

	"cancerscope/domain/core"
)

// TableInfo is the metadata view of a Table handed to presentation
type TableInfo struct {
	ID          core.TableID `json:"id"`
	Name        string       `json:"name"`
	Source      Source       `json:"source"`
	RowCount    int          `json:"row_count"`
	ColumnCount int          `json:"column_count"`
	MissingRate float64      `json:"missing_rate"`
	Fingerprint core.Hash    `json:"fingerprint"`
	Fields      []FieldInfo  `json:"fields"`
	CreatedAt   time.Time    `json:"created_at"`
}

// FieldInfo describes one column
type FieldInfo struct {
	Name         string     `json:"name"`
	Type         ColumnType `json:"type"`
	MissingCount int        `json:"missing_count"`
}

// Preview is a row-oriented rendering of the first rows of a table
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// PreviewOf renders the first n rows of t as strings
func PreviewOf(t *Table, n int) Preview {
	head := t.Head(n)
	p := Preview{Columns: head.ColumnNames(), Rows: make([][]string, head.RowCount())}
	cols := head.Columns()
	for r := range p.Rows {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.Value(r).String()
		}
		p.Rows[r] = row
	}
	return p
}
