package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"cancerscope/domain/core"
)

// ColumnType is the declared semantic type of a column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeText        ColumnType = "text"
	TypeCategorical ColumnType = "categorical"
)

// Source records where a table came from
type Source string

const (
	SourceUpload Source = "upload"
	SourceDemo   Source = "demo"
)

// Column is a named, typed sequence of cells
type Column struct {
	name   string
	ctype  ColumnType
	values []Value
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Type returns the declared column type
func (c *Column) Type() ColumnType { return c.ctype }

// Len returns the number of cells
func (c *Column) Len() int { return len(c.values) }

// Value returns the cell at row i
func (c *Column) Value(i int) Value { return c.values[i] }

// Float returns the numeric content of row i, false when missing or non-numeric
func (c *Column) Float(i int) (float64, bool) { return c.values[i].Float() }

// Values returns a copy of the cells
func (c *Column) Values() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Table is an immutable rectangular dataset. All columns have the same length
// and column names are unique. Build one with a Builder.
type Table struct {
	id        core.TableID
	name      string
	source    Source
	columns   []*Column
	index     map[string]int
	rows      int
	createdAt time.Time
}

// ID returns the table identity
func (t *Table) ID() core.TableID { return t.id }

// Name returns the display name (file name or "demo")
func (t *Table) Name() string { return t.name }

// Source returns where the table came from
func (t *Table) Source() Source { return t.source }

// CreatedAt returns when the table was built
func (t *Table) CreatedAt() time.Time { return t.createdAt }

// RowCount returns the number of rows
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int { return len(t.columns) }

// ColumnNames returns the column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Column returns the named column
func (t *Table) Column(name string) (*Column, bool) {
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[idx], true
}

// Columns returns the columns in table order
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Head returns a new table holding the first n rows. The preview keeps the
// parent's name and source but gets its own identity.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > t.rows {
		n = t.rows
	}
	b := NewBuilder(t.name, t.source)
	for _, c := range t.columns {
		b.AddColumn(c.name, c.ctype, c.values[:n])
	}
	head, err := b.Build()
	if err != nil {
		// columns were already validated when t was built
		panic(fmt.Sprintf("dataset: head of valid table failed: %v", err))
	}
	return head
}

// WriteCSV writes the canonical CSV rendering: header row, then one record per
// row with missing cells empty and numbers in shortest round-trip form.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, len(t.columns))
	for r := 0; r < t.rows; r++ {
		for i, c := range t.columns {
			record[i] = c.values[r].String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Fingerprint hashes the canonical CSV rendering plus declared column types
func (t *Table) Fingerprint() core.Hash {
	var buf bytes.Buffer
	for _, c := range t.columns {
		buf.WriteString(string(c.ctype))
		buf.WriteByte(';')
	}
	buf.WriteByte('\n')
	if err := t.WriteCSV(&buf); err != nil {
		return ""
	}
	return core.NewHash(buf.Bytes())
}

// Info summarises the table for previews and API responses
func (t *Table) Info() TableInfo {
	info := TableInfo{
		ID:          t.id,
		Name:        t.name,
		Source:      t.source,
		RowCount:    t.rows,
		ColumnCount: len(t.columns),
		Fingerprint: t.Fingerprint(),
		CreatedAt:   t.createdAt,
	}
	cells, missing := 0, 0
	for _, c := range t.columns {
		m := c.MissingCount()
		info.Fields = append(info.Fields, FieldInfo{Name: c.name, Type: c.ctype, MissingCount: m})
		cells += c.Len()
		missing += m
	}
	if cells > 0 {
		info.MissingRate = float64(missing) / float64(cells)
	}
	return info
}

// Builder assembles a Table column by column
type Builder struct {
	name    string
	source  Source
	columns []*Column
}

// NewBuilder starts a table with the given display name and source
func NewBuilder(name string, source Source) *Builder {
	return &Builder{name: name, source: source}
}

// AddColumn appends a column; values are copied
func (b *Builder) AddColumn(name string, ctype ColumnType, values []Value) *Builder {
	vals := make([]Value, len(values))
	copy(vals, values)
	b.columns = append(b.columns, &Column{name: name, ctype: ctype, values: vals})
	return b
}

// AddNumeric appends a numeric column built from floats
func (b *Builder) AddNumeric(name string, values []float64) *Builder {
	vals := make([]Value, len(values))
	for i, f := range values {
		vals[i] = Number(f)
	}
	b.columns = append(b.columns, &Column{name: name, ctype: TypeNumeric, values: vals})
	return b
}

// AddText appends a text or categorical column built from strings
func (b *Builder) AddText(name string, ctype ColumnType, values []string) *Builder {
	vals := make([]Value, len(values))
	for i, s := range values {
		vals[i] = Text(s)
	}
	b.columns = append(b.columns, &Column{name: name, ctype: ctype, values: vals})
	return b
}

// Build validates the columns and returns an immutable Table
func (b *Builder) Build() (*Table, error) {
	t := &Table{
		id:        core.NewTableID(),
		name:      b.name,
		source:    b.source,
		columns:   b.columns,
		index:     make(map[string]int, len(b.columns)),
		createdAt: time.Now(),
	}
	for i, c := range b.columns {
		if c.name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := t.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.name)
		}
		switch c.ctype {
		case TypeNumeric, TypeText, TypeCategorical:
		default:
			return nil, fmt.Errorf("column %q has unknown type %q", c.name, c.ctype)
		}
		if i == 0 {
			t.rows = len(c.values)
		} else if len(c.values) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.name, len(c.values), t.rows)
		}
		t.index[c.name] = i
	}
	b.columns = nil
	return t, nil
}
