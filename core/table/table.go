// Package table provides the column-oriented feature table consumed by the tree engine.
//
// A Table holds named columns of equal length. Each column is either numeric or
// categorical. Tables are never mutated after construction; training code addresses
// subsets of rows through index slices instead of copying.
package table

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/ctreelab/arbor/pkg/errors"
)

// Kind is the type of values held by a column.
type Kind int

const (
	// Categorical columns hold string values compared by equality.
	Categorical Kind = iota
	// Numeric columns hold float64 values that may be split by threshold.
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Categorical:
		return "categorical"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Column is a named, typed sequence of values. Exactly one of Numeric or Categorical is
// populated, according to Kind.
type Column struct {
	Name        string
	Kind        Kind
	Numeric     []float64
	Categorical []string
}

// NumericColumn returns a numeric column.
func NumericColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: Numeric, Numeric: values}
}

// CategoricalColumn returns a categorical column.
func CategoricalColumn(name string, values []string) Column {
	return Column{Name: name, Kind: Categorical, Categorical: values}
}

// Len returns the number of values in the column.
func (c Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Numeric)
	}
	return len(c.Categorical)
}

// StringAt returns row i as a string. Numeric values are formatted with FormatNumber, which
// is how algorithms without threshold support see them.
func (c Column) StringAt(i int) string {
	if c.Kind == Numeric {
		return FormatNumber(c.Numeric[i])
	}
	return c.Categorical[i]
}

// FormatNumber formats v in the shortest form that parses back to the same float64.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Table is an immutable set of equally long, uniquely named columns.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New validates columns and returns a Table. Column names must be unique and non-empty and
// all columns must have the same length.
func New(columns ...Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, errors.NewInvalidInputError("table.New", "at least one column is required")
	}
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    columns[0].Len(),
	}
	for i, c := range columns {
		if c.Name == "" {
			return nil, errors.NewInvalidInputErrorf("table.New", "column %d has an empty name", i)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, errors.NewInvalidInputErrorf("table.New", "duplicate column name %q", c.Name)
		}
		if c.Kind != Numeric && c.Kind != Categorical {
			return nil, errors.NewInvalidInputErrorf("table.New", "column %q has unknown kind %d", c.Name, int(c.Kind))
		}
		if c.Len() != t.rows {
			return nil, errors.NewDimensionError("table.New", t.rows, c.Len(), 0)
		}
		t.columns[i] = c
		t.index[c.Name] = i
	}
	return t, nil
}

// FromMatrix builds an all-numeric table from m. names may be nil, in which case columns
// are named x0, x1, ...
func FromMatrix(m mat.Matrix, names []string) (*Table, error) {
	r, c := m.Dims()
	if names == nil {
		names = make([]string, c)
		for j := range names {
			names[j] = "x" + strconv.Itoa(j)
		}
	}
	if len(names) != c {
		return nil, errors.NewDimensionError("table.FromMatrix", c, len(names), 1)
	}
	columns := make([]Column, c)
	for j := 0; j < c; j++ {
		values := make([]float64, r)
		mat.Col(values, j, m)
		columns[j] = NumericColumn(names[j], values)
	}
	return New(columns...)
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// ColumnAt returns the i-th column in table order.
func (t *Table) ColumnAt(i int) Column {
	return t.columns[i]
}

// Select returns a new table holding the given rows, in the given order.
func (t *Table) Select(rows []int) (*Table, error) {
	columns := make([]Column, len(t.columns))
	for j, c := range t.columns {
		switch c.Kind {
		case Numeric:
			values := make([]float64, len(rows))
			for i, r := range rows {
				if r < 0 || r >= t.rows {
					return nil, errors.NewInvalidInputErrorf("table.Select", "row %d out of range [0, %d)", r, t.rows)
				}
				values[i] = c.Numeric[r]
			}
			columns[j] = NumericColumn(c.Name, values)
		default:
			values := make([]string, len(rows))
			for i, r := range rows {
				if r < 0 || r >= t.rows {
					return nil, errors.NewInvalidInputErrorf("table.Select", "row %d out of range [0, %d)", r, t.rows)
				}
				values[i] = c.Categorical[r]
			}
			columns[j] = CategoricalColumn(c.Name, values)
		}
	}
	return New(columns...)
}
