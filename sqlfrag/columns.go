package sqlfrag

import "fmt"

// Column pairs a logical field name (the one callers use, e.g.
// "numEmployees") with its physical column name (e.g. "num_employees").
type Column struct {
	Field string
	Name  string
}

// ColumnMap translates logical field names to column names. The zero value
// maps every field to itself.
type ColumnMap struct {
	byField map[string]string
}

// Columns builds a ColumnMap from pairs. Field names must be unique; the
// maps are declared once per entity, so a duplicate is a programming error
// and panics.
func Columns(cols ...Column) ColumnMap {
	m := ColumnMap{byField: make(map[string]string, len(cols))}
	for _, c := range cols {
		if _, dup := m.byField[c.Field]; dup {
			panic(fmt.Sprintf("sqlfrag: duplicate field %q in column map", c.Field))
		}
		m.byField[c.Field] = c.Name
	}
	return m
}

// Resolve returns the column name for field, or field itself when it has
// no mapping.
func (m ColumnMap) Resolve(field string) string {
	if name, ok := m.byField[field]; ok {
		return name
	}
	return field
}
