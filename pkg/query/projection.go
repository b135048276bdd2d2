// Package query provides a small SQL builder over projection maps that translate
// API field names into qualified table columns.
package query

import "strings"

// ProjectionMap maps view field names to columns of a single aliased table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	fields  map[string]string
}

// NewProjectionMap creates a projection over schema.table with the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project registers a column under a view field name. Columns are selected in registration order.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns = append(p.columns, qualified)
	p.fields[viewName] = qualified
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the qualified table reference including its alias.
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Column resolves a view field name. Unknown names are returned unchanged.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.fields[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns the comma-separated select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

// ColumnList returns a copy of the qualified column names.
func (p *ProjectionMap) ColumnList() []string {
	list := make([]string, len(p.columns))
	copy(list, p.columns)
	return list
}
