package tsql

import (
	"github.com/go-faster/errors"

	"github.com/go-faster/tsql/ddl"
)

// TableOf builds a relation from a DDL table description, binding a
// column for every described column and declaring foreign keys from
// REFERENCES clauses. Comment rows are skipped.
func TableOf(d ddl.Table) (*Table, error) {
	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate")
	}
	cols := make([]*Column, 0, len(d.Columns))
	for _, dc := range d.Columns {
		if dc.Name == "" {
			continue
		}
		col := Col(dc.Name).Typed(dc.Type)
		if dc.References != "" {
			refTable, refColumn, err := ddl.ParseReference(dc.References)
			if err != nil {
				return nil, errors.Wrapf(err, "column %q", dc.Name)
			}
			col = col.References(refTable, refColumn)
		}
		cols = append(cols, col)
	}
	return NewTable(d.QualifiedName(), cols...), nil
}
