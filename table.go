package tsql

import (
	"fmt"
	"iter"
	"maps"
)

// Table is a named base relation with a fixed set of columns.
type Table struct {
	name string
	cols *ColumnCollection
	fks  map[*ForeignKey]struct{}
	bind Bind
}

// NewTable returns a table with the given columns bound to it.
//
// Columns must be unbound: a column belongs to exactly one relation, and
// binding an already bound column panics.
func NewTable(name string, cols ...*Column) *Table {
	t := &Table{
		name: name,
		cols: NewColumnCollection(),
		fks:  make(map[*ForeignKey]struct{}),
	}
	for _, col := range cols {
		t.AppendColumn(col)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// C returns the column named name, or nil.
func (t *Table) C(name string) *Column {
	col, _ := t.cols.Get(name)
	return col
}

// AppendColumn binds col to the table and adds it to the namespace.
//
// Relations that already cached columns of this table pick it up through
// their RefreshForNewColumn.
func (t *Table) AppendColumn(col *Column) {
	if col.table != nil {
		panic(fmt.Sprintf("tsql: column %q is already bound to %s", col.name, col.table.Description()))
	}
	col.table = t
	t.cols.Add(col.Key(), col)
	for fk := range col.ForeignKeys() {
		t.fks[fk] = struct{}{}
	}
}

// WithBind associates an execution context with the table.
func (t *Table) WithBind(b Bind) *Table {
	t.bind = b
	return t
}

// Alias returns the table aliased under the given name.
func (t *Table) Alias(name string) *Alias {
	return NewAlias(t, name)
}

// Columns implements [FromClause].
func (t *Table) Columns() *ColumnCollection { return t.cols }

// ForeignKeys implements [FromClause].
func (t *Table) ForeignKeys() iter.Seq[*ForeignKey] { return maps.Keys(t.fks) }

// IsDerivedFrom implements [FromClause]. A table derives only from itself.
func (t *Table) IsDerivedFrom(other FromClause) bool { return other == FromClause(t) }

// SelfGroup implements [FromClause]. A table is already atomic.
func (t *Table) SelfGroup(Operator) FromClause { return t }

// FromObjects implements [FromClause].
func (t *Table) FromObjects() []FromClause { return []FromClause{t} }

// HiddenFroms implements [FromClause].
func (t *Table) HiddenFroms() []FromClause { return nil }

// RefreshForNewColumn implements [FromClause]. The table namespace is
// authoritative, so there is nothing to refresh.
func (t *Table) RefreshForNewColumn(*Column) {}

// Bind implements [FromClause].
func (t *Table) Bind() Bind { return t.bind }

// Description implements [FromClause].
func (t *Table) Description() string { return t.name }

// VisitName implements [ClauseElement].
func (t *Table) VisitName() string { return "table" }

// TraverseInternals implements [ClauseElement].
func (t *Table) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "name", Kind: TraverseString, Value: t.name},
		{Name: "columns", Kind: TraverseClauseList, Value: clauseList(t.cols.Slice())},
	}
}
