package tsql

import (
	"iter"
	"maps"
)

// TableFunc is a table-valued function relation, the canonical right side
// of APPLY. Its arguments may reference columns of another relation; the
// binding of such references is the point of the APPLY operation.
type TableFunc struct {
	name string
	args []Expr
	cols *ColumnCollection
	fks  map[*ForeignKey]struct{}
	bind Bind
}

// TableValued returns a relation produced by calling the table-valued
// function name with args. cols declare its result columns and are bound
// to the relation.
func TableValued(name string, args []Expr, cols ...*Column) *TableFunc {
	f := &TableFunc{
		name: name,
		args: args,
		cols: NewColumnCollection(),
		fks:  make(map[*ForeignKey]struct{}),
	}
	for _, col := range cols {
		f.appendColumn(col)
	}
	return f
}

func (f *TableFunc) appendColumn(col *Column) {
	if col.table != nil {
		panic("tsql: column " + col.name + " is already bound to " + col.table.Description())
	}
	col.table = f
	f.cols.Add(col.Key(), col)
	for fk := range col.ForeignKeys() {
		f.fks[fk] = struct{}{}
	}
}

// Name returns the function name.
func (f *TableFunc) Name() string { return f.name }

// Args returns the call arguments.
func (f *TableFunc) Args() []Expr { return f.args }

// C returns the result column named name, or nil.
func (f *TableFunc) C(name string) *Column {
	col, _ := f.cols.Get(name)
	return col
}

// WithBind associates an execution context with the relation.
func (f *TableFunc) WithBind(b Bind) *TableFunc {
	f.bind = b
	return f
}

// Columns implements [FromClause].
func (f *TableFunc) Columns() *ColumnCollection { return f.cols }

// ForeignKeys implements [FromClause].
func (f *TableFunc) ForeignKeys() iter.Seq[*ForeignKey] { return maps.Keys(f.fks) }

// IsDerivedFrom implements [FromClause].
func (f *TableFunc) IsDerivedFrom(other FromClause) bool { return other == FromClause(f) }

// SelfGroup implements [FromClause]. A function call is already atomic.
func (f *TableFunc) SelfGroup(Operator) FromClause { return f }

// FromObjects implements [FromClause].
func (f *TableFunc) FromObjects() []FromClause { return []FromClause{f} }

// HiddenFroms implements [FromClause].
func (f *TableFunc) HiddenFroms() []FromClause { return nil }

// RefreshForNewColumn implements [FromClause]. Result columns are
// declared up front, so there is nothing to refresh.
func (f *TableFunc) RefreshForNewColumn(*Column) {}

// Bind implements [FromClause].
func (f *TableFunc) Bind() Bind { return f.bind }

// Description implements [FromClause].
func (f *TableFunc) Description() string { return f.name + "()" }

// VisitName implements [ClauseElement].
func (f *TableFunc) VisitName() string { return "table_function" }

// TraverseInternals implements [ClauseElement].
func (f *TableFunc) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "name", Kind: TraverseString, Value: f.name},
		{Name: "args", Kind: TraverseClauseList, Value: clauseList(f.args)},
		{Name: "columns", Kind: TraverseClauseList, Value: clauseList(f.cols.Slice())},
	}
}
