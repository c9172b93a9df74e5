package tsql

import "iter"

// FromClause is a relation expression: anything that can appear in a FROM
// list.
type FromClause interface {
	ClauseElement

	// Columns returns the exported column namespace of the relation.
	//
	// Composite relations populate it lazily on first access and cache
	// it; the same collection is then refreshed in place by
	// RefreshForNewColumn. Callers must not modify it.
	Columns() *ColumnCollection
	// ForeignKeys iterates over foreign keys of exported columns.
	// Order is unspecified.
	ForeignKeys() iter.Seq[*ForeignKey]
	// IsDerivedFrom reports whether the relation is other or derives its
	// rows from it.
	IsDerivedFrom(other FromClause) bool
	// SelfGroup returns the relation as it should appear when embedded
	// in a larger expression, wrapping composite relations in a
	// [FromGrouping]. against is the operator the relation is placed
	// against, OpNone if unknown.
	SelfGroup(against Operator) FromClause
	// FromObjects returns the relation itself and every relation it
	// covers, itself first.
	FromObjects() []FromClause
	// HiddenFroms returns relations that must not be rendered as
	// separate FROM items when this relation is listed.
	HiddenFroms() []FromClause
	// RefreshForNewColumn makes a populated column namespace pick up col
	// after it was added to a covered relation. Unpopulated namespaces
	// stay lazy.
	RefreshForNewColumn(col *Column)
	// Bind returns the execution context associated with the relation,
	// if any.
	Bind() Bind
	// Description returns a short diagnostic label.
	Description() string
}

// columnCache is the lazily populated column namespace of a composite
// relation.
//
// It is not synchronized: concurrent first reads may recompute the same
// namespace, which is harmless as population is deterministic. Mutation
// (AppendColumn on a source, Clone, refresh) is single-goroutine by
// contract.
type columnCache struct {
	populated bool
	columns   *ColumnCollection
	fks       map[*ForeignKey]struct{}
}

func (c *columnCache) ensure(populate func(cols *ColumnCollection, fks map[*ForeignKey]struct{})) {
	if c.populated {
		return
	}
	cols := NewColumnCollection()
	fks := make(map[*ForeignKey]struct{})
	populate(cols, fks)
	c.columns, c.fks = cols, fks
	c.populated = true
}

// mergeColumns merges exported columns of sides into cols keyed by their
// disambiguated label keys, unioning foreign keys into fks.
//
// A later column with an already present key takes the slot of the
// earlier one while keeping its position.
func mergeColumns(cols *ColumnCollection, fks map[*ForeignKey]struct{}, sides ...FromClause) {
	for _, side := range sides {
		for _, col := range side.Columns().Slice() {
			cols.Add(col.LabelKey(), col)
			for fk := range col.ForeignKeys() {
				fks[fk] = struct{}{}
			}
		}
	}
}

// relationName returns the exported name of a named relation, "" for
// anonymous ones.
func relationName(f FromClause) string {
	switch f := f.(type) {
	case *Table:
		return f.name
	case *TableFunc:
		return f.name
	case *Alias:
		return f.name
	case *Subquery:
		return f.name
	default:
		return ""
	}
}
