package tsql

import (
	"fmt"
	"iter"
)

// Column is a named scalar expression, optionally bound to a relation.
//
// Column identity is pointer identity: two columns with equal names are
// still distinct columns.
type Column struct {
	name  string
	typ   string
	table FromClause
	fks   []*ForeignKey
}

// Col returns an unbound column with the given name.
func Col(name string) *Column {
	return &Column{name: name}
}

// Typed sets the declared SQL type of the column and returns it.
func (c *Column) Typed(typ string) *Column {
	c.typ = typ
	return c
}

// References declares a foreign key from this column to table(column) and
// returns the column.
func (c *Column) References(table, column string) *Column {
	c.fks = append(c.fks, &ForeignKey{Parent: c, RefTable: table, RefColumn: column})
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// TypeName returns the declared SQL type, if any.
func (c *Column) TypeName() string { return c.typ }

// Table returns the relation the column is bound to, or nil.
func (c *Column) Table() FromClause { return c.table }

// Key returns the plain lookup key of the column.
func (c *Column) Key() string { return c.name }

// LabelKey returns the disambiguated lookup key: "<relation>_<name>" for a
// column bound to a named relation, the plain name otherwise.
func (c *Column) LabelKey() string {
	if c.table != nil {
		if name := relationName(c.table); name != "" {
			return name + "_" + c.name
		}
	}
	return c.name
}

// ForeignKeys iterates over foreign keys declared on the column.
func (c *Column) ForeignKeys() iter.Seq[*ForeignKey] {
	return func(yield func(*ForeignKey) bool) {
		for _, fk := range c.fks {
			if !yield(fk) {
				return
			}
		}
	}
}

// VisitName implements [ClauseElement].
func (c *Column) VisitName() string { return "column" }

// TraverseInternals implements [ClauseElement].
//
// The owning relation is carried by name only so traversal does not loop
// through the relation back into its columns.
func (c *Column) TraverseInternals() []TraversalField {
	fields := []TraversalField{
		{Name: "name", Kind: TraverseString, Value: c.name},
	}
	if c.table != nil {
		fields = append(fields, TraversalField{Name: "table", Kind: TraverseAnon, Value: relationName(c.table)})
	}
	return fields
}

func (c *Column) exprNode() {}

// ForeignKey declares that its parent column references a column of
// another relation.
type ForeignKey struct {
	Parent    *Column
	RefTable  string
	RefColumn string
}

// String implements [fmt.Stringer].
func (fk *ForeignKey) String() string {
	return fmt.Sprintf("ForeignKey(%s -> %s.%s)", fk.Parent.Name(), fk.RefTable, fk.RefColumn)
}

// ColumnCollection is a key-unique, insertion-ordered column namespace.
type ColumnCollection struct {
	keys  []string
	cols  []*Column
	index map[string]int
}

// NewColumnCollection returns an empty collection.
func NewColumnCollection() *ColumnCollection {
	return &ColumnCollection{index: map[string]int{}}
}

// Add inserts col under key.
//
// On key collision the later column silently takes the slot while the
// first insertion position is kept. Callers that need collisions to be
// visible must check with [ColumnCollection.Get] beforehand.
func (c *ColumnCollection) Add(key string, col *Column) {
	if i, ok := c.index[key]; ok {
		c.cols[i] = col
		return
	}
	c.index[key] = len(c.cols)
	c.keys = append(c.keys, key)
	c.cols = append(c.cols, col)
}

// Get returns the column stored under key.
func (c *ColumnCollection) Get(key string) (*Column, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.cols[i], true
}

// Len returns the number of distinct keys.
func (c *ColumnCollection) Len() int { return len(c.cols) }

// Slice returns columns in keyed insertion order.
func (c *ColumnCollection) Slice() []*Column {
	out := make([]*Column, len(c.cols))
	copy(out, c.cols)
	return out
}

// All iterates over (key, column) pairs in keyed insertion order.
func (c *ColumnCollection) All() iter.Seq2[string, *Column] {
	return func(yield func(string, *Column) bool) {
		for i, key := range c.keys {
			if !yield(key, c.cols[i]) {
				return
			}
		}
	}
}
