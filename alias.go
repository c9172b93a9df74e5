package tsql

import (
	"iter"
	"maps"
)

// Alias renames a relation.
//
// Exported columns are proxies of the element's columns, bound to the
// alias itself so they render qualified with the alias name.
type Alias struct {
	element FromClause
	name    string
	cache   columnCache
}

// NewAlias returns element aliased under name.
//
// An empty name is allowed; the compiler assigns one while rendering.
func NewAlias(element FromClause, name string) *Alias {
	return &Alias{element: element, name: name}
}

// Name returns the alias name.
func (a *Alias) Name() string { return a.name }

// Element returns the aliased relation.
func (a *Alias) Element() FromClause { return a.element }

// C returns the proxied column named name, or nil.
func (a *Alias) C(name string) *Column {
	col, _ := a.Columns().Get(name)
	return col
}

// proxy returns a copy of col bound to the alias.
func (a *Alias) proxy(col *Column) *Column {
	return &Column{name: col.name, typ: col.typ, table: a, fks: col.fks}
}

func (a *Alias) populate(cols *ColumnCollection, fks map[*ForeignKey]struct{}) {
	for _, col := range a.element.Columns().Slice() {
		p := a.proxy(col)
		cols.Add(p.Key(), p)
		for fk := range p.ForeignKeys() {
			fks[fk] = struct{}{}
		}
	}
}

// Columns implements [FromClause].
func (a *Alias) Columns() *ColumnCollection {
	a.cache.ensure(a.populate)
	return a.cache.columns
}

// ForeignKeys implements [FromClause].
func (a *Alias) ForeignKeys() iter.Seq[*ForeignKey] {
	a.cache.ensure(a.populate)
	return maps.Keys(a.cache.fks)
}

// IsDerivedFrom implements [FromClause].
func (a *Alias) IsDerivedFrom(other FromClause) bool {
	return other == FromClause(a) || a.element.IsDerivedFrom(other)
}

// SelfGroup implements [FromClause]. An alias is a named unit.
func (a *Alias) SelfGroup(Operator) FromClause { return a }

// FromObjects implements [FromClause]. An alias stands for its element,
// which is not exported separately.
func (a *Alias) FromObjects() []FromClause { return []FromClause{a} }

// HiddenFroms implements [FromClause].
func (a *Alias) HiddenFroms() []FromClause { return nil }

// RefreshForNewColumn implements [FromClause].
func (a *Alias) RefreshForNewColumn(col *Column) {
	a.element.RefreshForNewColumn(col)
	if !a.cache.populated {
		return
	}
	for _, ec := range a.element.Columns().Slice() {
		if _, ok := a.cache.columns.Get(ec.Key()); ok {
			continue
		}
		p := a.proxy(ec)
		a.cache.columns.Add(p.Key(), p)
		for fk := range p.ForeignKeys() {
			a.cache.fks[fk] = struct{}{}
		}
	}
}

// Bind implements [FromClause].
func (a *Alias) Bind() Bind { return a.element.Bind() }

// Description implements [FromClause].
func (a *Alias) Description() string {
	if a.name == "" {
		return "aliased(" + a.element.Description() + ")"
	}
	return a.name
}

// VisitName implements [ClauseElement].
func (a *Alias) VisitName() string { return "alias" }

// TraverseInternals implements [ClauseElement].
func (a *Alias) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "element", Kind: TraverseClauseElement, Value: a.element},
		{Name: "name", Kind: TraverseString, Value: a.name},
	}
}
