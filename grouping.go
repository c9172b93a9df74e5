package tsql

import "iter"

// FromGrouping parenthesizes a composite relation.
//
// It is transparent for namespace and derivation purposes and is its own
// group, so repeated grouping never double-wraps.
type FromGrouping struct {
	element FromClause
}

// Group wraps f in parentheses.
func Group(f FromClause) *FromGrouping {
	return &FromGrouping{element: f}
}

// Element returns the wrapped relation.
func (g *FromGrouping) Element() FromClause { return g.element }

// Columns implements [FromClause].
func (g *FromGrouping) Columns() *ColumnCollection { return g.element.Columns() }

// ForeignKeys implements [FromClause].
func (g *FromGrouping) ForeignKeys() iter.Seq[*ForeignKey] { return g.element.ForeignKeys() }

// IsDerivedFrom implements [FromClause].
func (g *FromGrouping) IsDerivedFrom(other FromClause) bool {
	return other == FromClause(g) || g.element.IsDerivedFrom(other)
}

// SelfGroup implements [FromClause]. Grouping is idempotent.
func (g *FromGrouping) SelfGroup(Operator) FromClause { return g }

// FromObjects implements [FromClause]. Parentheses add no relation of
// their own.
func (g *FromGrouping) FromObjects() []FromClause { return g.element.FromObjects() }

// HiddenFroms implements [FromClause].
func (g *FromGrouping) HiddenFroms() []FromClause { return g.element.HiddenFroms() }

// RefreshForNewColumn implements [FromClause].
func (g *FromGrouping) RefreshForNewColumn(col *Column) { g.element.RefreshForNewColumn(col) }

// Bind implements [FromClause].
func (g *FromGrouping) Bind() Bind { return g.element.Bind() }

// Description implements [FromClause].
func (g *FromGrouping) Description() string { return g.element.Description() }

// VisitName implements [ClauseElement].
func (g *FromGrouping) VisitName() string { return "grouping" }

// TraverseInternals implements [ClauseElement].
func (g *FromGrouping) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "element", Kind: TraverseClauseElement, Value: g.element},
	}
}
