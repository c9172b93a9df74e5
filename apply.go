package tsql

import (
	"fmt"
	"iter"
	"maps"

	"github.com/go-faster/errors"
)

// Apply is a correlated table-valued join: the right side is evaluated
// once per row of the left side, with left columns visible to its
// arguments.
//
// CROSS APPLY keeps only left rows for which the right side produced at
// least one row, OUTER APPLY keeps every left row and pads right columns
// with NULL.
type Apply struct {
	left    FromClause
	right   FromClause
	isouter bool

	cache  columnCache
	clones *cloneGroup[*Apply]
}

// CrossApply returns a CROSS APPLY of left and right.
//
// Operands are coerced to relations; the right one is self-grouped so a
// composite right side is parenthesized. On coercion failure no node is
// constructed.
func CrossApply(left, right any) (*Apply, error) {
	return newApply(left, right, false)
}

// OuterApply returns an OUTER APPLY of left and right.
func OuterApply(left, right any) (*Apply, error) {
	return newApply(left, right, true)
}

func newApply(left, right any, isouter bool) (*Apply, error) {
	l, err := AsFromClause(left)
	if err != nil {
		return nil, errors.Wrap(err, "left")
	}
	r, err := AsFromClause(right)
	if err != nil {
		return nil, errors.Wrap(err, "right")
	}
	return &Apply{
		left:    l,
		right:   r.SelfGroup(OpNone),
		isouter: isouter,
	}, nil
}

// Left returns the left side.
func (a *Apply) Left() FromClause { return a.left }

// Right returns the right side as stored, after self-grouping.
func (a *Apply) Right() FromClause { return a.right }

// IsOuter reports whether the node is an OUTER APPLY.
func (a *Apply) IsOuter() bool { return a.isouter }

func (a *Apply) populate(cols *ColumnCollection, fks map[*ForeignKey]struct{}) {
	mergeColumns(cols, fks, a.left, a.right)
}

// Columns implements [FromClause]: left columns first, then right
// columns, keyed by disambiguated label keys. On key collision the right
// column silently takes the slot while the left position is kept.
func (a *Apply) Columns() *ColumnCollection {
	a.cache.ensure(a.populate)
	return a.cache.columns
}

// ForeignKeys implements [FromClause]: the union over both sides. Order
// is unspecified.
func (a *Apply) ForeignKeys() iter.Seq[*ForeignKey] {
	a.cache.ensure(a.populate)
	return maps.Keys(a.cache.fks)
}

// IsDerivedFrom implements [FromClause]: other is the apply itself or a
// source of either side.
func (a *Apply) IsDerivedFrom(other FromClause) bool {
	return other == FromClause(a) || a.left.IsDerivedFrom(other) || a.right.IsDerivedFrom(other)
}

// SelfGroup implements [FromClause]. An apply embedded anywhere is
// parenthesized regardless of against: the operation is neither
// associative nor commutative.
func (a *Apply) SelfGroup(Operator) FromClause { return Group(a) }

// FromObjects implements [FromClause]: the apply itself, then the from
// objects of the left side, then of the right side.
func (a *Apply) FromObjects() []FromClause {
	out := []FromClause{a}
	out = append(out, a.left.FromObjects()...)
	out = append(out, a.right.FromObjects()...)
	return out
}

// HiddenFroms implements [FromClause]: the operands of the apply and of
// every clone of it must not be listed separately.
func (a *Apply) HiddenFroms() []FromClause {
	var out []FromClause
	for _, m := range a.cloneSet() {
		out = append(out, m.left.FromObjects()...)
		out = append(out, m.right.FromObjects()...)
	}
	return out
}

func (a *Apply) cloneSet() []*Apply {
	if a.clones == nil {
		return []*Apply{a}
	}
	return a.clones.snapshot()
}

// Clone returns a structural copy sharing both operands, with an
// unpopulated namespace. The copy joins the clone set of the original.
//
// Clone must not be called concurrently on the same relation.
func (a *Apply) Clone() *Apply {
	if a.clones == nil {
		a.clones = newCloneGroup(a)
	}
	c := &Apply{
		left:    a.left,
		right:   a.right,
		isouter: a.isouter,
		clones:  a.clones,
	}
	a.clones.add(c)
	return c
}

// RefreshForNewColumn implements [FromClause]: col is propagated to both
// sides first, then the populated namespace is remerged in place.
// Redundant refreshes are absorbed; an unpopulated namespace stays lazy.
func (a *Apply) RefreshForNewColumn(col *Column) {
	a.left.RefreshForNewColumn(col)
	a.right.RefreshForNewColumn(col)
	if !a.cache.populated {
		return
	}
	mergeColumns(a.cache.columns, a.cache.fks, a.left, a.right)
}

// Select returns SELECT <left columns>, <right columns> FROM <apply> with
// an optional WHERE criterion. opts are applied as given, without extra
// validation.
func (a *Apply) Select(where Expr, opts ...SelectOption) *SelectStatement {
	q := newSelect(a.left, a.right)
	for _, opt := range opts {
		opt(q)
	}
	if where != nil {
		q.Where(where)
	}
	return q.From(a)
}

// Bind implements [FromClause]: the left context wins, falling back to
// the right.
func (a *Apply) Bind() Bind {
	if b := a.left.Bind(); b != nil {
		return b
	}
	return a.right.Bind()
}

// Description implements [FromClause].
func (a *Apply) Description() string {
	return fmt.Sprintf("Apply object on %s(%p) and %s(%p)", a.left.Description(), a.left, a.right.Description(), a.right)
}

// VisitName implements [ClauseElement].
func (a *Apply) VisitName() string { return "apply" }

// TraverseInternals implements [ClauseElement].
func (a *Apply) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "left", Kind: TraverseClauseElement, Value: a.left},
		{Name: "right", Kind: TraverseClauseElement, Value: a.right},
		{Name: "isouter", Kind: TraverseBoolean, Value: a.isouter},
	}
}
