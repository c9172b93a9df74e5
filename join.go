package tsql

import (
	"fmt"
	"iter"
	"maps"

	"github.com/go-faster/errors"
)

// Join is a plain SQL join of two relations on a boolean criterion.
type Join struct {
	left     FromClause
	right    FromClause
	onclause Expr
	isouter  bool

	cache  columnCache
	clones *cloneGroup[*Join]
}

// NewJoin returns an inner join of left and right on the given criterion.
//
// Operands are coerced to relations; the right one is self-grouped so a
// composite right side is parenthesized.
func NewJoin(left, right any, on Expr) (*Join, error) {
	return newJoin(left, right, on, false)
}

// NewOuterJoin returns a LEFT OUTER JOIN of left and right on the given
// criterion.
func NewOuterJoin(left, right any, on Expr) (*Join, error) {
	return newJoin(left, right, on, true)
}

func newJoin(left, right any, on Expr, isouter bool) (*Join, error) {
	l, err := AsFromClause(left)
	if err != nil {
		return nil, errors.Wrap(err, "left")
	}
	r, err := AsFromClause(right)
	if err != nil {
		return nil, errors.Wrap(err, "right")
	}
	return &Join{
		left:     l,
		right:    r.SelfGroup(OpNone),
		onclause: on,
		isouter:  isouter,
	}, nil
}

// Left returns the left side.
func (j *Join) Left() FromClause { return j.left }

// Right returns the right side as stored, after self-grouping.
func (j *Join) Right() FromClause { return j.right }

// OnClause returns the join criterion.
func (j *Join) OnClause() Expr { return j.onclause }

// IsOuter reports whether the join is a LEFT OUTER JOIN.
func (j *Join) IsOuter() bool { return j.isouter }

func (j *Join) populate(cols *ColumnCollection, fks map[*ForeignKey]struct{}) {
	mergeColumns(cols, fks, j.left, j.right)
}

// Columns implements [FromClause]: left columns first, then right
// columns, keyed by disambiguated label keys.
func (j *Join) Columns() *ColumnCollection {
	j.cache.ensure(j.populate)
	return j.cache.columns
}

// ForeignKeys implements [FromClause].
func (j *Join) ForeignKeys() iter.Seq[*ForeignKey] {
	j.cache.ensure(j.populate)
	return maps.Keys(j.cache.fks)
}

// IsDerivedFrom implements [FromClause].
func (j *Join) IsDerivedFrom(other FromClause) bool {
	return other == FromClause(j) || j.left.IsDerivedFrom(other) || j.right.IsDerivedFrom(other)
}

// SelfGroup implements [FromClause]. A join embedded anywhere is
// parenthesized.
func (j *Join) SelfGroup(Operator) FromClause { return Group(j) }

// FromObjects implements [FromClause].
func (j *Join) FromObjects() []FromClause {
	out := []FromClause{j}
	out = append(out, j.left.FromObjects()...)
	out = append(out, j.right.FromObjects()...)
	return out
}

// HiddenFroms implements [FromClause]: the operands of the join and of
// every clone of it must not be listed separately.
func (j *Join) HiddenFroms() []FromClause {
	var out []FromClause
	for _, m := range j.cloneSet() {
		out = append(out, m.left.FromObjects()...)
		out = append(out, m.right.FromObjects()...)
	}
	return out
}

func (j *Join) cloneSet() []*Join {
	if j.clones == nil {
		return []*Join{j}
	}
	return j.clones.snapshot()
}

// Clone returns a structural copy sharing both operands and the
// criterion, with an unpopulated namespace. The copy joins the clone set
// of the original.
//
// Clone must not be called concurrently on the same relation.
func (j *Join) Clone() *Join {
	if j.clones == nil {
		j.clones = newCloneGroup(j)
	}
	c := &Join{
		left:     j.left,
		right:    j.right,
		onclause: j.onclause,
		isouter:  j.isouter,
		clones:   j.clones,
	}
	j.clones.add(c)
	return c
}

// RefreshForNewColumn implements [FromClause]: col is propagated to both
// sides, then the populated namespace is remerged in place.
func (j *Join) RefreshForNewColumn(col *Column) {
	j.left.RefreshForNewColumn(col)
	j.right.RefreshForNewColumn(col)
	if !j.cache.populated {
		return
	}
	mergeColumns(j.cache.columns, j.cache.fks, j.left, j.right)
}

// Select returns SELECT <left columns>, <right columns> FROM <join> with
// an optional WHERE criterion. opts are applied as given.
func (j *Join) Select(where Expr, opts ...SelectOption) *SelectStatement {
	q := newSelect(j.left, j.right)
	for _, opt := range opts {
		opt(q)
	}
	if where != nil {
		q.Where(where)
	}
	return q.From(j)
}

// Bind implements [FromClause]: the left context wins, falling back to
// the right.
func (j *Join) Bind() Bind {
	if b := j.left.Bind(); b != nil {
		return b
	}
	return j.right.Bind()
}

// Description implements [FromClause].
func (j *Join) Description() string {
	return fmt.Sprintf("Join object on %s(%p) and %s(%p)", j.left.Description(), j.left, j.right.Description(), j.right)
}

// VisitName implements [ClauseElement].
func (j *Join) VisitName() string { return "join" }

// TraverseInternals implements [ClauseElement].
func (j *Join) TraverseInternals() []TraversalField {
	fields := []TraversalField{
		{Name: "left", Kind: TraverseClauseElement, Value: j.left},
		{Name: "right", Kind: TraverseClauseElement, Value: j.right},
	}
	if j.onclause != nil {
		fields = append(fields, TraversalField{Name: "onclause", Kind: TraverseClauseElement, Value: j.onclause})
	}
	fields = append(fields, TraversalField{Name: "isouter", Kind: TraverseBoolean, Value: j.isouter})
	return fields
}
