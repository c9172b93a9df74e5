package tsql

import (
	"iter"
	"maps"
	"slices"

	"github.com/go-faster/errors"
)

// SelectStatement is a SELECT query under construction.
//
// It is not itself a relation: use [SelectStatement.Subquery] to embed it
// in a FROM list.
type SelectStatement struct {
	items    []ClauseElement
	where    Expr
	froms    []FromClause
	groupBy  []Expr
	orderBy  []Expr
	distinct bool
	top      int
}

// NewSelect returns a SELECT of the given items.
//
// An item may be an [Expr], a [*Column] or a relation; a relation item
// expands to its exported columns when the statement is compiled or
// inspected, in order and without deduplication.
func NewSelect(items ...any) (*SelectStatement, error) {
	q := &SelectStatement{}
	for i, item := range items {
		switch item := item.(type) {
		case Expr:
			q.items = append(q.items, item)
		case FromClause:
			q.items = append(q.items, item)
		default:
			f, err := AsFromClause(item)
			if err != nil {
				return nil, errors.Wrapf(err, "item %d", i)
			}
			q.items = append(q.items, f)
		}
	}
	return q, nil
}

func newSelect(items ...FromClause) *SelectStatement {
	q := &SelectStatement{}
	for _, item := range items {
		q.items = append(q.items, item)
	}
	return q
}

// Where adds a criterion, combining it with any existing one using AND.
func (q *SelectStatement) Where(e Expr) *SelectStatement {
	if q.where == nil {
		q.where = e
	} else {
		q.where = And(q.where, e)
	}
	return q
}

// From appends explicit FROM sources.
func (q *SelectStatement) From(froms ...FromClause) *SelectStatement {
	q.froms = append(q.froms, froms...)
	return q
}

// GroupBy appends grouping expressions.
func (q *SelectStatement) GroupBy(exprs ...Expr) *SelectStatement {
	q.groupBy = append(q.groupBy, exprs...)
	return q
}

// OrderBy appends ordering expressions.
func (q *SelectStatement) OrderBy(exprs ...Expr) *SelectStatement {
	q.orderBy = append(q.orderBy, exprs...)
	return q
}

// Distinct marks the statement DISTINCT.
func (q *SelectStatement) Distinct() *SelectStatement {
	q.distinct = true
	return q
}

// Top limits the statement to the first n rows.
func (q *SelectStatement) Top(n int) *SelectStatement {
	q.top = n
	return q
}

// SelectOption configures a statement built by [Apply.Select] or
// [Join.Select].
type SelectOption func(*SelectStatement)

// WithDistinct marks the statement DISTINCT.
func WithDistinct() SelectOption {
	return func(q *SelectStatement) { q.distinct = true }
}

// WithTop limits the statement to the first n rows.
func WithTop(n int) SelectOption {
	return func(q *SelectStatement) { q.top = n }
}

// WithOrderBy appends ordering expressions.
func WithOrderBy(exprs ...Expr) SelectOption {
	return func(q *SelectStatement) { q.OrderBy(exprs...) }
}

// WithGroupBy appends grouping expressions.
func WithGroupBy(exprs ...Expr) SelectOption {
	return func(q *SelectStatement) { q.GroupBy(exprs...) }
}

// Items returns the select list as given.
func (q *SelectStatement) Items() []ClauseElement {
	return slices.Clone(q.items)
}

// Froms returns the explicit FROM sources as given.
func (q *SelectStatement) Froms() []FromClause {
	return slices.Clone(q.froms)
}

// SelectedColumns returns the expanded select list: relation items
// contribute their exported columns in order, without deduplication.
// Non-column expressions are skipped.
func (q *SelectStatement) SelectedColumns() []*Column {
	var out []*Column
	for _, item := range q.items {
		switch item := item.(type) {
		case *Column:
			out = append(out, item)
		case FromClause:
			out = append(out, item.Columns().Slice()...)
		}
	}
	return out
}

// sourceFroms returns relations referenced by the statement: relation
// items and explicit FROM sources.
func (q *SelectStatement) sourceFroms() []FromClause {
	var out []FromClause
	for _, item := range q.items {
		if f, ok := item.(FromClause); ok {
			out = append(out, f)
		}
	}
	return append(out, q.froms...)
}

// DisplayFroms returns the relations to render in the FROM list: from
// objects of every item, criterion column and explicit source in
// first-seen order, minus relations hidden by any candidate.
func (q *SelectStatement) DisplayFroms() []FromClause {
	var (
		candidates []FromClause
		seen       = map[FromClause]struct{}{}
	)
	add := func(objs []FromClause) {
		for _, f := range objs {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			candidates = append(candidates, f)
		}
	}
	for _, item := range q.items {
		if f, ok := item.(FromClause); ok {
			add(f.FromObjects())
			continue
		}
		collectExprFroms(item, add)
	}
	if q.where != nil {
		collectExprFroms(q.where, add)
	}
	for _, f := range q.froms {
		add(f.FromObjects())
	}

	hidden := map[FromClause]struct{}{}
	for _, f := range candidates {
		for _, h := range f.HiddenFroms() {
			hidden[h] = struct{}{}
		}
	}
	out := make([]FromClause, 0, len(candidates))
	for _, f := range candidates {
		if _, ok := hidden[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// collectExprFroms feeds the owning relations of every column referenced
// by e to add.
func collectExprFroms(e ClauseElement, add func([]FromClause)) {
	Walk(e, func(n ClauseElement) bool {
		if col, ok := n.(*Column); ok && col.table != nil {
			add(col.table.FromObjects())
		}
		return true
	})
}

// VisitName implements [ClauseElement].
func (q *SelectStatement) VisitName() string { return "select" }

// TraverseInternals implements [ClauseElement].
func (q *SelectStatement) TraverseInternals() []TraversalField {
	fields := []TraversalField{
		{Name: "items", Kind: TraverseClauseList, Value: slices.Clone(q.items)},
	}
	if q.where != nil {
		fields = append(fields, TraversalField{Name: "where", Kind: TraverseClauseElement, Value: q.where})
	}
	if len(q.froms) > 0 {
		fields = append(fields, TraversalField{Name: "froms", Kind: TraverseClauseList, Value: clauseList(q.froms)})
	}
	if len(q.groupBy) > 0 {
		fields = append(fields, TraversalField{Name: "group_by", Kind: TraverseClauseList, Value: clauseList(q.groupBy)})
	}
	if len(q.orderBy) > 0 {
		fields = append(fields, TraversalField{Name: "order_by", Kind: TraverseClauseList, Value: clauseList(q.orderBy)})
	}
	if q.distinct {
		fields = append(fields, TraversalField{Name: "distinct", Kind: TraverseBoolean, Value: q.distinct})
	}
	if q.top > 0 {
		fields = append(fields, TraversalField{Name: "top", Kind: TraverseInt, Value: q.top})
	}
	return fields
}

// Subquery returns the statement as a named relation.
//
// An empty name is allowed; the compiler assigns one while rendering.
func (q *SelectStatement) Subquery(name string) *Subquery {
	return &Subquery{stmt: q, name: name}
}

// Subquery is a SELECT used as a relation. Exported columns are proxies
// of the selected columns, bound to the subquery.
type Subquery struct {
	stmt  *SelectStatement
	name  string
	cache columnCache
}

// Name returns the subquery name.
func (s *Subquery) Name() string { return s.name }

// Statement returns the underlying SELECT.
func (s *Subquery) Statement() *SelectStatement { return s.stmt }

// C returns the proxied column named name, or nil.
func (s *Subquery) C(name string) *Column {
	col, _ := s.Columns().Get(name)
	return col
}

func (s *Subquery) proxy(col *Column) *Column {
	return &Column{name: col.name, typ: col.typ, table: s, fks: col.fks}
}

func (s *Subquery) populate(cols *ColumnCollection, fks map[*ForeignKey]struct{}) {
	for _, col := range s.stmt.SelectedColumns() {
		p := s.proxy(col)
		cols.Add(p.Key(), p)
		for fk := range p.ForeignKeys() {
			fks[fk] = struct{}{}
		}
	}
}

// Columns implements [FromClause].
func (s *Subquery) Columns() *ColumnCollection {
	s.cache.ensure(s.populate)
	return s.cache.columns
}

// ForeignKeys implements [FromClause].
func (s *Subquery) ForeignKeys() iter.Seq[*ForeignKey] {
	s.cache.ensure(s.populate)
	return maps.Keys(s.cache.fks)
}

// IsDerivedFrom implements [FromClause].
func (s *Subquery) IsDerivedFrom(other FromClause) bool {
	if other == FromClause(s) {
		return true
	}
	for _, f := range s.stmt.sourceFroms() {
		if f.IsDerivedFrom(other) {
			return true
		}
	}
	return false
}

// SelfGroup implements [FromClause]. A subquery renders parenthesized
// already.
func (s *Subquery) SelfGroup(Operator) FromClause { return s }

// FromObjects implements [FromClause].
func (s *Subquery) FromObjects() []FromClause { return []FromClause{s} }

// HiddenFroms implements [FromClause].
func (s *Subquery) HiddenFroms() []FromClause { return nil }

// RefreshForNewColumn implements [FromClause].
func (s *Subquery) RefreshForNewColumn(col *Column) {
	for _, f := range s.stmt.sourceFroms() {
		f.RefreshForNewColumn(col)
	}
	if !s.cache.populated {
		return
	}
	for _, sc := range s.stmt.SelectedColumns() {
		if _, ok := s.cache.columns.Get(sc.Key()); ok {
			continue
		}
		p := s.proxy(sc)
		s.cache.columns.Add(p.Key(), p)
		for fk := range p.ForeignKeys() {
			s.cache.fks[fk] = struct{}{}
		}
	}
}

// Bind implements [FromClause]: the first source with a context wins.
func (s *Subquery) Bind() Bind {
	for _, f := range s.stmt.sourceFroms() {
		if b := f.Bind(); b != nil {
			return b
		}
	}
	return nil
}

// Description implements [FromClause].
func (s *Subquery) Description() string {
	if s.name == "" {
		return "subquery"
	}
	return s.name
}

// VisitName implements [ClauseElement].
func (s *Subquery) VisitName() string { return "subquery" }

// TraverseInternals implements [ClauseElement].
func (s *Subquery) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "select", Kind: TraverseClauseElement, Value: s.stmt},
		{Name: "name", Kind: TraverseString, Value: s.name},
	}
}
