package tsql

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testApplyOperands() (*Table, *TableFunc) {
	users := NewTable("users",
		Col("id"),
		Col("name"),
		Col("dept_id").References("departments", "id"),
	)
	orders := TableValued("dbo.fn_recent_orders",
		[]Expr{users.C("id")},
		Col("order_id"),
		Col("total"),
	)
	return users, orders
}

func TestCrossApply(t *testing.T) {
	users, orders := testApplyOperands()

	a, err := CrossApply(users, orders)
	require.NoError(t, err)
	require.False(t, a.IsOuter())
	require.Same(t, users, a.Left())
	require.Same(t, orders, a.Right(), "atomic right side must not be wrapped")
	require.Equal(t, "apply", a.VisitName())

	fields := a.TraverseInternals()
	require.Len(t, fields, 3)
	require.Equal(t, "left", fields[0].Name)
	require.Equal(t, TraverseClauseElement, fields[0].Kind)
	require.Equal(t, "right", fields[1].Name)
	require.Equal(t, TraverseClauseElement, fields[1].Kind)
	require.Equal(t, "isouter", fields[2].Name)
	require.Equal(t, TraverseBoolean, fields[2].Kind)
	require.Equal(t, false, fields[2].Value)
}

func TestOuterApply(t *testing.T) {
	users, orders := testApplyOperands()

	a, err := OuterApply(users, orders)
	require.NoError(t, err)
	require.True(t, a.IsOuter())

	got, err := CompileFrom(a)
	require.NoError(t, err)
	require.Equal(t, "users OUTER APPLY dbo.fn_recent_orders(users.id)", got)
}

func TestApplyCoerce(t *testing.T) {
	users, orders := testApplyOperands()

	t.Run("Left", func(t *testing.T) {
		_, err := CrossApply(42, orders)
		require.Error(t, err)

		var ce *CoerceError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, 42, ce.Value)
		require.Contains(t, err.Error(), "FROM clause expected, got int")
	})
	t.Run("Right", func(t *testing.T) {
		_, err := OuterApply(users, "orders")
		require.Error(t, err)

		var ce *CoerceError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, "orders", ce.Value)
	})
	t.Run("BareSelect", func(t *testing.T) {
		sq, err := NewSelect(users)
		require.NoError(t, err)

		_, err = CrossApply(users, sq)
		require.Error(t, err)
		require.Contains(t, err.Error(), "Subquery")
	})
}

func TestApplyRightGrouping(t *testing.T) {
	users, orders := testApplyOperands()
	inner, err := CrossApply(users, orders)
	require.NoError(t, err)

	managers := NewTable("managers", Col("id"))
	outer, err := CrossApply(managers, inner)
	require.NoError(t, err)

	g, ok := outer.Right().(*FromGrouping)
	require.True(t, ok, "composite right side must be parenthesized")
	require.Same(t, inner, g.Element())

	got, err := CompileFrom(outer)
	require.NoError(t, err)
	require.Equal(t, "managers CROSS APPLY (users CROSS APPLY dbo.fn_recent_orders(users.id))", got)
}

func TestApplySelfGroup(t *testing.T) {
	users, orders := testApplyOperands()
	a, err := CrossApply(users, orders)
	require.NoError(t, err)

	g := a.SelfGroup(OpNone)
	fg, ok := g.(*FromGrouping)
	require.True(t, ok)
	require.Same(t, a, fg.Element())

	// Grouping an already grouped relation never double wraps.
	require.Same(t, g, g.SelfGroup(OpNone))
	require.Same(t, g, g.SelfGroup(OpAnd))
}

func TestApplyColumns(t *testing.T) {
	t.Run("MergeOrder", func(t *testing.T) {
		users, orders := testApplyOperands()
		a, err := CrossApply(users, orders)
		require.NoError(t, err)

		cols := a.Columns()
		require.Equal(t, 5, cols.Len())

		var keys []string
		for key := range cols.All() {
			keys = append(keys, key)
		}
		require.Equal(t, []string{
			"users_id", "users_name", "users_dept_id",
			"dbo.fn_recent_orders_order_id", "dbo.fn_recent_orders_total",
		}, keys)

		got, ok := cols.Get("users_id")
		require.True(t, ok)
		require.Same(t, users.C("id"), got)
	})
	t.Run("Collision", func(t *testing.T) {
		left := NewTable("t", Col("a"), Col("b"))
		right := NewTable("t", Col("b"), Col("c"))
		a, err := CrossApply(left, right)
		require.NoError(t, err)

		cols := a.Columns()
		require.Equal(t, 3, cols.Len())

		var keys []string
		for key := range cols.All() {
			keys = append(keys, key)
		}
		require.Equal(t, []string{"t_a", "t_b", "t_c"}, keys)

		// The right column takes the contested slot, in the left position.
		got, ok := cols.Get("t_b")
		require.True(t, ok)
		require.Same(t, right.C("b"), got)
	})
	t.Run("Lazy", func(t *testing.T) {
		users, orders := testApplyOperands()
		a, err := CrossApply(users, orders)
		require.NoError(t, err)
		require.False(t, a.cache.populated)

		_ = a.Columns()
		require.True(t, a.cache.populated)
		require.Same(t, a.Columns(), a.Columns(), "namespace is cached")
	})
}

func TestApplyForeignKeys(t *testing.T) {
	users := NewTable("users",
		Col("id"),
		Col("dept_id").References("departments", "id"),
	)
	orders := TableValued("dbo.fn_orders",
		[]Expr{users.C("id")},
		Col("user_id").References("users", "id"),
		Col("total"),
	)
	a, err := CrossApply(users, orders)
	require.NoError(t, err)

	var want []*ForeignKey
	for fk := range users.C("dept_id").ForeignKeys() {
		want = append(want, fk)
	}
	for fk := range orders.C("user_id").ForeignKeys() {
		want = append(want, fk)
	}
	require.ElementsMatch(t, want, slices.Collect(a.ForeignKeys()))
}

func TestApplyIsDerivedFrom(t *testing.T) {
	users, orders := testApplyOperands()
	a, err := CrossApply(users, orders)
	require.NoError(t, err)

	require.True(t, a.IsDerivedFrom(a))
	require.True(t, a.IsDerivedFrom(users))
	require.True(t, a.IsDerivedFrom(orders))
	require.False(t, a.IsDerivedFrom(NewTable("unrelated", Col("x"))))

	managers := NewTable("managers", Col("id"))
	outer, err := OuterApply(managers, a)
	require.NoError(t, err)
	require.True(t, outer.IsDerivedFrom(users), "derivation is transitive")
	require.False(t, users.IsDerivedFrom(outer))
}

func TestApplyFromObjects(t *testing.T) {
	users, orders := testApplyOperands()
	a, err := CrossApply(users, orders)
	require.NoError(t, err)
	require.Equal(t, []FromClause{a, users, orders}, a.FromObjects())

	managers := NewTable("managers", Col("id"))
	outer, err := CrossApply(managers, a)
	require.NoError(t, err)
	require.Equal(t,
		[]FromClause{outer, managers, a, users, orders},
		outer.FromObjects(),
		"self first, then left subtree, then right subtree",
	)
}

func TestApplyHiddenFroms(t *testing.T) {
	users, orders := testApplyOperands()
	a, err := CrossApply(users, orders)
	require.NoError(t, err)
	require.Equal(t, []FromClause{users, orders}, a.HiddenFroms())

	c := a.Clone()
	require.Equal(t, []FromClause{users, orders, users, orders}, a.HiddenFroms(),
		"operands of every clone are hidden")
	require.Equal(t, a.HiddenFroms(), c.HiddenFroms())
}

func TestApplyClone(t *testing.T) {
	users, orders := testApplyOperands()
	a, err := CrossApply(users, orders)
	require.NoError(t, err)
	_ = a.Columns()

	c := a.Clone()
	require.Same(t, a.Left(), c.Left())
	require.Same(t, a.Right(), c.Right())
	require.Equal(t, a.IsOuter(), c.IsOuter())
	require.False(t, c.cache.populated, "clone starts with an unpopulated namespace")

	require.Equal(t, a.Columns().Len(), c.Columns().Len())
	if diff := cmp.Diff(DumpTree(a), DumpTree(c)); diff != "" {
		t.Errorf("clone is not structurally identical:\n%s", diff)
	}
}

func TestApplyRefreshForNewColumn(t *testing.T) {
	users, orders := testApplyOperands()
	a, err := CrossApply(users, orders)
	require.NoError(t, err)

	t.Run("Unpopulated", func(t *testing.T) {
		col := Col("email")
		users.AppendColumn(col)
		a.RefreshForNewColumn(col)
		require.False(t, a.cache.populated, "refresh must not populate a lazy namespace")
	})
	t.Run("Populated", func(t *testing.T) {
		before := a.Columns()
		require.Equal(t, 6, before.Len())

		col := Col("created_at")
		users.AppendColumn(col)
		a.RefreshForNewColumn(col)

		cols := a.Columns()
		require.Same(t, before, cols, "refresh updates the cached collection in place")
		require.Equal(t, 7, cols.Len())

		got, ok := cols.Get("users_created_at")
		require.True(t, ok)
		require.Same(t, col, got)

		keys := make([]string, 0, cols.Len())
		for key := range cols.All() {
			keys = append(keys, key)
		}
		require.Equal(t, "users_created_at", keys[len(keys)-1], "new column lands at the end")

		a.RefreshForNewColumn(col)
		require.Equal(t, 7, a.Columns().Len(), "redundant refresh is absorbed")
	})
	t.Run("Nested", func(t *testing.T) {
		managers := NewTable("managers", Col("id"))
		outer, err := OuterApply(managers, a)
		require.NoError(t, err)
		require.Equal(t, 8, outer.Columns().Len())

		col := Col("updated_at")
		users.AppendColumn(col)
		outer.RefreshForNewColumn(col)

		_, ok := outer.Columns().Get("users_updated_at")
		require.True(t, ok, "refresh propagates through nesting")
	})
}

func TestApplySelect(t *testing.T) {
	users, orders := testApplyOperands()
	a, err := CrossApply(users, orders)
	require.NoError(t, err)

	q := a.Select(Gt(orders.C("total"), Integer(100)), WithTop(5))
	require.Equal(t, []FromClause{a}, q.Froms())
	require.Equal(t, 5, q.top, "options are applied as given")

	want := append(users.Columns().Slice(), orders.Columns().Slice()...)
	require.Equal(t, want, q.SelectedColumns(), "left columns then right columns, no deduplication")

	got, err := Compile(q)
	require.NoError(t, err)
	require.Equal(t,
		"SELECT TOP 5 users.id, users.name, users.dept_id, "+
			"dbo.fn_recent_orders.order_id, dbo.fn_recent_orders.total "+
			"FROM users CROSS APPLY dbo.fn_recent_orders(users.id) "+
			"WHERE (dbo.fn_recent_orders.total > 100)",
		got,
	)
}

func TestApplySelectCollision(t *testing.T) {
	left := NewTable("t", Col("a"), Col("b"))
	right := NewTable("t", Col("b"), Col("c"))
	a, err := CrossApply(left, right)
	require.NoError(t, err)

	// The select list is expanded before the merge and keeps duplicates.
	q := a.Select(nil)
	require.Len(t, q.SelectedColumns(), 4)
	require.Equal(t, 3, a.Columns().Len())
}

func TestApplyBind(t *testing.T) {
	type ctx struct{ name string }
	leftBind := &ctx{name: "left"}
	rightBind := &ctx{name: "right"}

	t.Run("LeftWins", func(t *testing.T) {
		users, orders := testApplyOperands()
		users.WithBind(leftBind)
		orders.WithBind(rightBind)
		a, err := CrossApply(users, orders)
		require.NoError(t, err)
		require.Same(t, leftBind, a.Bind())
	})
	t.Run("RightFallback", func(t *testing.T) {
		users, orders := testApplyOperands()
		orders.WithBind(rightBind)
		a, err := CrossApply(users, orders)
		require.NoError(t, err)
		require.Same(t, rightBind, a.Bind())
	})
	t.Run("None", func(t *testing.T) {
		users, orders := testApplyOperands()
		a, err := CrossApply(users, orders)
		require.NoError(t, err)
		require.Nil(t, a.Bind())
	})
}

func TestApplyDescription(t *testing.T) {
	users, orders := testApplyOperands()
	a, err := CrossApply(users, orders)
	require.NoError(t, err)

	desc := a.Description()
	require.Contains(t, desc, "Apply object on users(")
	require.Contains(t, desc, "and dbo.fn_recent_orders()(")
}

func TestApplyConstructionAtomic(t *testing.T) {
	users, _ := testApplyOperands()

	a, err := CrossApply(users, 1.5)
	require.Nil(t, a, "no node is constructed on coercion failure")
	require.Contains(t, err.Error(), "right:")

	var ce *CoerceError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 1.5, ce.Value)
}
