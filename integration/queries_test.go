package integration_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-faster/tsql"
	"github.com/go-faster/tsql/integration"
)

func TestCrossApplyQuery(t *testing.T) {
	f := integration.NewFixtures(t)
	orders := f.RecentOrders(f.Users.C("id"))

	a, err := tsql.CrossApply(f.Users, orders)
	require.NoError(t, err)
	q := a.Select(tsql.Gt(orders.C("total"), tsql.Integer(100)))

	got, err := tsql.Compile(q)
	require.NoError(t, err)
	require.Equal(t,
		"SELECT dbo.users.id, dbo.users.name, dbo.users.dept_id, "+
			"dbo.fn_recent_orders.order_id, dbo.fn_recent_orders.total, dbo.fn_recent_orders.placed_at "+
			"FROM dbo.users CROSS APPLY dbo.fn_recent_orders(dbo.users.id) "+
			"WHERE (dbo.fn_recent_orders.total > 100)",
		got,
	)
}

func TestOuterApplyAliasedQuery(t *testing.T) {
	f := integration.NewFixtures(t)
	o := tsql.NewAlias(f.RecentOrders(f.Users.C("id")), "o")

	a, err := tsql.OuterApply(f.Users, o)
	require.NoError(t, err)
	q := a.Select(
		tsql.IsNotNull(o.C("order_id")),
		tsql.WithOrderBy(tsql.Desc(o.C("total"))),
	)

	got, err := tsql.Compile(q)
	require.NoError(t, err)
	require.Equal(t,
		"SELECT dbo.users.id, dbo.users.name, dbo.users.dept_id, "+
			"o.order_id, o.total, o.placed_at "+
			"FROM dbo.users OUTER APPLY dbo.fn_recent_orders(dbo.users.id) AS o "+
			"WHERE (o.order_id IS NOT NULL) "+
			"ORDER BY o.total DESC",
		got,
	)
}

func TestApplyChain(t *testing.T) {
	f := integration.NewFixtures(t)
	orders := f.RecentOrders(f.Users.C("id"))

	inner, err := tsql.CrossApply(f.Users, orders)
	require.NoError(t, err)
	outer, err := tsql.OuterApply(inner, f.OrderLines(orders.C("order_id")))
	require.NoError(t, err)

	got, err := tsql.CompileFrom(outer)
	require.NoError(t, err)
	require.Equal(t,
		"dbo.users CROSS APPLY dbo.fn_recent_orders(dbo.users.id) "+
			"OUTER APPLY dbo.fn_order_lines(dbo.fn_recent_orders.order_id)",
		got,
	)
}

func TestApplyOverJoin(t *testing.T) {
	f := integration.NewFixtures(t)

	j, err := tsql.NewJoin(f.Users, f.Departments,
		tsql.Eq(f.Users.C("dept_id"), f.Departments.C("id")))
	require.NoError(t, err)
	a, err := tsql.CrossApply(j, f.RecentOrders(f.Users.C("id")))
	require.NoError(t, err)

	got, err := tsql.CompileFrom(a)
	require.NoError(t, err)
	require.Equal(t,
		"dbo.users JOIN dbo.departments ON (dbo.users.dept_id = dbo.departments.id) "+
			"CROSS APPLY dbo.fn_recent_orders(dbo.users.id)",
		got,
	)
}

func TestTopPerGroupQuery(t *testing.T) {
	f := integration.NewFixtures(t)
	orders := f.RecentOrders(f.Users.C("id"))

	inner, err := tsql.NewSelect(orders)
	require.NoError(t, err)
	inner.OrderBy(tsql.Desc(orders.C("placed_at"))).Top(3)
	recent := inner.Subquery("recent")

	a, err := tsql.CrossApply(f.Users, recent)
	require.NoError(t, err)
	q := a.Select(nil)

	got, err := tsql.Compile(q)
	require.NoError(t, err)
	require.Equal(t,
		"SELECT dbo.users.id, dbo.users.name, dbo.users.dept_id, "+
			"recent.order_id, recent.total, recent.placed_at "+
			"FROM dbo.users CROSS APPLY ("+
			"SELECT TOP 3 dbo.fn_recent_orders.order_id, dbo.fn_recent_orders.total, dbo.fn_recent_orders.placed_at "+
			"FROM dbo.fn_recent_orders(dbo.users.id) "+
			"ORDER BY dbo.fn_recent_orders.placed_at DESC"+
			") AS recent",
		got,
	)
}

func TestAggregateSubqueryJoin(t *testing.T) {
	f := integration.NewFixtures(t)

	stats, err := tsql.NewSelect(
		f.Users.C("dept_id"),
		tsql.Function("COUNT", f.Users.C("id")),
	)
	require.NoError(t, err)
	stats.GroupBy(f.Users.C("dept_id"))
	s := stats.Subquery("dept_stats")

	j, err := tsql.NewOuterJoin(f.Departments, s,
		tsql.Eq(f.Departments.C("id"), s.C("dept_id")))
	require.NoError(t, err)

	got, err := tsql.CompileFrom(j)
	require.NoError(t, err)
	require.Equal(t,
		"dbo.departments LEFT OUTER JOIN ("+
			"SELECT dbo.users.dept_id, COUNT(dbo.users.id) FROM dbo.users "+
			"GROUP BY dbo.users.dept_id"+
			") AS dept_stats "+
			"ON (dbo.departments.id = dept_stats.dept_id)",
		got,
	)
}

func TestForeignKeysSurviveComposition(t *testing.T) {
	f := integration.NewFixtures(t)
	orders := f.RecentOrders(f.Users.C("id"))

	a, err := tsql.CrossApply(f.Users, orders)
	require.NoError(t, err)

	var refs []string
	for fk := range a.ForeignKeys() {
		refs = append(refs, fk.String())
	}
	require.ElementsMatch(t, []string{
		"ForeignKey(dept_id -> dbo.departments.id)",
	}, refs)
}
