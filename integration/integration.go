// Package integration holds schema fixtures shared by query building
// tests.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-faster/tsql"
	"github.com/go-faster/tsql/ddl"
)

// Fixtures is a small HR schema.
type Fixtures struct {
	Users       *tsql.Table
	Departments *tsql.Table
}

// NewFixtures builds the schema relations.
func NewFixtures(tb testing.TB) *Fixtures {
	tb.Helper()

	departments, err := tsql.TableOf(ddl.Table{
		Schema: "dbo",
		Name:   "departments",
		Columns: []ddl.Column{
			{Name: "id", Type: "BIGINT", Identity: true, NotNull: true},
			{Name: "title", Type: "NVARCHAR(64)", NotNull: true},
		},
		PrimaryKey: []string{"id"},
	})
	require.NoError(tb, err)

	users, err := tsql.TableOf(ddl.Table{
		Schema: "dbo",
		Name:   "users",
		Columns: []ddl.Column{
			{Name: "id", Type: "BIGINT", Identity: true, NotNull: true},
			{Name: "name", Type: "NVARCHAR(128)", NotNull: true},
			{Name: "dept_id", Type: "BIGINT", References: "dbo.departments(id)"},
		},
		PrimaryKey: []string{"id"},
	})
	require.NoError(tb, err)

	return &Fixtures{
		Users:       users,
		Departments: departments,
	}
}

// RecentOrders returns the dbo.fn_recent_orders table-valued function
// with the given arguments.
func (f *Fixtures) RecentOrders(args ...tsql.Expr) *tsql.TableFunc {
	return tsql.TableValued("dbo.fn_recent_orders", args,
		tsql.Col("order_id").Typed("BIGINT"),
		tsql.Col("total").Typed("DECIMAL(18,2)"),
		tsql.Col("placed_at").Typed("DATETIME2"),
	)
}

// OrderLines returns the dbo.fn_order_lines table-valued function with
// the given arguments.
func (f *Fixtures) OrderLines(args ...tsql.Expr) *tsql.TableFunc {
	return tsql.TableValued("dbo.fn_order_lines", args,
		tsql.Col("sku").Typed("NVARCHAR(32)"),
		tsql.Col("qty").Typed("INT"),
	)
}
