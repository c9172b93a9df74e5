package tsql

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCol(t *testing.T) {
	c := Col("id").Typed("BIGINT")
	require.Equal(t, "id", c.Name())
	require.Equal(t, "BIGINT", c.TypeName())
	require.Nil(t, c.Table())
	require.Equal(t, "id", c.Key())
	require.Equal(t, "column", c.VisitName())
}

func TestColumnLabelKey(t *testing.T) {
	users := NewTable("users", Col("id"))
	fn := TableValued("dbo.fn_orders", nil, Col("total"))
	anon := NewAlias(users, "")

	tests := []struct {
		col  *Column
		want string
	}{
		{Col("loose"), "loose"},
		{users.C("id"), "users_id"},
		{fn.C("total"), "dbo.fn_orders_total"},
		{anon.C("id"), "id"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.col.LabelKey())
	}
}

func TestColumnReferences(t *testing.T) {
	c := Col("dept_id").References("departments", "id")

	fks := slices.Collect(c.ForeignKeys())
	require.Len(t, fks, 1)
	require.Same(t, c, fks[0].Parent)
	require.Equal(t, "departments", fks[0].RefTable)
	require.Equal(t, "id", fks[0].RefColumn)
	require.Equal(t, "ForeignKey(dept_id -> departments.id)", fks[0].String())
}

func TestColumnCollection(t *testing.T) {
	a, b, c := Col("a"), Col("b"), Col("c")

	cc := NewColumnCollection()
	cc.Add("t_a", a)
	cc.Add("t_b", b)
	cc.Add("t_c", c)
	require.Equal(t, 3, cc.Len())

	got, ok := cc.Get("t_b")
	require.True(t, ok)
	require.Same(t, b, got)

	_, ok = cc.Get("t_missing")
	require.False(t, ok)

	t.Run("Collision", func(t *testing.T) {
		b2 := Col("b")
		cc.Add("t_b", b2)
		require.Equal(t, 3, cc.Len(), "collision does not grow the collection")

		got, ok := cc.Get("t_b")
		require.True(t, ok)
		require.Same(t, b2, got, "later column takes the slot")

		var keys []string
		for key := range cc.All() {
			keys = append(keys, key)
		}
		require.Equal(t, []string{"t_a", "t_b", "t_c"}, keys, "first position is kept")
		require.Equal(t, []*Column{a, b2, c}, cc.Slice())
	})
	t.Run("SliceIsCopy", func(t *testing.T) {
		s := cc.Slice()
		s[0] = Col("evil")

		got, ok := cc.Get("t_a")
		require.True(t, ok)
		require.Same(t, a, got)
	})
	t.Run("AllStops", func(t *testing.T) {
		var n int
		for range cc.All() {
			n++
			break
		}
		require.Equal(t, 1, n)
	})
}
