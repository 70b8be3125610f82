package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectStatement(t *testing.T) {
	tests := []struct {
		name       string
		query      Query
		wantSQL    string
		wantParams []any
	}{
		{
			name:       "Bare table",
			query:      NewQuery("products"),
			wantSQL:    "SELECT * FROM products",
			wantParams: []any{},
		},
		{
			name:       "Clauses in call order then order and limit",
			query:      NewQuery("products").Limit(5).Order("name", false).Eq("store_id", "s1").Gt("price", 2),
			wantSQL:    "SELECT * FROM products WHERE store_id = ? AND price > ? ORDER BY name DESC LIMIT 5",
			wantParams: []any{"s1", 2},
		},
		{
			name:       "All comparison operators",
			query:      NewQuery("orders").Gte("total", 10).Lt("total", 20).Lte("createdAt", int64(99)),
			wantSQL:    "SELECT * FROM orders WHERE total >= ? AND total < ? AND createdAt <= ?",
			wantParams: []any{10, 20, int64(99)},
		},
		{
			name:       "In expands one placeholder per value",
			query:      NewQuery("orders").In("status", "PREPARANDO", "PRONTO"),
			wantSQL:    "SELECT * FROM orders WHERE status IN (?, ?)",
			wantParams: []any{"PREPARANDO", "PRONTO"},
		},
		{
			name:       "Empty In is ignored",
			query:      NewQuery("orders").In("status").Eq("store_id", "s1"),
			wantSQL:    "SELECT * FROM orders WHERE store_id = ?",
			wantParams: []any{"s1"},
		},
		{
			name:       "Last order and limit win",
			query:      NewQuery("orders").Order("id", true).Limit(10).Order("createdAt", false).Limit(3),
			wantSQL:    "SELECT * FROM orders ORDER BY createdAt DESC LIMIT 3",
			wantParams: []any{},
		},
		{
			name:       "Column aliases map to the canonical spelling",
			query:      NewQuery("products").Eq("is_active", true).In("storeId", "s1", "s2").Order("image_url", true),
			wantSQL:    "SELECT * FROM products WHERE isActive = ? AND store_id IN (?, ?) ORDER BY imageUrl ASC",
			wantParams: []any{true, "s1", "s2"},
		},
		{
			name:       "Unknown tables keep the given spelling",
			query:      NewQuery("audit_log").Eq("is_active", 1),
			wantSQL:    "SELECT * FROM audit_log WHERE is_active = ?",
			wantParams: []any{1},
		},
		{
			name:       "Non-positive limit removes the cap",
			query:      NewQuery("orders").Limit(10).Limit(0),
			wantSQL:    "SELECT * FROM orders",
			wantParams: []any{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			st, err := tt.query.SelectStatement()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, st.SQL)
			assert.Equal(t, tt.wantParams, st.Params)
		})
	}
}

func TestNilPredicateIsNoOp(t *testing.T) {
	var missing *string
	var nilMap map[string]any

	q := NewQuery("orders").
		Eq("store_id", "s1").
		Eq("status", nil).
		Gt("total", missing).
		Lt("createdAt", nilMap)

	st, err := q.SelectStatement()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM orders WHERE store_id = ?", st.SQL)
	assert.Equal(t, []any{"s1"}, st.Params)
}

func TestQueryIsImmutable(t *testing.T) {
	base := NewQuery("orders").Eq("store_id", "s1")
	preparing := base.Eq("status", "PREPARANDO")
	limited := base.Limit(2)

	st, err := base.SelectStatement()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM orders WHERE store_id = ?", st.SQL)

	st, err = preparing.SelectStatement()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM orders WHERE store_id = ? AND status = ?", st.SQL)

	st, err = limited.SelectStatement()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM orders WHERE store_id = ? LIMIT 2", st.SQL)

	params := base.Params()
	params[0] = "changed"
	assert.Equal(t, []any{"s1"}, base.Params())
}

func TestInvalidIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		query Query
	}{
		{"Table with a space", NewQuery("bad table")},
		{"Injected column", NewQuery("orders").Eq("id = 1; DROP TABLE orders; --", 1)},
		{"Order column", NewQuery("orders").Order("createdAt DESC", true)},
		{"In column", NewQuery("orders").In("1id", 1)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.query.Err(), ErrInvalidIdentifier)

			_, err := tt.query.SelectStatement()
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
			_, err = tt.query.DeleteStatement()
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
			_, err = tt.query.UpdateStatement(Row{"status": "PRONTO"})
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
}

func TestUpdateStatement(t *testing.T) {
	st, err := NewQuery("orders").Eq("store_id", "s1").Eq("id", 7).UpdateStatement(Row{
		"status":           "PRONTO",
		"deliveryDriverId": "d1",
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE orders SET deliveryDriverId = ?, status = ? WHERE store_id = ? AND id = ? RETURNING *", st.SQL)
	assert.Equal(t, []any{"d1", "PRONTO", "s1", 7}, st.Params)

	_, err = NewQuery("orders").Eq("id", 7).UpdateStatement(Row{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	_, err = NewQuery("orders").UpdateStatement(Row{"bad column": 1})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestDeleteStatement(t *testing.T) {
	st, err := NewQuery("categories").Eq("store_id", "s1").Eq("name", "Bebidas").DeleteStatement()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM categories WHERE store_id = ? AND name = ? RETURNING *", st.SQL)
	assert.Equal(t, []any{"s1", "Bebidas"}, st.Params)

	st, err = NewQuery("categories").DeleteStatement()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM categories RETURNING *", st.SQL)
}

func TestInsertStatement(t *testing.T) {
	row := Row{"name": "Pastel", "price": 6.5, "id": "p1"}

	st, err := InsertStatement("products", row, true)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO products (id, name, price) VALUES (?, ?, ?) RETURNING *", st.SQL)
	assert.Equal(t, []any{"p1", "Pastel", 6.5}, st.Params)

	st, err = InsertStatement("products", row, false)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO products (id, name, price) VALUES (?, ?, ?)", st.SQL)

	_, err = InsertStatement("products", Row{}, true)
	assert.Error(t, err)

	_, err = InsertStatement("products;", row, true)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = InsertStatement("products", Row{"na me": 1}, true)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}
