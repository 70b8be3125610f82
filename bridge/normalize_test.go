package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	products := SchemaFor(TableProducts)
	require.NotNil(t, products)

	tests := []struct {
		input string
		want  string
	}{
		{"isActive", "isActive"},
		{"isactive", "isActive"},
		{"is_active", "isActive"},
		{"IsActive", "isActive"},
		{"image_url", "imageUrl"},
		{"storeId", "store_id"},
		{"store_id", "store_id"},
		{"unknown_column", "unknown_column"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, products.Canonical(tt.input))
		})
	}

	var none *TableSchema
	assert.Equal(t, "anything", none.Canonical("anything"))
}

func TestEncodeRow(t *testing.T) {
	t.Run("Booleans become integers", func(t *testing.T) {
		row, err := EncodeRow(SchemaFor(TableProducts), Row{
			"name":         "Pastel",
			"is_active":    true,
			"isByWeight":   false,
			"price":        6.5,
			"featured_day": nil,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), row["isActive"])
		assert.Equal(t, int64(0), row["isByWeight"])
		assert.Equal(t, 6.5, row["price"])
		assert.Contains(t, row, "featuredDay")
		assert.NotContains(t, row, "is_active")
	})

	t.Run("JSON columns are serialised", func(t *testing.T) {
		row, err := EncodeRow(SchemaFor(TableOrders), Row{
			"items":          []map[string]any{{"productId": "p1", "quantity": 2}},
			"paymentDetails": `{"already":"text"}`,
			"isSynced":       true,
		})
		require.NoError(t, err)
		assert.JSONEq(t, `[{"productId":"p1","quantity":2}]`, row["items"].(string))
		assert.Equal(t, `{"already":"text"}`, row["paymentDetails"])
		assert.Equal(t, int64(1), row["isSynced"])
	})

	t.Run("Canonical key wins over alias", func(t *testing.T) {
		row, err := EncodeRow(SchemaFor(TableProducts), Row{"isActive": false, "is_active": true})
		require.NoError(t, err)
		assert.Equal(t, Row{"isActive": int64(0)}, row)
	})

	t.Run("Unknown table passes through", func(t *testing.T) {
		in := Row{"flag": true}
		row, err := EncodeRow(nil, in)
		require.NoError(t, err)
		assert.Equal(t, in, row)
	})

	t.Run("Unencodable JSON value", func(t *testing.T) {
		_, err := EncodeRow(SchemaFor(TableOrders), Row{"items": make(chan int)})
		assert.Error(t, err)
	})
}

func TestDecodeRow(t *testing.T) {
	orders := SchemaFor(TableOrders)

	row := DecodeRow(orders, Row{
		"id":             int64(4),
		"items":          `[{"productId":"p1","quantity":2,"price":6.5}]`,
		"paymentDetails": "not json",
		"is_synced":      int64(1),
	})

	assert.Equal(t, int64(4), row["id"])
	assert.Equal(t, []any{map[string]any{"productId": "p1", "quantity": int64(2), "price": 6.5}}, row["items"])
	assert.Equal(t, "not json", row["paymentDetails"])
	assert.Equal(t, true, row["isSynced"])
}

func TestBooleanRoundTrip(t *testing.T) {
	schema := SchemaFor(TableProducts)
	for _, value := range []bool{true, false} {
		encoded, err := EncodeRow(schema, Row{"isActive": value})
		require.NoError(t, err)
		decoded := DecodeRow(schema, encoded)
		assert.Equal(t, value, decoded["isActive"])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	schema := SchemaFor(TableStoreProfiles)
	settings := map[string]any{
		"isDeliveryActive": true,
		"deliveryFee":      5.5,
		"tables":           int64(12),
		"coupons":          []any{map[string]any{"code": "PROMO10", "percentage": int64(10)}},
	}

	encoded, err := EncodeRow(schema, Row{"settings": settings})
	require.NoError(t, err)
	require.IsType(t, "", encoded["settings"])

	decoded := DecodeRow(schema, encoded)
	assert.Equal(t, settings, decoded["settings"])
}

func TestToBool(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{nil, false},
		{true, true},
		{int64(0), false},
		{int64(1), true},
		{1, true},
		{0.0, false},
		{json.Number("1"), true},
		{json.Number("0"), false},
		{json.Number("0.0"), false},
		{json.Number("1.0"), true},
		{json.Number("-0"), false},
		{"true", true},
		{" 1 ", true},
		{"no", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toBool(tt.value), "value %#v", tt.value)
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, int64(3), NormalizeValue(json.Number("3")))
	assert.Equal(t, 6.5, NormalizeValue(json.Number("6.5")))
	assert.Equal(t, "text", NormalizeValue("text"))
	assert.Equal(t,
		map[string]any{"n": int64(1), "list": []any{2.25}},
		NormalizeValue(map[string]any{"n": json.Number("1"), "list": []any{json.Number("2.25")}}),
	)
}

func TestEncodeParams(t *testing.T) {
	assert.Equal(t, []any{int64(1), int64(0), "x", nil}, encodeParams([]any{true, false, "x", nil}))
}
