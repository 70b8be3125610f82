package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/tests/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	app := apitest.New(t)

	w := app.Do(t, http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Store API is running"}`, w.Body.String())
}

func TestDatabaseStatus(t *testing.T) {
	app := apitest.New(t)

	w := app.Do(t, http.MethodGet, "/api/v1/database/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Tables  []string `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "Database connected", response.Message)
	assert.Subset(t, response.Tables, []string{
		"store_profiles", "categories", "products", "waitstaff", "orders", "cash_movements", "register_sessions",
	})
}
