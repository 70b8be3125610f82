package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/tests/apitest"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStore(t *testing.T) {
	app := apitest.New(t)
	endpoint := testutil.NewLocalEndpoint(t)
	app.CreateStore(t, services.CreateStoreInput{Slug: "dedicada", DBURL: endpoint.URL, DBAuthToken: endpoint.Token})
	suspended := app.CreateStore(t, services.CreateStoreInput{Slug: "fechada"})
	_, err := app.Controller.Stores.SetActive(context.Background(), suspended.ID, false)
	require.NoError(t, err)

	t.Run("public profile hides connection details", func(t *testing.T) {
		w := app.Do(t, http.MethodGet, "/api/v1/stores/dedicada", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var profile map[string]any
		apitest.Data(t, w, &profile)
		assert.Equal(t, "dedicada", profile["slug"])
		assert.Equal(t, true, profile["hasDedicatedDatabase"])
		assert.NotContains(t, profile, "dbUrl")
		assert.NotContains(t, profile, "dbAuthToken")
	})

	t.Run("unknown store", func(t *testing.T) {
		w := app.Do(t, http.MethodGet, "/api/v1/stores/nenhuma", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "STORE_NOT_FOUND", apitest.ErrorCode(t, w))
	})

	t.Run("suspended store", func(t *testing.T) {
		w := app.Do(t, http.MethodGet, "/api/v1/stores/fechada", "", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "STORE_SUSPENDED", apitest.ErrorCode(t, w))
	})
}

func TestGetMenu(t *testing.T) {
	f := newStoreFixture(t)

	for _, p := range []map[string]any{
		{"name": "Margherita", "price": 42.5, "category": "Pizzas", "isActive": true},
		{"name": "Calabresa", "price": 39.9, "category": "Pizzas", "isActive": false},
	} {
		w := f.app.Do(t, http.MethodPut, path("/products"), f.manager, p)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := f.app.Do(t, http.MethodPost, path("/categories"), f.manager, map[string]string{"name": "Pizzas"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var menu services.Menu
	w = f.app.Do(t, http.MethodGet, path("/menu"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	apitest.Data(t, w, &menu)
	require.Len(t, menu.Products, 1)
	assert.Equal(t, "Margherita", menu.Products[0].Name)
	require.Len(t, menu.Categories, 1)
	assert.Equal(t, "Pizzas", menu.Categories[0].Name)

	w = f.app.Do(t, http.MethodGet, path("/menu?all=true"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	apitest.Data(t, w, &menu)
	assert.Len(t, menu.Products, 2)
}

func TestUpdateSettings(t *testing.T) {
	f := newStoreFixture(t)
	attendant, _ := f.staffToken(t, "Ana", models.RoleAttendant)

	settings := models.DefaultSettings("Pizzaria Bella")
	settings.PrimaryColor = "#000000"
	settings.CanWaitstaffFinishOrder = true

	t.Run("attendant cannot change settings", func(t *testing.T) {
		w := f.app.Do(t, http.MethodPut, path("/settings"), attendant, settings)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "INSUFFICIENT_ROLE", apitest.ErrorCode(t, w))
	})

	t.Run("manager updates settings", func(t *testing.T) {
		w := f.app.Do(t, http.MethodPut, path("/settings"), f.manager, settings)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var profile models.PublicStoreProfile
		apitest.Data(t, w, &profile)
		assert.Equal(t, "#000000", profile.Settings.PrimaryColor)
		assert.True(t, profile.Settings.CanWaitstaffFinishOrder)
		assert.NotZero(t, profile.Settings.LastUpdate)
	})

	t.Run("public profile reflects the change", func(t *testing.T) {
		w := f.app.Do(t, http.MethodGet, path(""), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var profile models.PublicStoreProfile
		apitest.Data(t, w, &profile)
		assert.Equal(t, "#000000", profile.Settings.PrimaryColor)
	})
}
