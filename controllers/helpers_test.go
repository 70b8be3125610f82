package controllers_test

import (
	"testing"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/tests/apitest"
)

const (
	slug            = "pizzaria"
	managerName     = "Gerente"
	managerPassword = "1234"
)

// storeFixture is an API with one store and a signed-in manager
type storeFixture struct {
	app     *apitest.App
	store   *models.StoreProfile
	manager string
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	app := apitest.New(t)
	store := app.CreateStore(t, services.CreateStoreInput{
		Slug:            slug,
		Name:            "Pizzaria Bella",
		ManagerName:     managerName,
		ManagerPassword: managerPassword,
	})
	return &storeFixture{
		app:     app,
		store:   store,
		manager: app.Login(t, slug, managerName, managerPassword),
	}
}

// staffToken creates a staff member and signs them in
func (f *storeFixture) staffToken(t *testing.T, name string, role models.StaffRole) (string, *models.Waitstaff) {
	t.Helper()
	member := f.app.CreateStaff(t, slug, name, "senha", role)
	return f.app.Login(t, slug, name, "senha"), member
}

func path(suffix string) string {
	return "/api/v1/stores/" + slug + suffix
}
