package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/tests/apitest"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/tests/testutil"
	"github.com/stretchr/testify/suite"
)

// TenantRoutingIntegrationTestSuite runs two stores side by side: one on the
// shared main database and one on its own dedicated database.
type TenantRoutingIntegrationTestSuite struct {
	suite.Suite
	app       *apitest.App
	dedicated bridge.Endpoint
	shared    *models.StoreProfile
	own       *models.StoreProfile
	tokens    map[string]string
}

// SetupTest runs before each test
func (suite *TenantRoutingIntegrationTestSuite) SetupTest() {
	t := suite.T()
	suite.app = apitest.New(t)
	suite.dedicated = testutil.NewLocalEndpoint(t)

	suite.shared = suite.app.CreateStore(t, services.CreateStoreInput{
		Slug: "compartilhada", ManagerName: "Ana", ManagerPassword: "a",
	})
	suite.own = suite.app.CreateStore(t, services.CreateStoreInput{
		Slug: "dedicada", ManagerName: "Bia", ManagerPassword: "b",
		DBURL: suite.dedicated.URL, DBAuthToken: suite.dedicated.Token,
	})

	suite.tokens = map[string]string{
		"compartilhada": suite.app.Login(t, "compartilhada", "Ana", "a"),
		"dedicada":      suite.app.Login(t, "dedicada", "Bia", "b"),
	}
}

func (suite *TenantRoutingIntegrationTestSuite) addProduct(slug, name string) {
	w := suite.app.Do(suite.T(), http.MethodPut, "/api/v1/stores/"+slug+"/products", suite.tokens[slug], map[string]any{
		"name": name, "price": 10, "category": "Geral", "isActive": true,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *TenantRoutingIntegrationTestSuite) rows(db *bridge.Client, table string) []bridge.Row {
	rows, err := db.From(table).Get(context.Background())
	suite.Require().NoError(err)
	return rows
}

// TestDataLandsInTheStoreDatabase checks where menu rows are written
func (suite *TenantRoutingIntegrationTestSuite) TestDataLandsInTheStoreDatabase() {
	suite.addProduct("compartilhada", "Pastel")
	suite.addProduct("dedicada", "Tapioca")

	mainProducts := suite.rows(suite.app.DB.WithMain(), bridge.TableProducts)
	suite.Require().Len(mainProducts, 1)
	suite.Equal("Pastel", mainProducts[0]["name"])
	suite.Equal(suite.shared.ID, mainProducts[0]["store_id"])

	ownProducts := suite.rows(suite.app.DB.WithStore(suite.dedicated), bridge.TableProducts)
	suite.Require().Len(ownProducts, 1)
	suite.Equal("Tapioca", ownProducts[0]["name"])
}

// TestStoreProfilesStayOnMain checks that the registry is read from the main
// database even through a client routed to a dedicated one
func (suite *TenantRoutingIntegrationTestSuite) TestStoreProfilesStayOnMain() {
	routed := suite.app.DB.WithStore(suite.dedicated)
	suite.Equal(suite.app.DB.Main(), routed.Target(bridge.TableStoreProfiles))
	suite.Equal(suite.dedicated, routed.Target(bridge.TableProducts))

	profiles := suite.rows(routed, bridge.TableStoreProfiles)
	suite.Len(profiles, 2)
}

// TestStaffLivesWithTheStore checks that the dedicated manager account is
// stored in the dedicated database
func (suite *TenantRoutingIntegrationTestSuite) TestStaffLivesWithTheStore() {
	ownStaff := suite.rows(suite.app.DB.WithStore(suite.dedicated), bridge.TableWaitstaff)
	suite.Require().Len(ownStaff, 1)
	suite.Equal("Bia", ownStaff[0]["name"])

	for _, row := range suite.rows(suite.app.DB.WithMain(), bridge.TableWaitstaff) {
		suite.NotEqual("Bia", row["name"])
	}
}

// TestOrdersAreIsolated checks that each store lists only its own orders
func (suite *TenantRoutingIntegrationTestSuite) TestOrdersAreIsolated() {
	for slug, customer := range map[string]string{"compartilhada": "Caio", "dedicada": "Duda"} {
		w := suite.app.Do(suite.T(), http.MethodPost, "/api/v1/stores/"+slug+"/orders", suite.tokens[slug], map[string]any{
			"type": "BALCAO", "customerName": customer,
			"items": []map[string]any{{"productId": "p", "name": "Item", "quantity": 1, "price": 5}},
		})
		suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	for slug, customer := range map[string]string{"compartilhada": "Caio", "dedicada": "Duda"} {
		w := suite.app.Do(suite.T(), http.MethodGet, "/api/v1/stores/"+slug+"/orders", suite.tokens[slug], nil)
		suite.Require().Equal(http.StatusOK, w.Code)

		var orders []models.Order
		apitest.Data(suite.T(), w, &orders)
		suite.Require().Len(orders, 1, slug)
		suite.Equal(customer, orders[0].CustomerName)
	}
}

// TestTokenDoesNotCrossStores checks that a session is bound to its store
func (suite *TenantRoutingIntegrationTestSuite) TestTokenDoesNotCrossStores() {
	w := suite.app.Do(suite.T(), http.MethodGet, "/api/v1/stores/dedicada/orders", suite.tokens["compartilhada"], nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("WRONG_STORE", apitest.ErrorCode(suite.T(), w))
}

// TestUnreachableDedicatedDatabase checks the response when a store's
// database is down
func (suite *TenantRoutingIntegrationTestSuite) TestUnreachableDedicatedDatabase() {
	t := suite.T()
	broken := suite.app.CreateStore(t, services.CreateStoreInput{
		Slug: "fora-do-ar", DBURL: "http://127.0.0.1:1", DBAuthToken: "x",
	})
	suite.NotEmpty(broken.ID)

	w := suite.app.Do(t, http.MethodGet, "/api/v1/stores/fora-do-ar/menu", "", nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal("DATABASE_UNAVAILABLE", apitest.ErrorCode(t, w))
}

func TestTenantRoutingIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(TenantRoutingIntegrationTestSuite))
}
