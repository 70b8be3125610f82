package services

import (
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
)

// Tenant is a store together with a bridge client bound to the database
// holding its data. It lives for one request.
type Tenant struct {
	Store models.StoreProfile
	DB    *bridge.Client
}

// ID returns the store id
func (t *Tenant) ID() string {
	return t.Store.ID
}
