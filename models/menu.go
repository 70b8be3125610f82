package models

import "github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"

// Category groups products by name within a store
type Category struct {
	ID      int64  `json:"id,omitempty"`
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return bridge.TableCategories
}

// Product is a menu item. Category refers to Category.Name, not an id.
type Product struct {
	ID          string   `json:"id,omitempty"`
	StoreID     string   `json:"store_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	IsActive    bool     `json:"isActive"`
	FeaturedDay *int     `json:"featuredDay,omitempty"` // 0 = Sunday
	IsByWeight  bool     `json:"isByWeight"`
	Barcode     string   `json:"barcode,omitempty"`
	Stock       *float64 `json:"stock,omitempty"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return bridge.TableProducts
}
