package models

import (
	"strings"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
)

// StoreProfile is a tenant record in the main database
type StoreProfile struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	LogoURL     string        `json:"logoUrl"`
	Address     string        `json:"address"`
	Whatsapp    string        `json:"whatsapp"`
	IsActive    bool          `json:"isActive"`
	CreatedAt   int64         `json:"createdAt"`
	Settings    StoreSettings `json:"settings"`
	DBURL       string        `json:"dbUrl,omitempty"`       // dedicated database, empty when the store lives in main
	DBAuthToken string        `json:"dbAuthToken,omitempty"` // never sent to clients, see Public
}

// StoreSettings is the JSON blob stored in store_profiles.settings
type StoreSettings struct {
	IsStoreOpen             *bool    `json:"isStoreOpen,omitempty"`
	IsDeliveryActive        bool     `json:"isDeliveryActive"`
	IsTableOrderActive      bool     `json:"isTableOrderActive"`
	IsCounterPickupActive   bool     `json:"isCounterPickupActive"`
	IsKitchenActive         *bool    `json:"isKitchenActive,omitempty"`
	IsTvPanelActive         *bool    `json:"isTvPanelActive,omitempty"`
	StoreName               string   `json:"storeName"`
	LogoURL                 string   `json:"logoUrl"`
	PrimaryColor            string   `json:"primaryColor"`
	SecondaryColor          string   `json:"secondaryColor"`
	CanWaitstaffFinishOrder bool     `json:"canWaitstaffFinishOrder"`
	CanWaitstaffCancelItems bool     `json:"canWaitstaffCancelItems"`
	ThermalPrinterWidth     string   `json:"thermalPrinterWidth"` // 80mm or 58mm
	Address                 string   `json:"address,omitempty"`
	Whatsapp                string   `json:"whatsapp,omitempty"`
	CouponName              string   `json:"couponName,omitempty"`
	CouponDiscount          *float64 `json:"couponDiscount,omitempty"`
	IsCouponActive          *bool    `json:"isCouponActive,omitempty"`
	IsCouponForAllProducts  *bool    `json:"isCouponForAllProducts,omitempty"`
	ApplicableProductIDs    []string `json:"applicableProductIds,omitempty"`
	LastUpdate              int64    `json:"lastUpdate,omitempty"`
	PixQrCodeURL            string   `json:"pixQrCodeUrl,omitempty"`
	UsbPrinterVendorID      *int     `json:"usbPrinterVendorId,omitempty"`
	UsbPrinterProductID     *int     `json:"usbPrinterProductId,omitempty"`
}

// DefaultSettings returns the settings a new store starts with
func DefaultSettings(name string) StoreSettings {
	return StoreSettings{
		IsDeliveryActive:      true,
		IsTableOrderActive:    true,
		IsCounterPickupActive: true,
		StoreName:             name,
		PrimaryColor:          "#f97316",
		SecondaryColor:        "#1f2937",
		ThermalPrinterWidth:   "80mm",
	}
}

// TableName specifies the table name for the StoreProfile model
func (StoreProfile) TableName() string {
	return bridge.TableStoreProfiles
}

// Connection returns the dedicated database endpoint, or nil when the store
// keeps its data in the main database
func (s StoreProfile) Connection() *bridge.Endpoint {
	if strings.TrimSpace(s.DBURL) == "" {
		return nil
	}
	return &bridge.Endpoint{URL: s.DBURL, Token: s.DBAuthToken}
}

// PublicStoreProfile is the profile as exposed over the API
type PublicStoreProfile struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Name         string        `json:"name"`
	LogoURL      string        `json:"logoUrl"`
	Address      string        `json:"address"`
	Whatsapp     string        `json:"whatsapp"`
	IsActive     bool          `json:"isActive"`
	CreatedAt    int64         `json:"createdAt"`
	Settings     StoreSettings `json:"settings"`
	HasDedicated bool          `json:"hasDedicatedDatabase"`
}

// Public strips the connection credentials
func (s StoreProfile) Public() PublicStoreProfile {
	return PublicStoreProfile{
		ID:           s.ID,
		Slug:         s.Slug,
		Name:         s.Name,
		LogoURL:      s.LogoURL,
		Address:      s.Address,
		Whatsapp:     s.Whatsapp,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		Settings:     s.Settings,
		HasDedicated: s.Connection() != nil,
	}
}
