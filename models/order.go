package models

import "github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"

type OrderStatus string

const (
	StatusPreparing      OrderStatus = "PREPARANDO"
	StatusReady          OrderStatus = "PRONTO"
	StatusOutForDelivery OrderStatus = "SAIU_PARA_ENTREGA"
	StatusDelivered      OrderStatus = "ENTREGUE"
	StatusCancelled      OrderStatus = "CANCELADO"
)

type OrderType string

const (
	OrderTypeTable   OrderType = "MESA"
	OrderTypeCounter OrderType = "BALCAO"
	OrderTypeDeliver OrderType = "ENTREGA"
	OrderTypeTab     OrderType = "COMANDA"
)

// Valid reports whether t is a known order type
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeTable, OrderTypeCounter, OrderTypeDeliver, OrderTypeTab:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "PIX"
	PaymentCard PaymentMethod = "CARTAO"
	PaymentCash PaymentMethod = "DINHEIRO"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCard, PaymentCash:
		return true
	}
	return false
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPreparing:      {StatusReady, StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusPreparing},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Final reports whether no transition leaves s
func (s OrderStatus) Final() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is one line of Order.Items
type OrderItem struct {
	ProductID        string   `json:"productId"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Quantity         float64  `json:"quantity"` // kilograms when IsByWeight
	Price            float64  `json:"price"`
	IsByWeight       bool     `json:"isByWeight,omitempty"`
	IsPersisted      bool     `json:"isPersisted,omitempty"`
	OriginalQuantity *float64 `json:"originalQuantity,omitempty"`
}

// PaymentSplit is one part of a split payment
type PaymentSplit struct {
	Method PaymentMethod `json:"method"`
	Amount float64       `json:"amount"`
}

// Order is a store-scoped order header with its items
type Order struct {
	ID               int64          `json:"id,omitempty"`
	StoreID          string         `json:"store_id"`
	Type             OrderType      `json:"type"`
	TableNumber      string         `json:"tableNumber,omitempty"`
	CustomerName     string         `json:"customerName,omitempty"`
	CustomerPhone    string         `json:"customerPhone,omitempty"`
	Items            []OrderItem    `json:"items"`
	Status           OrderStatus    `json:"status"`
	Total            float64        `json:"total"`
	CreatedAt        int64          `json:"createdAt"`
	PaymentMethod    PaymentMethod  `json:"paymentMethod,omitempty"`
	DeliveryAddress  string         `json:"deliveryAddress,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	ChangeFor        *float64       `json:"changeFor,omitempty"`
	WaitstaffName    string         `json:"waitstaffName,omitempty"`
	CouponApplied    string         `json:"couponApplied,omitempty"`
	DiscountAmount   *float64       `json:"discountAmount,omitempty"`
	IsSynced         bool           `json:"isSynced"`
	DeliveryDriverID string         `json:"deliveryDriverId,omitempty"`
	PaymentDetails   []PaymentSplit `json:"paymentDetails,omitempty"`
	SessionID        string         `json:"session_id,omitempty"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return bridge.TableOrders
}

// Subtotal sums price times quantity over the items
func (o Order) Subtotal() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.Price * item.Quantity
	}
	return sum
}
