package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/cache"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"go.uber.org/zap"
)

// RecentOrdersLimit is the default page size of Recent
const RecentOrdersLimit = 30

// OrderService manages orders and their status
type OrderService struct {
	cache  cache.Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewOrderService creates an order service
func NewOrderService(store cache.Store, ttl time.Duration, logger *zap.Logger) *OrderService {
	return &OrderService{cache: store, ttl: ttl, logger: logger, now: time.Now}
}

// Recent lists the newest orders of a store, optionally with one status.
// The unfiltered list is cached and served from cache when the database
// cannot be reached.
func (s *OrderService) Recent(ctx context.Context, t *Tenant, status models.OrderStatus, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = RecentOrdersLimit
	}
	var statusFilter any
	if status != "" {
		statusFilter = string(status)
	}

	rows, err := t.DB.From(bridge.TableOrders).
		Eq("store_id", t.ID()).
		Eq("status", statusFilter).
		Order("id", false).
		Limit(limit).
		Get(ctx)
	if err != nil {
		var transport *bridge.TransportError
		if status == "" && errors.As(err, &transport) {
			var cached []models.Order
			if cacheErr := s.cache.GetJSON(ctx, cache.OrdersKey(t.ID()), &cached); cacheErr == nil {
				s.logger.Warn("serving cached orders", zap.String("store_id", t.ID()), zap.Error(err))
				return cached, nil
			}
		}
		return nil, err
	}

	orders, err := models.DecodeAll[models.Order](rows)
	if err != nil {
		return nil, err
	}
	if status == "" {
		if err := s.cache.SetJSON(ctx, cache.OrdersKey(t.ID()), orders, s.ttl); err != nil {
			s.logger.Warn("orders cache write failed", zap.String("store_id", t.ID()), zap.Error(err))
		}
	}
	return orders, nil
}

// Get loads one order of the store
func (s *OrderService) Get(ctx context.Context, t *Tenant, id int64) (*models.Order, error) {
	row, err := t.DB.From(bridge.TableOrders).Eq("store_id", t.ID()).Eq("id", id).MaybeSingle(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	var order models.Order
	if err := models.Decode(row, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Create places a new order in PREPARANDO. A zero total is computed from
// the items less any discount.
func (s *OrderService) Create(ctx context.Context, t *Tenant, order models.Order) (*models.Order, error) {
	if !order.Type.Valid() {
		return nil, invalid("type", "must be MESA, BALCAO, ENTREGA or COMANDA")
	}
	if len(order.Items) == 0 {
		return nil, invalid("items", "must contain at least one item")
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return nil, invalid("items", "quantities must be positive")
		}
	}
	if order.PaymentMethod != "" && !order.PaymentMethod.Valid() {
		return nil, invalid("paymentMethod", "must be PIX, CARTAO or DINHEIRO")
	}
	if order.Type == models.OrderTypeDeliver && order.DeliveryAddress == "" {
		return nil, invalid("deliveryAddress", "is required for delivery orders")
	}

	order.ID = 0
	order.StoreID = t.ID()
	order.Status = models.StatusPreparing
	order.CreatedAt = s.now().UnixMilli()
	order.IsSynced = true
	if order.Total == 0 {
		order.Total = order.Subtotal()
		if order.DiscountAmount != nil {
			order.Total -= *order.DiscountAmount
		}
	}

	row, err := models.ToRow(order)
	if err != nil {
		return nil, err
	}
	rows, err := t.DB.From(bridge.TableOrders).Insert(ctx, row)
	if err != nil {
		return nil, err
	}

	var created models.Order
	if err := models.Decode(rows[0], &created); err != nil {
		return nil, err
	}
	s.invalidate(ctx, t)
	return &created, nil
}

// UpdateStatus moves an order along the status state machine
func (s *OrderService) UpdateStatus(ctx context.Context, t *Tenant, id int64, to models.OrderStatus) (*models.Order, error) {
	order, err := s.Get(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, to) {
		return nil, ErrInvalidTransition
	}
	return s.update(ctx, t, id, bridge.Row{"status": string(to)})
}

// AssignCourier hands a delivery order to a courier. The status is left
// for the courier to move.
func (s *OrderService) AssignCourier(ctx context.Context, t *Tenant, id int64, courierID string) (*models.Order, error) {
	order, err := s.Get(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if order.Type != models.OrderTypeDeliver {
		return nil, invalid("type", "only delivery orders take a courier")
	}
	if order.Status.Final() {
		return nil, ErrInvalidTransition
	}

	courier, err := t.DB.From(bridge.TableWaitstaff).Eq("store_id", t.ID()).Eq("id", courierID).MaybeSingle(ctx)
	if err != nil {
		return nil, err
	}
	if courier == nil || courier["role"] != string(models.RoleCourier) {
		return nil, invalid("courierId", "must be a courier of this store")
	}
	return s.update(ctx, t, id, bridge.Row{"deliveryDriverId": courierID})
}

// Deliveries lists the delivery orders a courier can work on, newest first
func (s *OrderService) Deliveries(ctx context.Context, t *Tenant) ([]models.Order, error) {
	rows, err := t.DB.From(bridge.TableOrders).
		Eq("store_id", t.ID()).
		Eq("type", string(models.OrderTypeDeliver)).
		In("status", string(models.StatusReady), string(models.StatusOutForDelivery)).
		Order("createdAt", false).
		Get(ctx)
	if err != nil {
		return nil, err
	}
	return models.DecodeAll[models.Order](rows)
}

// AcceptDelivery lets a courier take a ready delivery order. Accepting an
// order already taken by the same courier is a no-op.
func (s *OrderService) AcceptDelivery(ctx context.Context, t *Tenant, id int64, courierID string) (*models.Order, error) {
	order, err := s.Get(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if order.Type != models.OrderTypeDeliver {
		return nil, invalid("type", "only delivery orders take a courier")
	}
	switch order.DeliveryDriverID {
	case courierID:
		return order, nil
	case "":
	default:
		return nil, ErrDeliveryTaken
	}
	if order.Status != models.StatusReady && order.Status != models.StatusOutForDelivery {
		return nil, ErrInvalidTransition
	}

	s.logger.Info("delivery accepted", zap.String("store_id", t.ID()), zap.Int64("order_id", id), zap.String("courier_id", courierID))
	return s.update(ctx, t, id, bridge.Row{"deliveryDriverId": courierID})
}

// PlaceCustomerOrder takes an order from the public menu. Only counter
// pickup and delivery are offered, each when the store enables it. Prices
// come from the menu and the coupon discount is recomputed from settings.
func (s *OrderService) PlaceCustomerOrder(ctx context.Context, t *Tenant, order models.Order) (*models.Order, error) {
	settings := t.Store.Settings
	if settings.IsStoreOpen != nil && !*settings.IsStoreOpen {
		return nil, ErrStoreClosed
	}

	switch order.Type {
	case models.OrderTypeCounter:
		if !settings.IsCounterPickupActive {
			return nil, invalid("type", "counter pickup is not available")
		}
	case models.OrderTypeDeliver:
		if !settings.IsDeliveryActive {
			return nil, invalid("type", "delivery is not available")
		}
	default:
		return nil, invalid("type", "must be BALCAO or ENTREGA")
	}

	order.CustomerName = strings.TrimSpace(order.CustomerName)
	order.CustomerPhone = strings.TrimSpace(order.CustomerPhone)
	order.DeliveryAddress = strings.TrimSpace(order.DeliveryAddress)
	if order.CustomerName == "" {
		return nil, invalid("customerName", "is required")
	}
	if order.Type == models.OrderTypeDeliver {
		if order.CustomerPhone == "" {
			return nil, invalid("customerPhone", "is required for delivery orders")
		}
		if order.DeliveryAddress == "" {
			return nil, invalid("deliveryAddress", "is required for delivery orders")
		}
	}
	if len(order.Items) == 0 {
		return nil, invalid("items", "must contain at least one item")
	}

	if err := s.priceFromMenu(ctx, t, order.Items); err != nil {
		return nil, err
	}

	order.TableNumber = ""
	order.WaitstaffName = ""
	order.DeliveryDriverID = ""
	order.PaymentDetails = nil
	order.SessionID = ""
	order.DiscountAmount = nil
	order.Total = 0
	if discount, ok := couponDiscount(settings, order); ok {
		order.DiscountAmount = &discount
		order.CouponApplied = settings.CouponName
	} else {
		order.CouponApplied = ""
	}
	if order.DiscountAmount != nil {
		order.Total = math.Max(0, order.Subtotal()-*order.DiscountAmount)
	} else {
		order.Total = order.Subtotal()
	}
	return s.Create(ctx, t, order)
}

// priceFromMenu replaces item names and prices with the active products of
// the store
func (s *OrderService) priceFromMenu(ctx context.Context, t *Tenant, items []models.OrderItem) error {
	ids := make([]any, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	rows, err := t.DB.From(bridge.TableProducts).Eq("store_id", t.ID()).In("id", ids...).Get(ctx)
	if err != nil {
		return err
	}
	products, err := models.DecodeAll[models.Product](rows)
	if err != nil {
		return err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i := range items {
		p, ok := byID[items[i].ProductID]
		if !ok || !p.IsActive {
			return invalid("items", fmt.Sprintf("product %q is not on the menu", items[i].ProductID))
		}
		items[i].Name = p.Name
		items[i].Price = p.Price
		items[i].IsByWeight = p.IsByWeight
	}
	return nil
}

// couponDiscount applies the store coupon as a percentage of the eligible
// subtotal. It reports false when the coupon does not match or no item is
// eligible.
func couponDiscount(settings models.StoreSettings, order models.Order) (float64, bool) {
	code := strings.TrimSpace(order.CouponApplied)
	if code == "" || settings.IsCouponActive == nil || !*settings.IsCouponActive {
		return 0, false
	}
	if !strings.EqualFold(code, settings.CouponName) || settings.CouponDiscount == nil {
		return 0, false
	}

	forAll := settings.IsCouponForAllProducts == nil || *settings.IsCouponForAllProducts
	eligible := order.Subtotal()
	if !forAll {
		eligible = 0
		for _, item := range order.Items {
			if slices.Contains(settings.ApplicableProductIDs, item.ProductID) {
				eligible += item.Price * item.Quantity
			}
		}
		if eligible == 0 {
			return 0, false
		}
	}
	return eligible * *settings.CouponDiscount / 100, true
}

func (s *OrderService) update(ctx context.Context, t *Tenant, id int64, patch bridge.Row) (*models.Order, error) {
	rows, err := t.DB.From(bridge.TableOrders).Eq("store_id", t.ID()).Eq("id", id).Update(ctx, patch)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	var order models.Order
	if err := models.Decode(rows[0], &order); err != nil {
		return nil, err
	}
	s.invalidate(ctx, t)
	return &order, nil
}

func (s *OrderService) invalidate(ctx context.Context, t *Tenant) {
	if err := s.cache.Delete(ctx, cache.OrdersKey(t.ID())); err != nil {
		s.logger.Warn("orders cache invalidation failed", zap.String("store_id", t.ID()), zap.Error(err))
	}
}
