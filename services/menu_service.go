package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/cache"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Menu is the products and categories of a store at one point in time
type Menu struct {
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
	Timestamp  int64             `json:"timestamp"`
}

// Active returns a copy of the menu without inactive products
func (m Menu) Active() Menu {
	out := Menu{Categories: m.Categories, Timestamp: m.Timestamp, Products: []models.Product{}}
	for _, p := range m.Products {
		if p.IsActive {
			out.Products = append(out.Products, p)
		}
	}
	return out
}

// MenuService manages products and categories
type MenuService struct {
	cache  cache.Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewMenuService creates a menu service
func NewMenuService(store cache.Store, ttl time.Duration, logger *zap.Logger) *MenuService {
	return &MenuService{cache: store, ttl: ttl, logger: logger, now: time.Now}
}

// Snapshot returns the full menu, loading products and categories
// concurrently when the cached copy is missing
func (s *MenuService) Snapshot(ctx context.Context, t *Tenant) (*Menu, error) {
	var menu Menu
	err := s.cache.GetJSON(ctx, cache.MetadataKey(t.ID()), &menu)
	if err == nil {
		return &menu, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("menu cache read failed", zap.String("store_id", t.ID()), zap.Error(err))
	}

	var productRows, categoryRows []bridge.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		productRows, err = t.DB.From(bridge.TableProducts).Eq("store_id", t.ID()).Order("name", true).Get(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categoryRows, err = t.DB.From(bridge.TableCategories).Eq("store_id", t.ID()).Order("name", true).Get(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products, err := models.DecodeAll[models.Product](productRows)
	if err != nil {
		return nil, err
	}
	categories, err := models.DecodeAll[models.Category](categoryRows)
	if err != nil {
		return nil, err
	}
	menu = Menu{Products: products, Categories: categories, Timestamp: s.now().UnixMilli()}

	if err := s.cache.SetJSON(ctx, cache.MetadataKey(t.ID()), menu, s.ttl); err != nil {
		s.logger.Warn("menu cache write failed", zap.String("store_id", t.ID()), zap.Error(err))
	}
	return &menu, nil
}

// UpsertProduct creates the product, or updates it when its id exists
func (s *MenuService) UpsertProduct(ctx context.Context, t *Tenant, p models.Product) (*models.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, invalid("name", "is required")
	}
	if p.Price < 0 {
		return nil, invalid("price", "must not be negative")
	}
	if strings.TrimSpace(p.Category) == "" {
		return nil, invalid("category", "is required")
	}
	p.StoreID = t.ID()

	if p.ID != "" {
		existing, err := t.DB.From(bridge.TableProducts).Eq("id", p.ID).MaybeSingle(ctx)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing["store_id"] != t.ID() {
			return nil, ErrNotFound
		}
	}

	row, err := models.ToRow(p)
	if err != nil {
		return nil, err
	}
	rows, err := t.DB.From(bridge.TableProducts).Upsert(ctx, row)
	if err != nil {
		return nil, err
	}

	var saved models.Product
	if err := models.Decode(rows[0], &saved); err != nil {
		return nil, err
	}
	s.invalidate(ctx, t)
	return &saved, nil
}

// DeleteProduct removes a product
func (s *MenuService) DeleteProduct(ctx context.Context, t *Tenant, id string) error {
	rows, err := t.DB.From(bridge.TableProducts).Eq("store_id", t.ID()).Eq("id", id).Delete(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	s.invalidate(ctx, t)
	return nil
}

// CreateCategory adds a category; names are unique per store
func (s *MenuService) CreateCategory(ctx context.Context, t *Tenant, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	existing, err := t.DB.From(bridge.TableCategories).Eq("store_id", t.ID()).Eq("name", name).MaybeSingle(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	rows, err := t.DB.From(bridge.TableCategories).Insert(ctx, bridge.Row{"store_id": t.ID(), "name": name})
	if err != nil {
		return nil, err
	}
	var category models.Category
	if err := models.Decode(rows[0], &category); err != nil {
		return nil, err
	}
	s.invalidate(ctx, t)
	return &category, nil
}

// DeleteCategory removes a category by name. Products keep their category text.
func (s *MenuService) DeleteCategory(ctx context.Context, t *Tenant, name string) error {
	rows, err := t.DB.From(bridge.TableCategories).Eq("store_id", t.ID()).Eq("name", name).Delete(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	s.invalidate(ctx, t)
	return nil
}

func (s *MenuService) invalidate(ctx context.Context, t *Tenant) {
	if err := s.cache.Delete(ctx, cache.MetadataKey(t.ID())); err != nil {
		s.logger.Warn("menu cache invalidation failed", zap.String("store_id", t.ID()), zap.Error(err))
	}
}
