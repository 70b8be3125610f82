package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/cache"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// tenantTables are the store-scoped tables, children first.
var tenantTables = []string{
	bridge.TableRegisterSessions,
	bridge.TableCashMovements,
	bridge.TableOrders,
	bridge.TableWaitstaff,
	bridge.TableProducts,
	bridge.TableCategories,
}

// StoreService manages tenant records in the main database
type StoreService struct {
	db     *bridge.Client
	cache  cache.Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewStoreService creates a store service
func NewStoreService(db *bridge.Client, store cache.Store, ttl time.Duration, logger *zap.Logger) *StoreService {
	return &StoreService{db: db, cache: store, ttl: ttl, logger: logger, now: time.Now}
}

// NormalizeSlug lower-cases and trims a store slug
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// GetBySlug loads a store by slug, serving from cache when possible
func (s *StoreService) GetBySlug(ctx context.Context, slug string) (*models.StoreProfile, error) {
	slug = NormalizeSlug(slug)
	if slug == "" {
		return nil, ErrStoreNotFound
	}

	var row bridge.Row
	err := s.cache.GetJSON(ctx, cache.StoreProfileKey(slug), &row)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("store profile cache read failed", zap.String("slug", slug), zap.Error(err))
		}
		row, err = s.db.WithMain().From(bridge.TableStoreProfiles).Eq("slug", slug).MaybeSingle(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, ErrStoreNotFound
		}
		if err := s.cache.SetJSON(ctx, cache.StoreProfileKey(slug), row, s.ttl); err != nil {
			s.logger.Warn("store profile cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}

	var profile models.StoreProfile
	if err := models.Decode(row, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByID loads a store by id from the main database
func (s *StoreService) GetByID(ctx context.Context, id string) (*models.StoreProfile, error) {
	row, err := s.db.WithMain().From(bridge.TableStoreProfiles).Eq("id", id).MaybeSingle(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrStoreNotFound
	}
	var profile models.StoreProfile
	if err := models.Decode(row, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Resolve loads an active store by slug and binds a client to its database
func (s *StoreService) Resolve(ctx context.Context, slug string) (*Tenant, error) {
	profile, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, ErrStoreSuspended
	}
	return s.Bind(*profile), nil
}

// Bind returns the tenant for profile with a client routed to its dedicated
// database, or to the main database when it has none
func (s *StoreService) Bind(profile models.StoreProfile) *Tenant {
	db := s.db.WithMain()
	if conn := profile.Connection(); conn != nil {
		db = s.db.WithStore(*conn)
	}
	return &Tenant{Store: profile, DB: db}
}

// CreateStoreInput is the super-admin request for a new store
type CreateStoreInput struct {
	Slug            string                `json:"slug"`
	Name            string                `json:"name"`
	LogoURL         string                `json:"logoUrl"`
	Address         string                `json:"address"`
	Whatsapp        string                `json:"whatsapp"`
	DBURL           string                `json:"dbUrl"`
	DBAuthToken     string                `json:"dbAuthToken"`
	Settings        *models.StoreSettings `json:"settings"`
	ManagerName     string                `json:"managerName"`
	ManagerPassword string                `json:"managerPassword"`
}

// Create registers a store and, when requested, its first manager
func (s *StoreService) Create(ctx context.Context, in CreateStoreInput) (*models.StoreProfile, error) {
	slug := NormalizeSlug(in.Slug)
	if !slugPattern.MatchString(slug) {
		return nil, invalid("slug", "must contain only lowercase letters, digits and hyphens")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("name", "is required")
	}
	if (in.ManagerName == "") != (in.ManagerPassword == "") {
		return nil, invalid("managerPassword", "manager name and password must be given together")
	}

	existing, err := s.db.WithMain().From(bridge.TableStoreProfiles).Eq("slug", slug).MaybeSingle(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	settings := models.DefaultSettings(in.Name)
	if in.Settings != nil {
		settings = *in.Settings
	}
	profile := models.StoreProfile{
		Slug:        slug,
		Name:        strings.TrimSpace(in.Name),
		LogoURL:     in.LogoURL,
		Address:     in.Address,
		Whatsapp:    in.Whatsapp,
		IsActive:    true,
		CreatedAt:   s.now().UnixMilli(),
		Settings:    settings,
		DBURL:       strings.TrimSpace(in.DBURL),
		DBAuthToken: strings.TrimSpace(in.DBAuthToken),
	}
	row, err := models.ToRow(profile)
	if err != nil {
		return nil, err
	}
	inserted, err := s.db.WithMain().From(bridge.TableStoreProfiles).Insert(ctx, row)
	if err != nil {
		return nil, err
	}
	if err := models.Decode(inserted[0], &profile); err != nil {
		return nil, err
	}

	tenant := s.Bind(profile)
	if conn := profile.Connection(); conn != nil {
		if err := tenant.DB.EnsureSchema(ctx, *conn); err != nil {
			s.logger.Warn("dedicated database bootstrap failed", zap.String("store_id", profile.ID), zap.Error(err))
		}
	}
	if in.ManagerName != "" {
		if _, err := createStaff(ctx, tenant, in.ManagerName, in.ManagerPassword, models.RoleManager); err != nil {
			return nil, err
		}
	}

	s.logger.Info("store created", zap.String("store_id", profile.ID), zap.String("slug", slug))
	return &profile, nil
}

// SetActive suspends or reactivates a store
func (s *StoreService) SetActive(ctx context.Context, id string, active bool) (*models.StoreProfile, error) {
	return s.update(ctx, id, bridge.Row{"isActive": active})
}

// UpdateSettings replaces the settings blob of a store
func (s *StoreService) UpdateSettings(ctx context.Context, id string, settings models.StoreSettings) (*models.StoreProfile, error) {
	settings.LastUpdate = s.now().UnixMilli()
	return s.update(ctx, id, bridge.Row{"settings": settings})
}

func (s *StoreService) update(ctx context.Context, id string, patch bridge.Row) (*models.StoreProfile, error) {
	rows, err := s.db.WithMain().From(bridge.TableStoreProfiles).Eq("id", id).Update(ctx, patch)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrStoreNotFound
	}
	var profile models.StoreProfile
	if err := models.Decode(rows[0], &profile); err != nil {
		return nil, err
	}
	s.Invalidate(ctx, profile)
	return &profile, nil
}

// Delete removes a store and every row it owns. Tenant rows go first, on
// whichever database holds them, then the profile itself.
func (s *StoreService) Delete(ctx context.Context, id string) error {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tenant := s.Bind(*profile)
	for _, table := range tenantTables {
		if _, err := tenant.DB.From(table).Eq("store_id", id).Delete(ctx); err != nil {
			return err
		}
	}
	if _, err := s.db.WithMain().From(bridge.TableStoreProfiles).Eq("id", id).Delete(ctx); err != nil {
		return err
	}

	s.Invalidate(ctx, *profile)
	s.logger.Info("store deleted", zap.String("store_id", id))
	return nil
}

// Invalidate drops the cached profile, menu and orders of a store
func (s *StoreService) Invalidate(ctx context.Context, profile models.StoreProfile) {
	keys := []string{
		cache.StoreProfileKey(profile.Slug),
		cache.MetadataKey(profile.ID),
		cache.OrdersKey(profile.ID),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("store_id", profile.ID), zap.Error(err))
	}
}
