package services

import (
	"context"
	"strings"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"go.uber.org/zap"
)

// StaffService manages waitstaff accounts and their sign-in
type StaffService struct {
	sessions *SessionService
	logger   *zap.Logger
}

// NewStaffService creates a staff service
func NewStaffService(sessions *SessionService, logger *zap.Logger) *StaffService {
	return &StaffService{sessions: sessions, logger: logger}
}

// Create adds a staff member with a hashed password
func (s *StaffService) Create(ctx context.Context, t *Tenant, name, password string, role models.StaffRole) (*models.Waitstaff, error) {
	return createStaff(ctx, t, name, password, role)
}

func createStaff(ctx context.Context, t *Tenant, name, password string, role models.StaffRole) (*models.Waitstaff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if len(password) < 4 {
		return nil, invalid("password", "must have at least 4 characters")
	}
	if !role.Valid() {
		return nil, invalid("role", "must be GERENTE, ATENDENTE or ENTREGADOR")
	}

	existing, err := t.DB.From(bridge.TableWaitstaff).Eq("store_id", t.ID()).Eq("name", name).MaybeSingle(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := bridge.HashPassword(password)
	if err != nil {
		return nil, err
	}
	row, err := models.ToRow(models.Waitstaff{StoreID: t.ID(), Name: name, Password: hash, Role: role})
	if err != nil {
		return nil, err
	}
	inserted, err := t.DB.From(bridge.TableWaitstaff).Insert(ctx, row)
	if err != nil {
		return nil, err
	}

	var staff models.Waitstaff
	if err := models.Decode(inserted[0], &staff); err != nil {
		return nil, err
	}
	staff.Password = ""
	return &staff, nil
}

// List returns the staff of a store without their password hashes
func (s *StaffService) List(ctx context.Context, t *Tenant) ([]models.Waitstaff, error) {
	rows, err := t.DB.From(bridge.TableWaitstaff).Eq("store_id", t.ID()).Order("name", true).Get(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := models.DecodeAll[models.Waitstaff](rows)
	if err != nil {
		return nil, err
	}
	for i := range staff {
		staff[i].Password = ""
	}
	return staff, nil
}

// Get loads one staff member of the store
func (s *StaffService) Get(ctx context.Context, t *Tenant, id string) (*models.Waitstaff, error) {
	row, err := t.DB.From(bridge.TableWaitstaff).Eq("store_id", t.ID()).Eq("id", id).MaybeSingle(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	var staff models.Waitstaff
	if err := models.Decode(row, &staff); err != nil {
		return nil, err
	}
	staff.Password = ""
	return &staff, nil
}

// Delete removes a staff member
func (s *StaffService) Delete(ctx context.Context, t *Tenant, id string) error {
	rows, err := t.DB.From(bridge.TableWaitstaff).Eq("store_id", t.ID()).Eq("id", id).Delete(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	if err := s.sessions.RevokeUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("staff deleted", zap.String("store_id", t.ID()), zap.String("waitstaff_id", id))
	return nil
}

// Login verifies the credentials against the store and issues a session token
func (s *StaffService) Login(ctx context.Context, t *Tenant, name, password string) (*IssuedSession, error) {
	user, err := t.DB.SignInWithPassword(ctx, bridge.Credentials{
		Name:     strings.TrimSpace(name),
		Password: password,
		StoreID:  t.ID(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("staff signed in", zap.String("store_id", t.ID()), zap.String("waitstaff_id", user.ID))
	return s.sessions.Issue(ctx, user)
}
