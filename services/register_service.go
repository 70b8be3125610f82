package services

import (
	"context"
	"errors"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"go.uber.org/zap"
)

// Cashier identifies the staff member operating the register
type Cashier struct {
	ID   string
	Name string
}

// RegisterSummary is the current session with its movements and totals
type RegisterSummary struct {
	Session   *models.RegisterSession `json:"session"`
	Movements []models.CashMovement   `json:"movements"`
	Expected  float64                 `json:"expectedAmount"`
}

// RegisterService runs the point-of-sale cash register
type RegisterService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewRegisterService creates a register service
func NewRegisterService(logger *zap.Logger) *RegisterService {
	return &RegisterService{logger: logger, now: time.Now}
}

// Current returns the open session of the store, or ErrNoOpenSession
func (s *RegisterService) Current(ctx context.Context, t *Tenant) (*models.RegisterSession, error) {
	row, err := t.DB.From(bridge.TableRegisterSessions).
		Eq("store_id", t.ID()).
		Eq("status", string(models.SessionOpen)).
		Order("opened_at", false).
		Limit(1).
		MaybeSingle(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNoOpenSession
	}
	var session models.RegisterSession
	if err := models.Decode(row, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Summary returns the open session, its movements and the expected cash
// in the drawer
func (s *RegisterService) Summary(ctx context.Context, t *Tenant) (*RegisterSummary, error) {
	session, err := s.Current(ctx, t)
	if err != nil {
		return nil, err
	}
	rows, err := t.DB.From(bridge.TableCashMovements).
		Eq("store_id", t.ID()).
		Eq("session_id", session.ID).
		Order("createdAt", true).
		Get(ctx)
	if err != nil {
		return nil, err
	}
	movements, err := models.DecodeAll[models.CashMovement](rows)
	if err != nil {
		return nil, err
	}
	return &RegisterSummary{Session: session, Movements: movements, Expected: expectedCash(movements)}, nil
}

// Open starts a session. A positive initial amount is recorded as an
// ABERTURA_CAIXA movement.
func (s *RegisterService) Open(ctx context.Context, t *Tenant, cashier Cashier, initialAmount float64) (*models.RegisterSession, error) {
	if initialAmount < 0 {
		return nil, invalid("initialAmount", "must not be negative")
	}
	if _, err := s.Current(ctx, t); err == nil {
		return nil, ErrSessionOpen
	} else if !errors.Is(err, ErrNoOpenSession) {
		return nil, err
	}

	session := models.RegisterSession{
		StoreID:       t.ID(),
		WaitstaffID:   cashier.ID,
		WaitstaffName: cashier.Name,
		OpenedAt:      s.now().UnixMilli(),
		InitialAmount: initialAmount,
		Status:        models.SessionOpen,
	}
	row, err := models.ToRow(session)
	if err != nil {
		return nil, err
	}
	rows, err := t.DB.From(bridge.TableRegisterSessions).Insert(ctx, row)
	if err != nil {
		return nil, err
	}
	if err := models.Decode(rows[0], &session); err != nil {
		return nil, err
	}

	if initialAmount > 0 {
		if _, err := s.record(ctx, t, session.ID, cashier, models.MovementOpening, initialAmount, "Abertura de caixa"); err != nil {
			return nil, err
		}
	}
	s.logger.Info("register opened", zap.String("store_id", t.ID()), zap.String("session_id", session.ID))
	return &session, nil
}

// AddMovement records a withdrawal (SANGRIA) or deposit (SUPRIMENTO)
func (s *RegisterService) AddMovement(ctx context.Context, t *Tenant, cashier Cashier, kind models.MovementType, amount float64, description string) (*models.CashMovement, error) {
	if kind != models.MovementWithdrawal && kind != models.MovementDeposit {
		return nil, invalid("type", "must be SANGRIA or SUPRIMENTO")
	}
	if amount <= 0 {
		return nil, invalid("amount", "must be positive")
	}
	session, err := s.Current(ctx, t)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, t, session.ID, cashier, kind, amount, description)
}

// Close ends the open session with the counted amount
func (s *RegisterService) Close(ctx context.Context, t *Tenant, cashier Cashier, closedAmount float64) (*models.RegisterSession, error) {
	if closedAmount < 0 {
		return nil, invalid("closedAmount", "must not be negative")
	}
	session, err := s.Current(ctx, t)
	if err != nil {
		return nil, err
	}

	if _, err := s.record(ctx, t, session.ID, cashier, models.MovementClosing, closedAmount, "Fechamento de caixa"); err != nil {
		return nil, err
	}
	rows, err := t.DB.From(bridge.TableRegisterSessions).Eq("id", session.ID).Update(ctx, bridge.Row{
		"status":        string(models.SessionClosed),
		"closed_at":     s.now().UnixMilli(),
		"closed_amount": closedAmount,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoOpenSession
	}

	var closed models.RegisterSession
	if err := models.Decode(rows[0], &closed); err != nil {
		return nil, err
	}
	s.logger.Info("register closed", zap.String("store_id", t.ID()), zap.String("session_id", closed.ID))
	return &closed, nil
}

func (s *RegisterService) record(ctx context.Context, t *Tenant, sessionID string, cashier Cashier, kind models.MovementType, amount float64, description string) (*models.CashMovement, error) {
	row, err := models.ToRow(models.CashMovement{
		StoreID:       t.ID(),
		Type:          kind,
		Amount:        amount,
		Description:   description,
		WaitstaffName: cashier.Name,
		CreatedAt:     s.now().UnixMilli(),
		SessionID:     sessionID,
	})
	if err != nil {
		return nil, err
	}
	rows, err := t.DB.From(bridge.TableCashMovements).Insert(ctx, row)
	if err != nil {
		return nil, err
	}
	var movement models.CashMovement
	if err := models.Decode(rows[0], &movement); err != nil {
		return nil, err
	}
	return &movement, nil
}

// expectedCash is the opening amount plus deposits less withdrawals
func expectedCash(movements []models.CashMovement) float64 {
	var total float64
	for _, m := range movements {
		switch m.Type {
		case models.MovementOpening, models.MovementDeposit:
			total += m.Amount
		case models.MovementWithdrawal:
			total -= m.Amount
		}
	}
	return total
}
