package models

import "github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"

type MovementType string

const (
	MovementWithdrawal MovementType = "SANGRIA"
	MovementDeposit    MovementType = "SUPRIMENTO"
	MovementOpening    MovementType = "ABERTURA_CAIXA"
	MovementClosing    MovementType = "FECHAMENTO_CAIXA"
)

// CashMovement is a cash entry inside a register session
type CashMovement struct {
	ID            string       `json:"id,omitempty"`
	StoreID       string       `json:"store_id"`
	Type          MovementType `json:"type"`
	Amount        float64      `json:"amount"`
	Description   string       `json:"description"`
	WaitstaffName string       `json:"waitstaffName"`
	CreatedAt     int64        `json:"createdAt"`
	SessionID     string       `json:"session_id,omitempty"`
}

// TableName specifies the table name for the CashMovement model
func (CashMovement) TableName() string {
	return bridge.TableCashMovements
}

type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// RegisterSession brackets one cashier shift
type RegisterSession struct {
	ID            string        `json:"id,omitempty"`
	StoreID       string        `json:"store_id"`
	WaitstaffID   string        `json:"waitstaff_id"`
	WaitstaffName string        `json:"waitstaff_name"`
	OpenedAt      int64         `json:"opened_at"`
	ClosedAt      *int64        `json:"closed_at,omitempty"`
	InitialAmount float64       `json:"initial_amount"`
	ClosedAmount  *float64      `json:"closed_amount,omitempty"`
	Status        SessionStatus `json:"status"`
}

// TableName specifies the table name for the RegisterSession model
func (RegisterSession) TableName() string {
	return bridge.TableRegisterSessions
}
