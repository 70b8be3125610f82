package models

import "github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"

type StaffRole string

const (
	RoleManager   StaffRole = "GERENTE"
	RoleAttendant StaffRole = "ATENDENTE"
	RoleCourier   StaffRole = "ENTREGADOR"
)

// Valid reports whether r is a known role
func (r StaffRole) Valid() bool {
	switch r {
	case RoleManager, RoleAttendant, RoleCourier:
		return true
	}
	return false
}

// Waitstaff is a store-scoped staff credential
type Waitstaff struct {
	ID       string    `json:"id,omitempty"`
	StoreID  string    `json:"store_id"`
	Name     string    `json:"name"`
	Password string    `json:"password,omitempty"` // bcrypt hash
	Role     StaffRole `json:"role"`
}

// TableName specifies the table name for the Waitstaff model
func (Waitstaff) TableName() string {
	return bridge.TableWaitstaff
}
