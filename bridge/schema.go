package bridge

import (
	"strings"
	"unicode"
)

// Table names known to the bridge.
const (
	TableStoreProfiles    = "store_profiles"
	TableCategories       = "categories"
	TableProducts         = "products"
	TableWaitstaff        = "waitstaff"
	TableOrders           = "orders"
	TableCashMovements    = "cash_movements"
	TableRegisterSessions = "register_sessions"
)

// TableSchema describes how rows of one table are shaped on the wire.
type TableSchema struct {
	Name string

	// Columns lists canonical column names.
	Columns []string

	// BoolColumns are stored as 0/1 and read back as bool.
	BoolColumns []string

	// JSONColumns are stored as text and read back as decoded JSON.
	JSONColumns []string

	// ClientID is set for tables keyed by a client-generated text id.
	ClientID bool

	// Create is the idempotent CREATE TABLE statement.
	Create string

	aliases map[string]string
}

// Migration adds Column to Table when it is missing.
type Migration struct {
	Table      string
	Column     string
	Definition string
}

// CoreTables is the fixed bootstrap, backup and restore order.
var CoreTables = []string{
	TableStoreProfiles,
	TableCategories,
	TableProducts,
	TableWaitstaff,
	TableOrders,
	TableCashMovements,
	TableRegisterSessions,
}

// Migrations is append-only. Each entry is applied only when
// PRAGMA table_info does not already list the column.
var Migrations = []Migration{
	{TableStoreProfiles, "dbUrl", "TEXT"},
	{TableStoreProfiles, "dbAuthToken", "TEXT"},
	{TableOrders, "deliveryDriverId", "TEXT"},
	{TableOrders, "paymentDetails", "TEXT"},
	{TableOrders, "isSynced", "INTEGER DEFAULT 0"},
	{TableOrders, "session_id", "TEXT"},
	{TableProducts, "stock", "REAL"},
	{TableCashMovements, "session_id", "TEXT"},
}

var schemas = map[string]*TableSchema{}

func init() {
	register(&TableSchema{
		Name:        TableStoreProfiles,
		Columns:     []string{"id", "slug", "name", "logoUrl", "address", "whatsapp", "isActive", "createdAt", "settings", "dbUrl", "dbAuthToken"},
		BoolColumns: []string{"isActive"},
		JSONColumns: []string{"settings"},
		ClientID:    true,
		Create: `CREATE TABLE IF NOT EXISTS store_profiles (
    id TEXT PRIMARY KEY,
    slug TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    logoUrl TEXT,
    address TEXT,
    whatsapp TEXT,
    isActive INTEGER DEFAULT 1,
    createdAt INTEGER,
    settings TEXT,
    dbUrl TEXT,
    dbAuthToken TEXT
)`,
	})
	register(&TableSchema{
		Name:    TableCategories,
		Columns: []string{"id", "store_id", "name"},
		Create: `CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    store_id TEXT,
    name TEXT NOT NULL,
    UNIQUE(store_id, name)
)`,
	})
	register(&TableSchema{
		Name:        TableProducts,
		Columns:     []string{"id", "store_id", "name", "description", "price", "category", "imageUrl", "isActive", "featuredDay", "isByWeight", "barcode", "stock"},
		BoolColumns: []string{"isActive", "isByWeight"},
		ClientID:    true,
		Create: `CREATE TABLE IF NOT EXISTS products (
    id TEXT PRIMARY KEY,
    store_id TEXT,
    name TEXT NOT NULL,
    description TEXT,
    price REAL,
    category TEXT,
    imageUrl TEXT,
    isActive INTEGER DEFAULT 1,
    featuredDay INTEGER,
    isByWeight INTEGER DEFAULT 0,
    barcode TEXT,
    stock REAL
)`,
	})
	register(&TableSchema{
		Name:     TableWaitstaff,
		Columns:  []string{"id", "store_id", "name", "password", "role"},
		ClientID: true,
		Create: `CREATE TABLE IF NOT EXISTS waitstaff (
    id TEXT PRIMARY KEY,
    store_id TEXT,
    name TEXT NOT NULL,
    password TEXT NOT NULL,
    role TEXT NOT NULL
)`,
	})
	register(&TableSchema{
		Name: TableOrders,
		Columns: []string{"id", "store_id", "type", "tableNumber", "customerName", "customerPhone", "items", "status", "total",
			"createdAt", "paymentMethod", "deliveryAddress", "notes", "changeFor", "waitstaffName", "couponApplied",
			"discountAmount", "deliveryDriverId", "paymentDetails", "isSynced", "session_id"},
		BoolColumns: []string{"isSynced"},
		JSONColumns: []string{"items", "paymentDetails"},
		Create: `CREATE TABLE IF NOT EXISTS orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    store_id TEXT,
    type TEXT,
    tableNumber TEXT,
    customerName TEXT,
    customerPhone TEXT,
    items TEXT,
    status TEXT,
    total REAL,
    createdAt INTEGER,
    paymentMethod TEXT,
    deliveryAddress TEXT,
    notes TEXT,
    changeFor REAL,
    waitstaffName TEXT,
    couponApplied TEXT,
    discountAmount REAL,
    deliveryDriverId TEXT,
    paymentDetails TEXT,
    isSynced INTEGER DEFAULT 0,
    session_id TEXT
)`,
	})
	register(&TableSchema{
		Name:     TableCashMovements,
		Columns:  []string{"id", "store_id", "type", "amount", "description", "waitstaffName", "createdAt", "session_id"},
		ClientID: true,
		Create: `CREATE TABLE IF NOT EXISTS cash_movements (
    id TEXT PRIMARY KEY,
    store_id TEXT,
    type TEXT,
    amount REAL,
    description TEXT,
    waitstaffName TEXT,
    createdAt INTEGER,
    session_id TEXT
)`,
	})
	register(&TableSchema{
		Name:     TableRegisterSessions,
		Columns:  []string{"id", "store_id", "waitstaff_id", "waitstaff_name", "opened_at", "closed_at", "initial_amount", "closed_amount", "status"},
		ClientID: true,
		Create: `CREATE TABLE IF NOT EXISTS register_sessions (
    id TEXT PRIMARY KEY,
    store_id TEXT,
    waitstaff_id TEXT,
    waitstaff_name TEXT,
    opened_at INTEGER,
    closed_at INTEGER,
    initial_amount REAL,
    closed_amount REAL,
    status TEXT
)`,
	})
}

func register(s *TableSchema) {
	s.aliases = make(map[string]string, len(s.Columns)*2)
	for _, col := range s.Columns {
		s.aliases[strings.ToLower(col)] = col
		s.aliases[strings.ToLower(snakeCase(col))] = col
		s.aliases[strings.ToLower(strings.ReplaceAll(col, "_", ""))] = col
	}
	schemas[s.Name] = s
}

// SchemaFor returns the schema of a known table, or nil.
func SchemaFor(table string) *TableSchema {
	return schemas[table]
}

// Canonical maps a column spelling (isactive, is_active, IsActive) to the
// canonical column name. Unknown columns are returned unchanged.
func (s *TableSchema) Canonical(column string) string {
	if s == nil {
		return column
	}
	if canonical, ok := s.aliases[strings.ToLower(column)]; ok {
		return canonical
	}
	if canonical, ok := s.aliases[strings.ToLower(strings.ReplaceAll(column, "_", ""))]; ok {
		return canonical
	}
	return column
}

// IsBool reports whether column is stored as 0/1.
func (s *TableSchema) IsBool(column string) bool {
	return s != nil && contains(s.BoolColumns, column)
}

// IsJSON reports whether column holds serialized JSON.
func (s *TableSchema) IsJSON(column string) bool {
	return s != nil && contains(s.JSONColumns, column)
}

// TenantColumn is the column that scopes rows to one store.
func (s *TableSchema) TenantColumn() string {
	if s != nil && s.Name == TableStoreProfiles {
		return "id"
	}
	return "store_id"
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
