package bridge

import (
	"fmt"
	"reflect"
	"regexp"
)

// Row is one record keyed by column name.
type Row map[string]any

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Query is an immutable description of a statement against one table.
// Every method returns a new Query; the receiver is never modified, so
// chains forked from a common prefix stay independent.
type Query struct {
	table     string
	clauses   []string
	params    []any
	orderBy   string
	ascending bool
	limit     int
	err       error
}

// NewQuery starts a query against table.
func NewQuery(table string) Query {
	q := Query{table: table, ascending: true}
	if !validIdentifier(table) {
		q.err = fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	return q
}

// Table returns the table the query targets.
func (q Query) Table() string {
	return q.table
}

// Err returns the first error recorded while building the query.
func (q Query) Err() error {
	return q.err
}

// Params returns a copy of the positional parameters in clause order.
func (q Query) Params() []any {
	return appendCopy(q.params)
}

func (q Query) Eq(column string, value any) Query  { return q.where(column, "=", value) }
func (q Query) Gt(column string, value any) Query  { return q.where(column, ">", value) }
func (q Query) Gte(column string, value any) Query { return q.where(column, ">=", value) }
func (q Query) Lt(column string, value any) Query  { return q.where(column, "<", value) }
func (q Query) Lte(column string, value any) Query { return q.where(column, "<=", value) }

// In matches column against any of values. With no values the call is a no-op.
func (q Query) In(column string, values ...any) Query {
	if len(values) == 0 {
		return q
	}
	column, ok := q.column(column)
	if !ok {
		return q
	}
	placeholders := "?"
	for i := 1; i < len(values); i++ {
		placeholders += ", ?"
	}
	q.clauses = appendCopy(q.clauses, fmt.Sprintf("%s IN (%s)", column, placeholders))
	q.params = appendCopy(q.params, values...)
	return q
}

// Order sets the single ordering column. Last call wins.
func (q Query) Order(column string, ascending bool) Query {
	column, ok := q.column(column)
	if !ok {
		return q
	}
	q.orderBy = column
	q.ascending = ascending
	return q
}

// Limit caps the number of rows. Last call wins; n <= 0 removes the cap.
func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

// where appends "column op ?". A nil value drops the clause so optional
// filters can be passed through unconditionally.
func (q Query) where(column, op string, value any) Query {
	if isNil(value) {
		return q
	}
	column, ok := q.column(column)
	if !ok {
		return q
	}
	q.clauses = appendCopy(q.clauses, fmt.Sprintf("%s %s ?", column, op))
	q.params = appendCopy(q.params, value)
	return q
}

// column validates name and maps it to the canonical spelling of the
// table, so filters accept the same aliases as rows do.
func (q *Query) column(name string) (string, bool) {
	if !q.checkColumn(name) {
		return "", false
	}
	return SchemaFor(q.table).Canonical(name), true
}

func (q *Query) checkColumn(column string) bool {
	if q.err != nil {
		return false
	}
	if !validIdentifier(column) {
		q.err = fmt.Errorf("%w: column %q", ErrInvalidIdentifier, column)
		return false
	}
	return true
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func appendCopy[T any](s []T, values ...T) []T {
	out := make([]T, 0, len(s)+len(values))
	out = append(out, s...)
	return append(out, values...)
}
