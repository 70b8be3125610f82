package bridge

import (
	"fmt"
	"sort"
	"strings"
)

// Statement is one parameterized SQL statement in the remote batch format.
type Statement struct {
	SQL    string `json:"q"`
	Params []any  `json:"params"`
}

// SelectStatement compiles SELECT * FROM table [WHERE] [ORDER BY] [LIMIT].
func (q Query) SelectStatement() (Statement, error) {
	if q.err != nil {
		return Statement{}, q.err
	}
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(q.table)
	q.writeWhere(&b)
	if q.orderBy != "" {
		dir := "ASC"
		if !q.ascending {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", q.orderBy, dir)
	}
	if q.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.limit)
	}
	return Statement{SQL: b.String(), Params: q.Params()}, nil
}

// UpdateStatement compiles UPDATE table SET ... [WHERE] RETURNING *.
// SET parameters come first, followed by the predicate parameters.
func (q Query) UpdateStatement(patch Row) (Statement, error) {
	if q.err != nil {
		return Statement{}, q.err
	}
	if len(patch) == 0 {
		return Statement{}, ErrEmptyPatch
	}
	columns, err := sortedColumns(patch)
	if err != nil {
		return Statement{}, err
	}

	params := make([]any, 0, len(columns)+len(q.params))
	assignments := make([]string, len(columns))
	for i, col := range columns {
		assignments[i] = col + " = ?"
		params = append(params, patch[col])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", q.table, strings.Join(assignments, ", "))
	q.writeWhere(&b)
	b.WriteString(" RETURNING *")
	return Statement{SQL: b.String(), Params: append(params, q.params...)}, nil
}

// DeleteStatement compiles DELETE FROM table [WHERE] RETURNING *.
func (q Query) DeleteStatement() (Statement, error) {
	if q.err != nil {
		return Statement{}, q.err
	}
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(q.table)
	q.writeWhere(&b)
	b.WriteString(" RETURNING *")
	return Statement{SQL: b.String(), Params: q.Params()}, nil
}

// InsertStatement compiles INSERT INTO table (...) VALUES (...) with columns in
// sorted order, optionally followed by RETURNING *.
func InsertStatement(table string, row Row, returning bool) (Statement, error) {
	if !validIdentifier(table) {
		return Statement{}, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	if len(row) == 0 {
		return Statement{}, fmt.Errorf("insert into %s: row has no columns", table)
	}
	columns, err := sortedColumns(row)
	if err != nil {
		return Statement{}, err
	}
	params := make([]any, len(columns))
	for i, col := range columns {
		params[i] = row[col]
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)
	if returning {
		sql += " RETURNING *"
	}
	return Statement{SQL: sql, Params: params}, nil
}

func (q Query) writeWhere(b *strings.Builder) {
	if len(q.clauses) == 0 {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(q.clauses, " AND "))
}

func sortedColumns(row Row) ([]string, error) {
	columns := make([]string, 0, len(row))
	for col := range row {
		if !validIdentifier(col) {
			return nil, fmt.Errorf("%w: column %q", ErrInvalidIdentifier, col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns, nil
}
