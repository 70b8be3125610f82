package bridge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Builder chains predicates onto a Query and runs it through a Client.
// Like Query it is a value: chaining never modifies the receiver.
type Builder struct {
	client *Client
	query  Query
}

// From starts a chain against table.
func (c *Client) From(table string) Builder {
	return Builder{client: c, query: NewQuery(table)}
}

func (b Builder) with(q Query) Builder {
	return Builder{client: b.client, query: q}
}

func (b Builder) Eq(column string, value any) Builder  { return b.with(b.query.Eq(column, value)) }
func (b Builder) Gt(column string, value any) Builder  { return b.with(b.query.Gt(column, value)) }
func (b Builder) Gte(column string, value any) Builder { return b.with(b.query.Gte(column, value)) }
func (b Builder) Lt(column string, value any) Builder  { return b.with(b.query.Lt(column, value)) }
func (b Builder) Lte(column string, value any) Builder { return b.with(b.query.Lte(column, value)) }

func (b Builder) In(column string, values ...any) Builder {
	return b.with(b.query.In(column, values...))
}

func (b Builder) Order(column string, ascending bool) Builder {
	return b.with(b.query.Order(column, ascending))
}

func (b Builder) Limit(n int) Builder {
	return b.with(b.query.Limit(n))
}

// Query returns the accumulated descriptor.
func (b Builder) Query() Query {
	return b.query
}

// Get runs the SELECT and returns every matching row.
func (b Builder) Get(ctx context.Context) ([]Row, error) {
	st, err := b.query.SelectStatement()
	if err != nil {
		return nil, err
	}
	return b.run(ctx, st)
}

// MaybeSingle returns the first matching row, or nil when nothing matches.
func (b Builder) MaybeSingle(ctx context.Context) (Row, error) {
	rows, err := b.Get(ctx)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Insert writes each row with its own INSERT ... RETURNING * in input order.
// Rows before a failing one stay inserted.
func (b Builder) Insert(ctx context.Context, rows ...Row) ([]Row, error) {
	if err := b.query.Err(); err != nil {
		return nil, err
	}
	table := b.query.Table()
	schema := SchemaFor(table)
	out := make([]Row, 0, len(rows))
	for i, row := range rows {
		encoded, err := EncodeRow(schema, row)
		if err != nil {
			return out, fmt.Errorf("insert into %s: row %d: %w", table, i, err)
		}
		if schema != nil && schema.ClientID && isBlank(encoded["id"]) {
			encoded["id"] = uuid.NewString()
		}
		st, err := InsertStatement(table, encoded, true)
		if err != nil {
			return out, fmt.Errorf("insert into %s: row %d: %w", table, i, err)
		}
		inserted, err := b.run(ctx, st)
		if err != nil {
			return out, fmt.Errorf("insert into %s: row %d: %w", table, i, err)
		}
		out = append(out, inserted...)
	}
	return out, nil
}

// Update sets patch on every row matching the chain.
func (b Builder) Update(ctx context.Context, patch Row) ([]Row, error) {
	encoded, err := EncodeRow(SchemaFor(b.query.Table()), patch)
	if err != nil {
		return nil, err
	}
	st, err := b.query.UpdateStatement(encoded)
	if err != nil {
		return nil, err
	}
	return b.run(ctx, st)
}

// Upsert updates rows whose id already exists and inserts the rest.
// The lookup and the write are separate statements.
func (b Builder) Upsert(ctx context.Context, rows ...Row) ([]Row, error) {
	if err := b.query.Err(); err != nil {
		return nil, err
	}
	table := b.query.Table()
	out := make([]Row, 0, len(rows))
	for i, row := range rows {
		id := row["id"]
		if isBlank(id) {
			inserted, err := b.client.From(table).Insert(ctx, row)
			if err != nil {
				return out, err
			}
			out = append(out, inserted...)
			continue
		}

		existing, err := b.client.From(table).Eq("id", id).MaybeSingle(ctx)
		if err != nil {
			return out, fmt.Errorf("upsert into %s: row %d: %w", table, i, err)
		}
		if existing == nil {
			inserted, err := b.client.From(table).Insert(ctx, row)
			if err != nil {
				return out, err
			}
			out = append(out, inserted...)
			continue
		}

		patch := copyRow(row)
		delete(patch, "id")
		if len(patch) == 0 {
			out = append(out, existing)
			continue
		}
		updated, err := b.client.From(table).Eq("id", id).Update(ctx, patch)
		if err != nil {
			return out, fmt.Errorf("upsert into %s: row %d: %w", table, i, err)
		}
		out = append(out, updated...)
	}
	return out, nil
}

// Delete removes every row matching the chain and returns them.
func (b Builder) Delete(ctx context.Context) ([]Row, error) {
	st, err := b.query.DeleteStatement()
	if err != nil {
		return nil, err
	}
	return b.run(ctx, st)
}

func (b Builder) run(ctx context.Context, st Statement) ([]Row, error) {
	table := b.query.Table()
	result, err := b.client.executeOne(ctx, table, st)
	if err != nil {
		return nil, err
	}
	return DecodeRows(SchemaFor(table), result.Records()), nil
}

func isBlank(value any) bool {
	if isNil(value) {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func copyRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
