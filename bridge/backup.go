package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Snapshot holds raw rows per table as read from the database.
type Snapshot map[string][]Row

// Marshal encodes the snapshot as one JSON object keyed by table.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// ParseSnapshot decodes a backup document.
func ParseSnapshot(document []byte) (Snapshot, error) {
	var raw map[string][]map[string]any
	dec := json.NewDecoder(bytes.NewReader(document))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid backup document: %w", err)
	}
	snap := make(Snapshot, len(raw))
	for table, rows := range raw {
		out := make([]Row, len(rows))
		for i, row := range rows {
			r := make(Row, len(row))
			for k, v := range row {
				r[k] = NormalizeValue(v)
			}
			out[i] = r
		}
		snap[table] = out
	}
	return snap, nil
}

// Backup reads every core table, scoped to storeID when it is not empty.
// Rows are returned as stored, without boolean or JSON decoding.
func (c *Client) Backup(ctx context.Context, storeID string) (Snapshot, error) {
	results := make([][]Row, len(CoreTables))
	g, ctx := errgroup.WithContext(ctx)
	for i, table := range CoreTables {
		i, table := i, table
		g.Go(func() error {
			q := NewQuery(table)
			if storeID != "" {
				q = q.Eq(SchemaFor(table).TenantColumn(), storeID)
			}
			st, err := q.SelectStatement()
			if err != nil {
				return err
			}
			result, err := c.executeOne(ctx, table, st)
			if err != nil {
				return fmt.Errorf("backup %s: %w", table, err)
			}
			results[i] = result.Records()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := make(Snapshot, len(CoreTables))
	for i, table := range CoreTables {
		snap[table] = results[i]
	}
	return snap, nil
}

// Restore replaces the rows of every non-empty table in document, in core
// table order: the store's rows are deleted, then the backup rows are
// inserted in batches. Tables are not restored atomically, so a failure
// leaves earlier tables restored.
func (c *Client) Restore(ctx context.Context, document []byte, storeID string) error {
	snap, err := ParseSnapshot(document)
	if err != nil {
		return err
	}

	for _, table := range CoreTables {
		rows := snap[table]
		if len(rows) == 0 {
			continue
		}
		schema := SchemaFor(table)

		del := NewQuery(table)
		if storeID != "" {
			del = del.Eq(schema.TenantColumn(), storeID)
		}
		st, err := del.DeleteStatement()
		if err != nil {
			return &RestoreError{Table: table, Batch: -1, Err: err}
		}
		if _, err := c.executeOne(ctx, table, st); err != nil {
			return &RestoreError{Table: table, Batch: -1, Err: err}
		}

		for start, batch := 0, 0; start < len(rows); start, batch = start+c.state.chunkSize, batch+1 {
			end := min(start+c.state.chunkSize, len(rows))
			statements := make([]Statement, 0, end-start)
			for _, row := range rows[start:end] {
				encoded, err := EncodeRow(schema, row)
				if err != nil {
					return &RestoreError{Table: table, Batch: batch, Err: err}
				}
				ins, err := InsertStatement(table, encoded, false)
				if err != nil {
					return &RestoreError{Table: table, Batch: batch, Err: err}
				}
				statements = append(statements, ins)
			}
			if _, err := c.execute(ctx, table, statements); err != nil {
				return &RestoreError{Table: table, Batch: batch, Err: err}
			}
		}
		c.state.logger.Info("table restored", zap.String("table", table), zap.Int("rows", len(rows)))
	}
	return nil
}
