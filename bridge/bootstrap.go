package bridge

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type readyMarker struct{}

// ensureSchema creates the core tables and applies missing columns on the
// first contact with an endpoint. Concurrent callers for the same URL share
// a single run; a failed run is forgotten so a later call retries it.
func (s *state) ensureSchema(ctx context.Context, endpoint Endpoint, main bool) error {
	url, err := NormalizeURL(endpoint.URL)
	if err != nil {
		return err
	}
	if _, ok := s.ready.Load(url); ok {
		return nil
	}

	_, err, _ = s.inflight.Do(url, func() (any, error) {
		if _, ok := s.ready.Load(url); ok {
			return nil, nil
		}
		if err := s.bootstrap(context.WithoutCancel(ctx), endpoint, main); err != nil {
			return nil, err
		}
		s.ready.Store(url, readyMarker{})
		return nil, nil
	})
	return err
}

func (s *state) bootstrap(ctx context.Context, endpoint Endpoint, main bool) error {
	var creates []Statement
	for _, table := range CoreTables {
		if !main && table == TableStoreProfiles {
			continue
		}
		creates = append(creates, Statement{SQL: SchemaFor(table).Create})
	}
	if _, err := s.exec.Execute(ctx, endpoint, creates); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	s.migrate(ctx, endpoint, main)
	s.logger.Info("database schema ready",
		zap.String("endpoint", endpoint.URL),
		zap.Bool("main", main))
	return nil
}

// migrate adds each listed column that PRAGMA table_info does not report.
// Failures are logged and skipped.
func (s *state) migrate(ctx context.Context, endpoint Endpoint, main bool) {
	existing := map[string]map[string]bool{}
	for _, m := range Migrations {
		if !main && m.Table == TableStoreProfiles {
			continue
		}
		columns, ok := existing[m.Table]
		if !ok {
			var err error
			columns, err = s.tableColumns(ctx, endpoint, m.Table)
			if err != nil {
				s.logger.Warn("migration check failed",
					zap.String("endpoint", endpoint.URL),
					zap.String("table", m.Table),
					zap.Error(err))
				existing[m.Table] = nil
				continue
			}
			existing[m.Table] = columns
		}
		if columns == nil || columns[m.Column] {
			continue
		}

		alter := Statement{SQL: fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Definition)}
		if _, err := s.exec.Execute(ctx, endpoint, []Statement{alter}); err != nil {
			s.logger.Warn("migration failed",
				zap.String("endpoint", endpoint.URL),
				zap.String("table", m.Table),
				zap.String("column", m.Column),
				zap.Error(err))
			continue
		}
		columns[m.Column] = true
	}
}

func (s *state) tableColumns(ctx context.Context, endpoint Endpoint, table string) (map[string]bool, error) {
	results, err := s.exec.Execute(ctx, endpoint, []Statement{{SQL: fmt.Sprintf("PRAGMA table_info(%s)", table)}})
	if err != nil {
		return nil, err
	}
	columns := map[string]bool{}
	if len(results) == 0 {
		return columns, nil
	}
	for _, row := range results[0].Records() {
		if name, ok := row["name"].(string); ok {
			columns[name] = true
		}
	}
	return columns, nil
}
