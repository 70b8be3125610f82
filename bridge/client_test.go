package bridge_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	mainURL      = "https://main.example.com"
	dedicatedURL = "https://store-1.example.com"
)

// call is one batch seen by spyExecutor
type call struct {
	URL        string
	Statements []bridge.Statement
}

// spyExecutor records every batch and answers with empty result sets.
// fail, when set, can reject a batch.
type spyExecutor struct {
	mu    sync.Mutex
	calls []call
	fail  func(endpoint bridge.Endpoint, statements []bridge.Statement) error
}

func (s *spyExecutor) Execute(ctx context.Context, endpoint bridge.Endpoint, statements []bridge.Statement) ([]bridge.ResultSet, error) {
	s.mu.Lock()
	s.calls = append(s.calls, call{URL: endpoint.URL, Statements: statements})
	fail := s.fail
	s.mu.Unlock()

	// Widen the window in which concurrent callers overlap.
	time.Sleep(5 * time.Millisecond)

	if fail != nil {
		if err := fail(endpoint, statements); err != nil {
			return nil, err
		}
	}
	return make([]bridge.ResultSet, len(statements)), nil
}

// statements returns the SQL sent to url that starts with prefix
func (s *spyExecutor) statements(url, prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, c := range s.calls {
		if c.URL != url {
			continue
		}
		for _, st := range c.Statements {
			if strings.HasPrefix(st.SQL, prefix) {
				out = append(out, st.SQL)
			}
		}
	}
	return out
}

func newSpyClient(spy *spyExecutor) *bridge.Client {
	return bridge.New(bridge.Options{
		Main:     bridge.Endpoint{URL: mainURL, Token: "main-token"},
		Executor: spy,
		Logger:   zap.NewNop(),
	})
}

func isCreate(statements []bridge.Statement) bool {
	return len(statements) > 0 && strings.HasPrefix(statements[0].SQL, "CREATE TABLE")
}

func TestConcurrentBootstrapRunsOnce(t *testing.T) {
	spy := &spyExecutor{}
	client := newSpyClient(spy).WithStore(bridge.Endpoint{URL: dedicatedURL, Token: "store-token"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.From(bridge.TableProducts).Eq("store_id", "s1").Get(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	creates := spy.statements(dedicatedURL, "CREATE TABLE")
	assert.Len(t, creates, len(bridge.CoreTables)-1)
	for _, table := range bridge.CoreTables {
		count := 0
		for _, sql := range creates {
			if strings.HasPrefix(sql, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				count++
			}
		}
		if table == bridge.TableStoreProfiles {
			assert.Zero(t, count, "store_profiles is never created on a dedicated database")
		} else {
			assert.Equal(t, 1, count, "table %s", table)
		}
	}
	assert.Len(t, spy.statements(dedicatedURL, "SELECT * FROM products"), 20)
	assert.Empty(t, spy.statements(mainURL, "CREATE TABLE"))
}

func TestMainBootstrapFailureIsReturnedAndRetried(t *testing.T) {
	spy := &spyExecutor{}
	failed := false
	spy.fail = func(endpoint bridge.Endpoint, statements []bridge.Statement) error {
		if isCreate(statements) && !failed {
			failed = true
			return errors.New("connection reset")
		}
		return nil
	}
	client := newSpyClient(spy)

	_, err := client.From(bridge.TableStoreProfiles).Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, spy.statements(mainURL, "SELECT"))

	_, err = client.From(bridge.TableStoreProfiles).Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, spy.statements(mainURL, "CREATE TABLE IF NOT EXISTS store_profiles"), 2)
	assert.Len(t, spy.statements(mainURL, "SELECT * FROM store_profiles"), 1)
}

func TestDedicatedBootstrapFailureStillRunsStatement(t *testing.T) {
	spy := &spyExecutor{}
	spy.fail = func(endpoint bridge.Endpoint, statements []bridge.Statement) error {
		if isCreate(statements) {
			return errors.New("read-only replica")
		}
		return nil
	}
	client := newSpyClient(spy).WithStore(bridge.Endpoint{URL: dedicatedURL})

	_, err := client.From(bridge.TableOrders).Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, spy.statements(dedicatedURL, "SELECT * FROM orders"), 1)
}

func TestStoreProfilesPinnedToMain(t *testing.T) {
	spy := &spyExecutor{}
	root := newSpyClient(spy)
	dedicated := bridge.Endpoint{URL: dedicatedURL, Token: "store-token"}

	bound := root.WithStore(dedicated)
	assert.Equal(t, mainURL, bound.Target(bridge.TableStoreProfiles).URL)
	assert.Equal(t, dedicatedURL, bound.Target(bridge.TableProducts).URL)
	assert.Equal(t, mainURL, root.WithStore(bridge.Endpoint{}).Target(bridge.TableProducts).URL)

	_, err := bound.From(bridge.TableStoreProfiles).Eq("slug", "loja").Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, spy.statements(mainURL, "SELECT * FROM store_profiles"), 1)
	assert.Empty(t, spy.statements(dedicatedURL, "SELECT * FROM store_profiles"))

	root.ConnectToStore(dedicatedURL, "store-token")
	assert.Equal(t, mainURL, root.Target(bridge.TableStoreProfiles).URL)
	assert.Equal(t, dedicatedURL, root.Target(bridge.TableOrders).URL)
	assert.Equal(t, mainURL, root.WithMain().Target(bridge.TableOrders).URL)

	root.DisconnectStore()
	assert.Equal(t, mainURL, root.Target(bridge.TableOrders).URL)
}

func TestUpsertBranches(t *testing.T) {
	existing := map[string]bool{"p-existing": true}
	spy := &spyExecutor{}
	client := bridge.New(bridge.Options{
		Main: bridge.Endpoint{URL: mainURL},
		Executor: executorFunc(func(ctx context.Context, endpoint bridge.Endpoint, statements []bridge.Statement) ([]bridge.ResultSet, error) {
			results, err := spy.Execute(ctx, endpoint, statements)
			if err != nil {
				return nil, err
			}
			st := statements[0]
			if strings.HasPrefix(st.SQL, "SELECT * FROM products WHERE id = ?") && existing[st.Params[0].(string)] {
				results[0] = bridge.ResultSet{Columns: []string{"id", "name"}, Rows: [][]any{{st.Params[0], "Old"}}}
			}
			return results, nil
		}),
	})

	_, err := client.From(bridge.TableProducts).Upsert(context.Background(),
		bridge.Row{"name": "New without id"},
		bridge.Row{"id": "p-missing", "name": "New with id"},
		bridge.Row{"id": "p-existing", "name": "Renamed", "isActive": true},
	)
	require.NoError(t, err)

	inserts := spy.statements(mainURL, "INSERT INTO products")
	require.Len(t, inserts, 2)
	updates := spy.statements(mainURL, "UPDATE products")
	require.Len(t, updates, 1)
	assert.Equal(t, "UPDATE products SET isActive = ?, name = ? WHERE id = ? RETURNING *", updates[0])
	assert.Len(t, spy.statements(mainURL, "SELECT * FROM products WHERE id = ?"), 2)
}

type executorFunc func(ctx context.Context, endpoint bridge.Endpoint, statements []bridge.Statement) ([]bridge.ResultSet, error)

func (f executorFunc) Execute(ctx context.Context, endpoint bridge.Endpoint, statements []bridge.Statement) ([]bridge.ResultSet, error) {
	return f(ctx, endpoint, statements)
}

// tableInfoExecutor answers PRAGMA table_info with the columns in present
// and records every ALTER TABLE it receives.
func tableInfoExecutor(present map[string][]string, alters *[]string) executorFunc {
	var mu sync.Mutex
	return func(ctx context.Context, endpoint bridge.Endpoint, statements []bridge.Statement) ([]bridge.ResultSet, error) {
		results := make([]bridge.ResultSet, len(statements))
		for i, st := range statements {
			if table, ok := strings.CutPrefix(st.SQL, "PRAGMA table_info("); ok {
				table = strings.TrimSuffix(table, ")")
				results[i].Columns = []string{"cid", "name", "type"}
				for n, column := range present[table] {
					results[i].Rows = append(results[i].Rows, []any{int64(n), column, "TEXT"})
				}
			}
			if strings.HasPrefix(st.SQL, "ALTER TABLE") {
				mu.Lock()
				*alters = append(*alters, st.SQL)
				mu.Unlock()
			}
		}
		return results, nil
	}
}

func TestMigrationsSkipExistingColumns(t *testing.T) {
	allColumns := map[string][]string{}
	for _, m := range bridge.Migrations {
		allColumns[m.Table] = append(allColumns[m.Table], m.Column)
	}
	withoutIsSynced := map[string][]string{}
	for table, columns := range allColumns {
		for _, column := range columns {
			if table == bridge.TableOrders && column == "isSynced" {
				continue
			}
			withoutIsSynced[table] = append(withoutIsSynced[table], column)
		}
	}

	tests := []struct {
		name       string
		present    map[string][]string
		wantAlters []string
	}{
		{
			name:       "every column present",
			present:    allColumns,
			wantAlters: nil,
		},
		{
			name:       "one column missing",
			present:    withoutIsSynced,
			wantAlters: []string{"ALTER TABLE orders ADD COLUMN isSynced INTEGER DEFAULT 0"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var alters []string
			client := bridge.New(bridge.Options{
				Main:     bridge.Endpoint{URL: mainURL, Token: "main-token"},
				Executor: tableInfoExecutor(tt.present, &alters),
				Logger:   zap.NewNop(),
			})

			require.NoError(t, client.EnsureSchema(context.Background(), client.Main()))
			assert.Equal(t, tt.wantAlters, alters)
		})
	}
}
