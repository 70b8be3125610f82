package testutil

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/sqlhttp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TestDBToken is the bearer token accepted by endpoints from NewLocalEndpoint
const TestDBToken = "test-token"

// NewLocalEndpoint starts a SQL-over-HTTP server backed by a fresh
// in-memory SQLite database. It is closed when the test ends.
func NewLocalEndpoint(t testing.TB) bridge.Endpoint {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlhttp.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	server := httptest.NewServer(sqlhttp.NewRouter(sqlhttp.NewHandler(db, TestDBToken, nil)))
	t.Cleanup(server.Close)

	return bridge.Endpoint{URL: server.URL, Token: TestDBToken}
}

// NewTestBridge returns a bridge client whose main database is a fresh
// local endpoint with the schema already in place
func NewTestBridge(t testing.TB) *bridge.Client {
	t.Helper()

	client := bridge.New(bridge.Options{
		Main:    NewLocalEndpoint(t),
		Timeout: 5 * time.Second,
		Logger:  zap.NewNop(),
	})
	if err := client.EnsureSchema(context.Background(), client.Main()); err != nil {
		t.Fatalf("failed to bootstrap test database: %v", err)
	}
	return client
}

// CountingExecutor wraps an executor and counts requests and statements
type CountingExecutor struct {
	Next       bridge.Executor
	Requests   atomic.Int64
	Statements atomic.Int64
}

func (c *CountingExecutor) Execute(ctx context.Context, endpoint bridge.Endpoint, statements []bridge.Statement) ([]bridge.ResultSet, error) {
	c.Requests.Add(1)
	c.Statements.Add(int64(len(statements)))
	return c.Next.Execute(ctx, endpoint, statements)
}
