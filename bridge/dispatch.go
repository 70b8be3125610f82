package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Endpoint identifies one remote database.
type Endpoint struct {
	URL   string
	Token string
}

// IsZero reports whether no URL is configured.
func (e Endpoint) IsZero() bool {
	return strings.TrimSpace(e.URL) == ""
}

// NormalizeURL rewrites libsql:// to https://, adds https:// when no scheme
// is given and strips a trailing slash.
func NormalizeURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", ErrMissingURL
	}
	switch {
	case strings.HasPrefix(url, "libsql://"):
		url = "https://" + strings.TrimPrefix(url, "libsql://")
	case !strings.Contains(url, "://"):
		url = "https://" + url
	}
	return strings.TrimSuffix(url, "/"), nil
}

// ResultSet is the tabular result of one statement.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Records zips Columns and Rows into keyed rows.
func (r ResultSet) Records() []Row {
	out := make([]Row, 0, len(r.Rows))
	for _, values := range r.Rows {
		row := make(Row, len(r.Columns))
		for i, col := range r.Columns {
			if i < len(values) {
				row[col] = NormalizeValue(values[i])
			} else {
				row[col] = nil
			}
		}
		out = append(out, row)
	}
	return out
}

// Executor runs a batch of statements against one endpoint. It returns one
// ResultSet per statement or an error, never both.
type Executor interface {
	Execute(ctx context.Context, endpoint Endpoint, statements []Statement) ([]ResultSet, error)
}

// HTTPExecutor speaks the batch SQL-over-HTTP protocol.
type HTTPExecutor struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPExecutor creates an executor whose round-trips give up after timeout.
func NewHTTPExecutor(timeout time.Duration, logger *zap.Logger) *HTTPExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPExecutor{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type batchRequest struct {
	Statements []Statement `json:"statements"`
}

type batchEntry struct {
	Results *ResultSet      `json:"results"`
	Error   json.RawMessage `json:"error"`
}

// Execute posts the statements as one batch.
func (e *HTTPExecutor) Execute(ctx context.Context, endpoint Endpoint, statements []Statement) ([]ResultSet, error) {
	url, err := NormalizeURL(endpoint.URL)
	if err != nil {
		return nil, err
	}

	sanitized := make([]Statement, len(statements))
	for i, st := range statements {
		params := encodeParams(st.Params)
		if params == nil {
			params = []any{}
		}
		sanitized[i] = Statement{SQL: st.SQL, Params: params}
	}
	payload, err := json.Marshal(batchRequest{Statements: sanitized})
	if err != nil {
		return nil, fmt.Errorf("failed to encode statements: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Endpoint: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(endpoint.Token))

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Warn("remote sql request failed", zap.String("endpoint", url), zap.Error(err))
		return nil, &TransportError{Endpoint: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: url, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Warn("remote sql returned non-2xx",
			zap.String("endpoint", url),
			zap.Int("status", resp.StatusCode))
		return nil, &TransportError{Endpoint: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var entries []batchEntry
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&entries); err != nil {
		return nil, &TransportError{Endpoint: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	if len(entries) != len(statements) {
		return nil, &TransportError{
			Endpoint:   url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %d results for %d statements", ErrMalformedResponse, len(entries), len(statements)),
		}
	}

	results := make([]ResultSet, len(entries))
	for i, entry := range entries {
		if msg, failed := entryError(entry.Error); failed {
			return nil, &StatementError{Endpoint: url, Index: i, SQL: statements[i].SQL, Message: msg}
		}
		if entry.Results != nil {
			results[i] = *entry.Results
		}
	}
	return results, nil
}

// entryError reads the per-statement error, which is either a string or an
// object with a message field.
func entryError(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, true
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message, true
	}
	return string(raw), true
}
