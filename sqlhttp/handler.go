package sqlhttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Statement is one entry of a batch request.
type Statement struct {
	Q      string `json:"q"`
	Params []any  `json:"params"`
}

// BatchRequest is the request body.
type BatchRequest struct {
	Statements []Statement `json:"statements"`
}

// Results is the tabular result of one statement.
type Results struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// StatementError is the error object reported for a failed statement.
type StatementError struct {
	Message string `json:"message"`
}

// Entry is one element of the response array.
type Entry struct {
	Results *Results        `json:"results,omitempty"`
	Error   *StatementError `json:"error,omitempty"`
}

// errAborted marks statements after the failing one.
var errAborted = errors.New("not executed: an earlier statement in the batch failed")

// Handler executes batches against one database.
type Handler struct {
	db     *gorm.DB
	token  string
	logger *zap.Logger
}

// NewHandler creates a handler. An empty token disables authentication.
func NewHandler(db *gorm.DB, token string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{db: db, token: strings.TrimSpace(token), logger: logger}
}

// NewRouter mounts the handler at POST /.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/", h.Execute)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// Execute runs every statement of the batch in one transaction. Execution
// stops at the first failure, which rolls the whole batch back.
func (h *Handler) Execute(c *gin.Context) {
	if !h.authorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req BatchRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	entries := make([]Entry, len(req.Statements))
	failed := -1
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		for i, st := range req.Statements {
			res, err := run(tx, st)
			if err != nil {
				failed = i
				entries[i] = Entry{Error: &StatementError{Message: err.Error()}}
				return err
			}
			entries[i] = Entry{Results: res}
		}
		return nil
	})

	if txErr != nil {
		if failed < 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": txErr.Error()})
			return
		}
		h.logger.Debug("batch failed",
			zap.Int("statement", failed),
			zap.String("sql", req.Statements[failed].Q),
			zap.Error(txErr))
		for i := failed + 1; i < len(entries); i++ {
			entries[i] = Entry{Error: &StatementError{Message: errAborted.Error()}}
		}
	}

	c.JSON(http.StatusOK, entries)
}

func (h *Handler) authorized(header string) bool {
	if h.token == "" {
		return true
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	return ok && strings.TrimSpace(token) == h.token
}

func run(tx *gorm.DB, st Statement) (*Results, error) {
	params := make([]any, len(st.Params))
	for i, p := range st.Params {
		params[i] = bindValue(p)
	}

	rows, err := tx.Raw(st.Q, params...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &Results{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, values)
	}
	return res, rows.Err()
}

// bindValue converts decoded JSON parameters to values the driver accepts.
func bindValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	case map[string]any, []any:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		if err := enc.Encode(val); err != nil {
			return fmt.Sprint(val)
		}
		return strings.TrimSpace(buf.String())
	}
	return v
}
