// Package apitest assembles the full API on top of an in-memory local SQL
// endpoint for HTTP-level tests.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/cache"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/config"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/controllers"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/middleware"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/models"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/router"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/tests/testutil"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Super-admin tokens accepted by the fake validator
const (
	AdminToken  = "admin-token"
	ReaderToken = "reader-token"
)

// App is a running API with its collaborators exposed for assertions
type App struct {
	Router     *gin.Engine
	Controller *controllers.Controller
	DB         *bridge.Client
	Cache      *cache.MemoryStore
	S3         *services.MockS3Service
}

// Envelope is the response body of every JSON endpoint
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

// New builds the API against a fresh main database. Admin routes accept
// AdminToken; ReaderToken lacks the admin scope.
func New(t testing.TB) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestBridge(t)
	store := cache.NewMemoryStore()
	s3 := services.NewMockS3Service()
	logger := zap.NewNop()
	sessions := services.NewSessionService("test-secret", time.Hour, store)

	ctl := &controllers.Controller{
		DB:       db,
		Stores:   services.NewStoreService(db, store, time.Minute, logger),
		Sessions: sessions,
		Staff:    services.NewStaffService(sessions, logger),
		Menu:     services.NewMenuService(store, time.Minute, logger),
		Orders:   services.NewOrderService(store, time.Minute, logger),
		Register: services.NewRegisterService(logger),
		Archive:  services.NewBackupArchiveService(s3, logger),
		Logger:   logger,
	}

	cfg := &config.Config{GoEnv: "test"}
	adminAuth := middleware.CheckJWT(fakeValidator, logger)

	return &App{
		Router:     router.New(cfg, ctl, adminAuth, logger),
		Controller: ctl,
		DB:         db,
		Cache:      store,
		S3:         s3,
	}
}

func fakeValidator(ctx context.Context, token string) (interface{}, error) {
	scope := ""
	switch token {
	case AdminToken:
		scope = middleware.AdminScope
	case ReaderToken:
		scope = "read:stores"
	default:
		return nil, errors.New("unknown token")
	}
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|admin"},
		CustomClaims:     &middleware.CustomClaims{Scope: scope},
	}, nil
}

// CreateStore registers a store with a manager account
func (a *App) CreateStore(t testing.TB, in services.CreateStoreInput) *models.StoreProfile {
	t.Helper()
	if in.Name == "" {
		in.Name = "Loja " + in.Slug
	}
	profile, err := a.Controller.Stores.Create(context.Background(), in)
	require.NoError(t, err)
	return profile
}

// CreateStaff adds a staff member to the store with the given slug
func (a *App) CreateStaff(t testing.TB, slug, name, password string, role models.StaffRole) *models.Waitstaff {
	t.Helper()
	tenant, err := a.Controller.Stores.Resolve(context.Background(), slug)
	require.NoError(t, err)
	member, err := a.Controller.Staff.Create(context.Background(), tenant, name, password, role)
	require.NoError(t, err)
	return member
}

// Login signs in through the API and returns the session token
func (a *App) Login(t testing.TB, slug, name, password string) string {
	t.Helper()
	w := a.Do(t, http.MethodPost, "/api/v1/stores/"+slug+"/login", "", map[string]string{
		"name":     name,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var session struct {
		Token string `json:"token"`
	}
	Data(t, w, &session)
	require.NotEmpty(t, session.Token)
	return session.Token
}

// Do sends a JSON request. body is marshalled unless it is nil.
func (a *App) Do(t testing.TB, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

// Upload sends a multipart form with one file field and extra fields
func (a *App) Upload(t testing.TB, path, token, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

// Decode parses the response envelope
func Decode(t testing.TB, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// Data decodes the data field of a successful response into out
func Data(t testing.TB, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := Decode(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// ErrorCode returns the error code of a failed response
func ErrorCode(t testing.TB, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := Decode(t, w)
	require.False(t, env.Success, w.Body.String())
	return env.Error.Code
}
