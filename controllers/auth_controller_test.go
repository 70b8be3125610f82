package controllers_test

import (
	"net/http"
	"testing"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/tests/apitest"
	"github.com/stretchr/testify/assert"
)

func TestLogin(t *testing.T) {
	f := newStoreFixture(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "valid credentials",
			body:           map[string]string{"name": managerName, "password": managerPassword},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			body:           map[string]string{"name": managerName, "password": "errada"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name:           "unknown name",
			body:           map[string]string{"name": "Fulano", "password": managerPassword},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name:           "missing password",
			body:           map[string]string{"name": managerName},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := f.app.Do(t, http.MethodPost, path("/login"), "", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, apitest.ErrorCode(t, w))
				return
			}
			var session struct {
				Token string `json:"token"`
				User  struct {
					Name    string `json:"name"`
					Role    string `json:"role"`
					StoreID string `json:"store_id"`
				} `json:"user"`
			}
			apitest.Data(t, w, &session)
			assert.NotEmpty(t, session.Token)
			assert.Equal(t, managerName, session.User.Name)
			assert.Equal(t, "GERENTE", session.User.Role)
			assert.Equal(t, f.store.ID, session.User.StoreID)
		})
	}
}

func TestLoginIsScopedToStore(t *testing.T) {
	f := newStoreFixture(t)
	f.app.CreateStore(t, services.CreateStoreInput{Slug: "outra"})

	w := f.app.Do(t, http.MethodPost, "/api/v1/stores/outra/login", "", map[string]string{
		"name":     managerName,
		"password": managerPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.app.Do(t, http.MethodGet, "/api/v1/stores/outra/orders", f.manager, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "WRONG_STORE", apitest.ErrorCode(t, w))
}

func TestLogout(t *testing.T) {
	f := newStoreFixture(t)

	w := f.app.Do(t, http.MethodPost, path("/logout"), f.manager, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.app.Do(t, http.MethodGet, path("/orders"), f.manager, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", apitest.ErrorCode(t, w))
}
