package middlewares

import (
	"errors"
	"io"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret"

func newTestMiddlewares() *Middlewares {
	return NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		App: config.App{RequestBodyLimitInKilobyte: 1},
		JWT: config.AppJWT{Secret: testSecret},
	})
}

func TestAuthenticate(t *testing.T) {
	middlewares := newTestMiddlewares()

	var captured *models.Session
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = r.Context().Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Valid token", func(t *testing.T) {
		token, err := utils.GenerateAccessJWT("patient-1", constvars.RolePatient, testSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, constvars.BearerPrefix+token)
		rr := httptest.NewRecorder()

		middlewares.Authenticate(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "patient-1", captured.UserID)
		assert.Equal(t, constvars.RolePatient, captured.Role)
	})

	t.Run("Missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
		rr := httptest.NewRecorder()

		middlewares.Authenticate(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		token, err := utils.GenerateAccessJWT("patient-1", constvars.RolePatient, "other-secret", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, constvars.BearerPrefix+token)
		rr := httptest.NewRecorder()

		middlewares.Authenticate(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		token, err := utils.GenerateAccessJWT("patient-1", constvars.RolePatient, testSecret, -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, constvars.BearerPrefix+token)
		rr := httptest.NewRecorder()

		middlewares.Authenticate(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	middlewares := newTestMiddlewares()
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	token, err := utils.GenerateAccessJWT("doctor-user", constvars.RoleDoctor, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		roles []string
		want  int
	}{
		{name: "Allowed role", roles: []string{constvars.RoleAdmin, constvars.RoleDoctor}, want: http.StatusOK},
		{name: "Forbidden role", roles: []string{constvars.RoleAdmin}, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/doctors", nil)
			req.Header.Set(constvars.HeaderAuthorization, constvars.BearerPrefix+token)
			rr := httptest.NewRecorder()

			middlewares.Authenticate(middlewares.RequireRoles(tt.roles...)(okHandler)).ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	middlewares := newTestMiddlewares()

	var requestID string
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	})

	t.Run("Generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		middlewares.RequestIDMiddleware(testHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, strings.HasPrefix(requestID, constvars.REQUEST_ID_PREFIX))
		assert.Equal(t, requestID, rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Client supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")
		rr := httptest.NewRecorder()
		middlewares.RequestIDMiddleware(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, "client-id", requestID)
	})
}

func TestErrorHandler(t *testing.T) {
	middlewares := newTestMiddlewares()
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		middlewares.ErrorHandler(panicking).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestBodyLimit(t *testing.T) {
	readBody := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var maxBytesErr *http.MaxBytesError
		if _, err := io.ReadAll(r.Body); errors.As(err, &maxBytesErr) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name    string
		limitKB int
		size    int
		want    int
	}{
		{"body under the limit", 1, 512, http.StatusOK},
		{"body at the limit", 1, 1024, http.StatusOK},
		{"body over the limit", 1, 1025, http.StatusRequestEntityTooLarge},
		{"zero limit disables the cap", 0, 4096, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middlewares := NewMiddlewares(zap.NewNop(), &config.InternalConfig{App: config.App{RequestBodyLimitInKilobyte: tt.limitKB}})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(strings.Repeat("a", tt.size)))
			rr := httptest.NewRecorder()

			middlewares.BodyLimit(readBody).ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
