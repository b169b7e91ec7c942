package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/bookshelf-backend/api/models"
	"github.com/Annany2002/bookshelf-backend/config"
	"github.com/Annany2002/bookshelf-backend/internal/auth"
	"github.com/Annany2002/bookshelf-backend/internal/storage"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.ConnectDB(context.Background(), &config.Config{DatabasePath: filepath.Join(t.TempDir(), "mw.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing credentials", auth.ErrMissingCredentials, http.StatusUnauthorized},
		{"malformed wrapped", fmt.Errorf("%w: nope", auth.ErrTokenMalformed), http.StatusUnauthorized},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden},
		{"admin secret", auth.ErrAdminSecretInvalid, http.StatusForbidden},
		{"empty body", models.ErrEmptyBody, http.StatusUnprocessableEntity},
		{"syntax", &json.SyntaxError{}, http.StatusUnprocessableEntity},
		{"storage", fmt.Errorf("database error listing books: %w", errors.New("disk I/O error")), http.StatusInternalServerError},
		{"unconverted lookup miss", storage.ErrAPIKeyNotFound, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, detail := classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, detail)
		})
	}
}

func TestErrorHandlerWritesLastError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandler())
	engine.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("first"))
		_ = c.Error(auth.ErrForbidden)
	})
	engine.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid API Key"}`, w.Body.String())

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fine", w.Body.String())
}

func TestSessionReleasesConnection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)

	engine := gin.New()
	engine.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	engine.Use(Session(db))
	engine.GET("/ok", func(c *gin.Context) {
		assert.Equal(t, 1, db.Stats().InUse)
		assert.NotNil(t, GetSession(c))
		c.Status(http.StatusNoContent)
	})
	engine.GET("/abort", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTeapot)
	})
	engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	for path, want := range map[string]int{"/ok": http.StatusNoContent, "/abort": http.StatusTeapot, "/panic": http.StatusInternalServerError} {
		w := serve(engine, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
		assert.Equal(t, 0, db.Stats().InUse, "connection must be released after %s", path)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	_, err := storage.CreateAPIKey(context.Background(), db, "good-key")
	require.NoError(t, err)

	reached := false
	engine := gin.New()
	engine.Use(ErrorHandler(), Session(db), APIKeyAuth())
	engine.GET("/", func(c *gin.Context) {
		reached = true
		assert.Equal(t, "good-key", c.GetString(APIKeyContextKey))
		c.Status(http.StatusOK)
	})

	testCases := []struct {
		header      string
		status      int
		wantReached bool
	}{
		{"Bearer good-key", http.StatusOK, true},
		{"Bearer bad-key", http.StatusForbidden, false},
		{"good-key", http.StatusUnauthorized, false},
		{"", http.StatusUnauthorized, false},
	}

	for _, tc := range testCases {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := serve(engine, req)
		assert.Equal(t, tc.status, w.Code, "header %q", tc.header)
		assert.Equal(t, tc.wantReached, reached, "header %q", tc.header)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"), "third request in window")
	assert.True(t, rl.Allow("5.6.7.8"), "limits are per IP")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "window slid past the old requests")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RateLimitMiddleware(NewRateLimiter(1, time.Minute)))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, serve(engine, req).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, req).Code)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS([]string{"http://allowed.test"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://allowed.test")
	w := serve(engine, req)
	assert.Equal(t, "http://allowed.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://other.test")
	assert.Equal(t, http.StatusForbidden, serve(engine, req).Code)
}
