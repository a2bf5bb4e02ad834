package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExactRoute(t *testing.T) {
	r := New(zap.NewNop())
	r.GET("/api/v1/views/overview", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/views/overview", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestWildcardRoute(t *testing.T) {
	r := New(zap.NewNop())
	r.GET("/swagger/*", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/swagger/index.html", "/swagger/doc.json", "/swagger/a/b"} {
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestNotFound(t *testing.T) {
	r := New(zap.NewNop())
	r.GET("/known", func(w http.ResponseWriter, req *http.Request) {})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	r := New(zap.NewNop())
	r.GET("/known", func(w http.ResponseWriter, req *http.Request) {})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/known", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMatchWildcardRoute(t *testing.T) {
	assert.True(t, matchWildcardRoute("/api/v1/views/overview", "/api/v1/views/*"))
	assert.True(t, matchWildcardRoute("/swagger/a/b/c", "/swagger/*"))
	assert.False(t, matchWildcardRoute("/api/v2/views/overview", "/api/v1/views/*"))
	assert.False(t, matchWildcardRoute("/api", "/api/v1/*"))
}
