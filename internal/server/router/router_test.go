package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeExtractHandler struct {
	called bool
	ready  bool
}

func (f *fakeExtractHandler) HandleExtract(c *gin.Context) {
	f.called = true
	c.Status(http.StatusAccepted)
}

func (f *fakeExtractHandler) HandleReady(c *gin.Context) {
	if f.ready {
		c.Status(http.StatusOK)
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

func TestNew_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := New("", &fakeExtractHandler{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if body := w.Body.String(); body != "ok" {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestNew_Readyz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Probes are not behind the API key.
	router := New("secret", &fakeExtractHandler{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", w.Code)
	}
}

func TestNew_ExtractHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fakeHandler := &fakeExtractHandler{}
	router := New("", fakeHandler, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", nil)
	router.ServeHTTP(w, req)

	if !fakeHandler.called {
		t.Fatal("expected extract handler to be invoked")
	}
	if w.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

func TestNew_WithAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fakeHandler := &fakeExtractHandler{}
	router := New("secret-key", fakeHandler, nil)

	// Test without API key - should fail
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if fakeHandler.called {
		t.Fatal("handler should not be called without API key")
	}

	// Test with correct API key - should succeed
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/extract", nil)
	req.Header.Set("x-api-key", "secret-key")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 got %d", w.Code)
	}
	if !fakeHandler.called {
		t.Fatal("expected handler to be called with valid API key")
	}
}
