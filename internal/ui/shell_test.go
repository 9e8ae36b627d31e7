package ui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmaceachern/jarvis-api/internal/testutil"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestServeShell(t *testing.T) {
	handler, err := NewShellHandler(testutil.NewTestConfig())
	if err != nil {
		t.Fatalf("NewShellHandler returned error: %v", err)
	}

	r := gin.New()
	r.GET("/", handler.Serve)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "J.A.R.V.I.S.") {
		t.Error("shell page missing title")
	}
	if !strings.Contains(body, "#0a192f") {
		t.Error("shell page missing arc-reactor palette")
	}
	if strings.Contains(body, `id="mic"`) {
		t.Error("mic button should be hidden when audio is disabled")
	}
}

func TestServeShellThemeOverride(t *testing.T) {
	handler, err := NewShellHandler(testutil.NewTestConfig())
	if err != nil {
		t.Fatalf("NewShellHandler returned error: %v", err)
	}

	r := gin.New()
	r.GET("/", handler.Serve)

	req := httptest.NewRequest("GET", "/?theme=mark-ii", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "#ffd166") {
		t.Error("shell page missing mark-ii palette")
	}
}

func TestThemeByNameFallback(t *testing.T) {
	theme := ThemeByName("nonexistent")
	if theme.Name != "arc-reactor" {
		t.Errorf("fallback theme = %q, want arc-reactor", theme.Name)
	}
}
