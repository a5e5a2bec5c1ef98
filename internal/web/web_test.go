package web

import (
	"net/http"
	"strings"
	"testing"

	"scicalc/internal/testutil"

	"github.com/go-chi/chi/v5"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r)
	return r
}

func TestIndexServesKeypad(t *testing.T) {
	w := testutil.Send(newRouter(), http.MethodGet, "/")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected text/html, got %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{`data-number="7"`, `data-operation="√"`, `id="current-operand"`, `id="previous-operand"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to contain %s", want)
		}
	}
}

func TestStaticAssets(t *testing.T) {
	for _, path := range []string{"/static/calculator.js", "/static/calculator.css"} {
		t.Run(path, func(t *testing.T) {
			w := testutil.Send(newRouter(), http.MethodGet, path)
			testutil.CheckResponseCode(t, http.StatusOK, w.Code)
			if w.Body.Len() == 0 {
				t.Fatal("expected non-empty asset")
			}
		})
	}
}

func TestMissingAsset(t *testing.T) {
	w := testutil.Send(newRouter(), http.MethodGet, "/static/nope.js")
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}
