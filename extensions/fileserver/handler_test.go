package fileserver

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

const indexBody = "<html>ddsolutions</html>"

func newTestRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":           indexBody,
		"css/styles.css":       "body{}",
		"manifest.webmanifest": "{}",
		"docs/index.html":      "docs",
		"empty/.keep":          "",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func serve(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, target, nil))
	return recorder
}

func assertCors(t *testing.T, header http.Header) {
	t.Helper()
	want := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
	for key, value := range want {
		if got := header.Get(key); got != value {
			t.Errorf("%s = %q, want %q", key, got, value)
		}
	}
}

func TestHandler(t *testing.T) {
	handler := NewHandler(newTestRoot(t))

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "root rewritten to index", method: http.MethodGet, target: "/", wantStatus: http.StatusOK, wantBody: indexBody},
		{name: "index served directly", method: http.MethodGet, target: "/index.html", wantStatus: http.StatusOK, wantBody: indexBody},
		{name: "nested file", method: http.MethodGet, target: "/css/styles.css", wantStatus: http.StatusOK, wantBody: "body{}"},
		{name: "directory index", method: http.MethodGet, target: "/docs/", wantStatus: http.StatusOK, wantBody: "docs"},
		{name: "directory without slash", method: http.MethodGet, target: "/docs", wantStatus: http.StatusMovedPermanently},
		{name: "missing file", method: http.MethodGet, target: "/missing.html", wantStatus: http.StatusNotFound},
		{name: "traversal stays in root", method: http.MethodGet, target: "/../../etc/passwd", wantStatus: http.StatusNotFound},
		{name: "head", method: http.MethodHead, target: "/", wantStatus: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, target: "/index.html", wantStatus: http.StatusNoContent},
		{name: "post rejected", method: http.MethodPost, target: "/index.html", wantStatus: http.StatusMethodNotAllowed},
		{name: "delete rejected", method: http.MethodDelete, target: "/", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := serve(handler, tt.method, tt.target)
			if response.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", response.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && response.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", response.Body.String(), tt.wantBody)
			}
			assertCors(t, response.Header())
		})
	}
}

func TestHandlerRootMatchesIndex(t *testing.T) {
	handler := NewHandler(newTestRoot(t))
	root := serve(handler, http.MethodGet, "/")
	index := serve(handler, http.MethodGet, "/index.html")
	if root.Body.String() != index.Body.String() {
		t.Fatalf("GET / = %q, GET /index.html = %q", root.Body.String(), index.Body.String())
	}
	if root.Header().Get("Content-Type") != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", root.Header().Get("Content-Type"))
	}
}

func TestHandlerMissingIndex(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "other.html"), []byte("other"), 0o644); err != nil {
		t.Fatal(err)
	}
	response := serve(NewHandler(root), http.MethodGet, "/")
	if response.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", response.Code)
	}
	assertCors(t, response.Header())
}

func TestHandlerCustomIndex(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "home.html"), []byte("home"), 0o644); err != nil {
		t.Fatal(err)
	}
	response := serve(NewHandler(root, WithIndex("home.html")), http.MethodGet, "/")
	if response.Code != http.StatusOK || response.Body.String() != "home" {
		t.Fatalf("got %d %q", response.Code, response.Body.String())
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	response := serve(NewHandler(newTestRoot(t)), http.MethodPut, "/index.html")
	if allow := response.Header().Get("Allow"); allow != "GET, HEAD, OPTIONS" {
		t.Errorf("Allow = %q", allow)
	}
}

func TestHandlerManifestType(t *testing.T) {
	response := serve(NewHandler(newTestRoot(t)), http.MethodGet, "/manifest.webmanifest")
	if got := response.Header().Get("Content-Type"); got != "application/manifest+json" {
		t.Errorf("content type = %q", got)
	}
}

func TestCorsWrapsAnyHandler(t *testing.T) {
	handler := Cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	response := serve(handler, http.MethodGet, "/")
	if response.Code != http.StatusTeapot {
		t.Fatalf("status = %d", response.Code)
	}
	assertCors(t, response.Header())
}

func TestStatusRecorderPassesThrough(t *testing.T) {
	response := httptest.NewRecorder()
	recorder := &statusRecorder{ResponseWriter: response}

	var writer http.ResponseWriter = recorder
	if _, ok := writer.(io.ReaderFrom); !ok {
		t.Fatal("recorder hides io.ReaderFrom")
	}
	n, err := writer.(io.ReaderFrom).ReadFrom(strings.NewReader("streamed"))
	if err != nil || n != 8 {
		t.Fatalf("ReadFrom = %d, %v", n, err)
	}
	writer.(http.Flusher).Flush()

	if !response.Flushed {
		t.Error("flush not forwarded")
	}
	if recorder.status != http.StatusOK || recorder.written != 8 {
		t.Errorf("status = %d, written = %d", recorder.status, recorder.written)
	}
	if response.Body.String() != "streamed" {
		t.Errorf("body = %q", response.Body.String())
	}
}

func TestHandlerAccessLog(t *testing.T) {
	var buffer bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buffer)
	logger.SetLevel(logrus.DebugLevel)

	handler := NewHandler(newTestRoot(t), WithLogger(logger.WithField("tag", "test")))
	response := serve(handler, http.MethodGet, "/css/styles.css")
	if response.Body.String() != "body{}" {
		t.Fatalf("body = %q", response.Body.String())
	}
	for _, want := range []string{"GET /css/styles.css 200", "6 B"} {
		if !strings.Contains(buffer.String(), want) {
			t.Errorf("log %q lacks %q", buffer.String(), want)
		}
	}
}
