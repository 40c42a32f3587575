package fileserver

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

const allowedMethods = "GET, HEAD, OPTIONS"

func init() {
	// The site ships a web app manifest and service worker.
	_ = mime.AddExtensionType(".webmanifest", "application/manifest+json")
}

type handler struct {
	root   http.FileSystem
	index  string
	files  http.Handler
	logger *logrus.Entry
}

// NewHandler returns the request handler for a document root: the root path
// maps to the index document, regular files are streamed as they are, and
// directories fall through to http.FileServer. Every response carries the
// CORS header set.
func NewHandler(root string, opts ...Option) http.Handler {
	o := newOptions(opts)
	return newHandler(root, &o)
}

func newHandler(root string, o *options) http.Handler {
	dir := http.Dir(root)
	h := &handler{
		root:   dir,
		index:  path.Join("/", o.index),
		files:  http.FileServer(dir),
		logger: o.logger,
	}
	return Cors(h.accessLog(h))
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		w.Header().Set("Allow", allowedMethods)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Path
	if name == "/" {
		name = h.index
	}

	file, err := h.root.Open(name)
	if err != nil {
		serveError(w, r, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		serveError(w, r, err)
		return
	}
	if info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}

func serveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case os.IsNotExist(err):
		http.NotFound(w, r)
	case os.IsPermission(err):
		http.Error(w, "403 Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written uint64
}

func (w *statusRecorder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.written += uint64(n)
	return n, err
}

// ReadFrom keeps the underlying writer's sendfile path reachable for
// http.ServeContent.
func (w *statusRecorder) ReadFrom(r io.Reader) (int64, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := io.Copy(w.ResponseWriter, r)
	w.written += uint64(n)
	return n, err
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (h *handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
			next.ServeHTTP(w, r)
			return
		}
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		if recorder.status == 0 {
			recorder.status = http.StatusOK
		}
		h.logger.Debug(r.RemoteAddr, " ", r.Method, " ", r.URL.Path, " ", recorder.status, " ", humanize.Bytes(recorder.written))
	})
}
