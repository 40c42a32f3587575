package fileserver

import "net/http"

const (
	AllowOrigin  = "*"
	AllowMethods = "GET, POST, OPTIONS"
	AllowHeaders = "Content-Type"
)

// Cors sets the cross-origin header set on every response before next writes
// anything, so error statuses carry it too.
func Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", AllowOrigin)
		header.Set("Access-Control-Allow-Methods", AllowMethods)
		header.Set("Access-Control-Allow-Headers", AllowHeaders)
		next.ServeHTTP(w, r)
	})
}
