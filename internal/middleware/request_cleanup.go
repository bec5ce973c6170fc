package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies; plan documents are the largest payloads.
const DefaultMaxBodyBytes = 4 << 20

// DrainAndCloseRequest caps the request body at maxBytes, then drains and
// closes it after the handler returns so the connection can be reused.
func DrainAndCloseRequest(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
