package middleware

import (
	"io"
	"net/http"
)

const DefaultMaxRequestBodyBytes int64 = 1 << 20

// LimitAndDrainRequest caps the request body at maxBodyBytes, then drains
// whatever the handler left unread and closes the body.
// A non-positive maxBodyBytes falls back to DefaultMaxRequestBodyBytes.
func LimitAndDrainRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxRequestBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
			_, _ = io.Copy(io.Discard, r.Body)
			_ = r.Body.Close()
		})
	}
}
