package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// APIKey returns middleware enforcing the static shared secret. Clients send
// the key in the X-API-Key header or, for callers that cannot set headers,
// the api_key query parameter. The comparison is constant-time. Handlers
// behind this middleware never see the key.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get("X-API-Key")
			if supplied == "" {
				supplied = r.URL.Query().Get("api_key")
			}
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized: invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError writes a JSON-encoded error response with the correct Content-Type.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
