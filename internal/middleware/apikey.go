package middleware

import (
	"crypto/subtle"
	"net/http"

	"pdv-backend/pkg/utils"
)

// APIKey guards the partner API with the shared x-api-key header. An empty configured
// key rejects every request.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("x-api-key")
			if provided == "" {
				utils.ExternalError(w, http.StatusUnauthorized,
					"API key manquante. Veuillez fournir un x-api-key dans les headers.")
				return
			}
			if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				utils.ExternalError(w, http.StatusUnauthorized, "API key invalide.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
