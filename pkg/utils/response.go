package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// Error writes the internal API error shape {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// ExternalError writes the partner API error shape {"success": false, "error": message}.
func ExternalError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]interface{}{"success": false, "error": message})
}

// ExternalErrorDetails is ExternalError with the underlying failure attached.
func ExternalErrorDetails(w http.ResponseWriter, status int, message, details string) {
	JSON(w, status, map[string]interface{}{"success": false, "error": message, "details": details})
}
