package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/middleware"
	"pdv-backend/internal/policy"
	"pdv-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("body", "Corps de requête invalide")
	}
	return nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, apperr.Validation("id", "Identifiant invalide")
	}
	return id, nil
}

// queryInt reads an optional positive integer query parameter, 0 when absent.
func queryInt(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperr.Validation(key, key+" invalide")
	}
	return n, nil
}

// actorFrom returns the authenticated user. Without one the zero actor is returned,
// which the policy denies.
func actorFrom(r *http.Request) policy.Actor {
	actor, _ := middleware.ActorFromContext(r.Context())
	return actor
}

// writeError maps err to its status. Unclassified errors are logged and answered with
// fallback.
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s: %v", fallback, err)
	}
	utils.Error(w, status, apperr.PublicMessage(err, fallback))
}
