package handlers

import (
	"log"
	"net/http"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/services"
	"pdv-backend/pkg/utils"
)

// ExternalHandler serves the partner API. Its errors use the {success, error} shape.
type ExternalHandler struct {
	Service *services.ExternalService
}

func NewExternalHandler(s *services.ExternalService) *ExternalHandler {
	return &ExternalHandler{Service: s}
}

// PointVenteStatus returns the activities of a period grouped by date with sentiment.
func (h *ExternalHandler) PointVenteStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.Service.Status(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[External] Status failed: %v", err)
		}
		utils.ExternalError(w, status, apperr.PublicMessage(err, "Erreur serveur lors de la récupération des données"))
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

// PointVenteSentiment returns the summary of one day.
func (h *ExternalHandler) PointVenteSentiment(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.Service.DaySentiment(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[External] Day sentiment failed: %v", err)
			utils.ExternalErrorDetails(w, status, "Erreur serveur lors de l'analyse de sentiment", err.Error())
			return
		}
		utils.ExternalError(w, status, apperr.PublicMessage(err, ""))
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
	})
}
