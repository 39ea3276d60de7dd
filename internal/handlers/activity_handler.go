package handlers

import (
	"net/http"

	"pdv-backend/internal/models"
	"pdv-backend/internal/services"
	"pdv-backend/pkg/utils"
)

type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(s *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: s}
}

func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.ActivityFilter{
		DateDebut:  q.Get("dateDebut"),
		DateFin:    q.Get("dateFin"),
		PointVente: q.Get("pointVente"),
	}

	activities, err := h.Service.List(r.Context(), f)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la récupération des activités")
		return
	}
	utils.JSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) ListPointsVente(w http.ResponseWriter, r *http.Request) {
	values, err := h.Service.PointsVente(r.Context())
	if err != nil {
		writeError(w, err, "Erreur serveur")
		return
	}
	utils.JSON(w, http.StatusOK, values)
}

func (h *ActivityHandler) ListResponsables(w http.ResponseWriter, r *http.Request) {
	values, err := h.Service.Responsables(r.Context())
	if err != nil {
		writeError(w, err, "Erreur serveur")
		return
	}
	utils.JSON(w, http.StatusOK, values)
}

func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	activity, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la récupération de l'activité")
		return
	}
	utils.JSON(w, http.StatusOK, activity)
}

func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req models.ActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	activity, err := h.Service.Create(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la création de l'activité")
		return
	}
	utils.JSON(w, http.StatusCreated, activity)
}

func (h *ActivityHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}
	var req models.ActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	activity, err := h.Service.Update(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la modification de l'activité")
		return
	}
	utils.JSON(w, http.StatusOK, activity)
}

func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	if err := h.Service.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err, "Erreur serveur lors de la suppression de l'activité")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Activité supprimée avec succès"})
}
