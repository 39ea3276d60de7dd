package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"pdv-backend/internal/models"
	"pdv-backend/internal/services"
	"pdv-backend/internal/timeutil"
	"pdv-backend/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(s *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

// customerFilter reads every customer filter the listing routes understand. Each route
// simply ignores the parameters it does not document.
func customerFilter(r *http.Request) (models.CustomerFilter, error) {
	q := r.URL.Query()
	activityID, err := queryInt(q, "activity_id")
	if err != nil {
		return models.CustomerFilter{}, err
	}
	return models.CustomerFilter{
		ActivityID: activityID,
		Date:       q.Get("date"),
		DateDebut:  q.Get("dateDebut"),
		DateFin:    q.Get("dateFin"),
		PointVente: q.Get("point_vente"),
		Telephone:  q.Get("telephone"),
		NomClient:  q.Get("nom"),
		TypeClient: q.Get("type_client"),
	}, nil
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	f, err := customerFilter(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	customers, err := h.Service.List(r.Context(), f)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la récupération des clients")
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

// ListAllCustomers returns one page of customers with the stats of the whole selection.
func (h *CustomerHandler) ListAllCustomers(w http.ResponseWriter, r *http.Request) {
	f, err := customerFilter(r)
	if err != nil {
		writeError(w, err, "")
		return
	}
	page, err := queryInt(r.URL.Query(), "page")
	if err != nil {
		writeError(w, err, "")
		return
	}
	pageSize, err := queryInt(r.URL.Query(), "pageSize")
	if err != nil {
		writeError(w, err, "")
		return
	}

	result, err := h.Service.ListAll(r.Context(), f, page, pageSize)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la récupération des clients")
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *CustomerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	f, err := customerFilter(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	stats, err := h.Service.Stats(r.Context(), f)
	if err != nil {
		writeError(w, err, "Erreur serveur lors du calcul des statistiques")
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

func (h *CustomerHandler) CheckPhone(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.CheckPhone(r.Context(), r.URL.Query().Get("telephone"))
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la vérification")
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *CustomerHandler) ExportCustomers(w http.ResponseWriter, r *http.Request) {
	f, err := customerFilter(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	buf, err := h.Service.Export(r.Context(), f)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de l'export des clients")
		return
	}

	filename := fmt.Sprintf("clients_%s.xlsx", timeutil.FormatDate(timeutil.Now()))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	customer, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la récupération du client")
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	customer, err := h.Service.Create(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la création du client")
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}
	var req models.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	customer, err := h.Service.Update(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la modification du client")
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	if err := h.Service.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err, "Erreur serveur lors de la suppression du client")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Client supprimé avec succès"})
}
