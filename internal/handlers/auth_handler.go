package handlers

import (
	"log"
	"net/http"

	"pdv-backend/internal/middleware"
	"pdv-backend/internal/models"
	"pdv-backend/internal/services"
	"pdv-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Erreur serveur lors de la connexion")
		return
	}

	log.Printf("[Auth] User %s logged in from %s", authResp.User.Username, middleware.ClientIP(r))
	utils.JSON(w, http.StatusOK, authResp)
}
