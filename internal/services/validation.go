package services

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/models"
	"pdv-backend/internal/timeutil"
)

const (
	msgActivityRequired = "Les champs date, point_vente et responsable sont requis"
	msgNoteVentes       = "La note doit être entre 1 et 10 (virgule ou point accepté, ex: 8,5 ou 8.5)"
	msgCustomerRequired = "Les champs date, téléphone, nom, point de vente, montant et type client sont requis"
	msgTypeClient       = `Le type client doit être "Nouveau" ou "Récurrent"`
	msgMontant          = "Le montant de la commande doit être un entier positif"
	msgDate             = "La date doit être au format YYYY-MM-DD"
)

var noteVentesRe = regexp.MustCompile(`^([1-9]|10)([,.][0-9]+)?$`)

var errNotFinite = errors.New("not a finite number")

// parseDecimal reads "8,5" or "8.5". NaN and infinities are rejected.
func parseDecimal(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// parseInt32 reads a value that must fit a postgres INTEGER column.
func parseInt32(raw string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	return int(v), err
}

// parseNoteVentes validates the optional sales grade. Absent means null.
func parseNoteVentes(raw models.NumberInput) (*float64, error) {
	if raw.IsZero() {
		return nil, nil
	}
	s := string(raw)
	if !noteVentesRe.MatchString(s) {
		return nil, apperr.Validation("note_ventes", msgNoteVentes)
	}
	v, err := parseDecimal(s)
	if err != nil || v < 1 || v > 10 {
		return nil, apperr.Validation("note_ventes", msgNoteVentes)
	}
	return &v, nil
}

// parseScore validates an optional customer sub-score in [0, 10]. Absent means null;
// an explicit 0 is kept.
func parseScore(field string, raw models.NumberInput) (*float64, error) {
	if raw.IsZero() {
		return nil, nil
	}
	v, err := parseDecimal(string(raw))
	if err != nil || v < 0 || v > 10 {
		return nil, apperr.Validation(field, "La note "+field+" doit être entre 0 et 10")
	}
	return &v, nil
}

func parseMontant(raw models.NumberInput) (int, error) {
	v, err := parseInt32(string(raw))
	if err != nil || v <= 0 {
		return 0, apperr.Validation("montant_commande", msgMontant)
	}
	return v, nil
}

// parseOptionalID reads an optional positive reference such as activity_id.
func parseOptionalID(field string, raw models.NumberInput) (*int, error) {
	if raw.IsZero() {
		return nil, nil
	}
	v, err := parseInt32(string(raw))
	if err != nil || v <= 0 {
		return nil, apperr.Validation(field, field+" invalide")
	}
	return &v, nil
}

func validateDate(field, value string) error {
	if !timeutil.IsDate(value) {
		return apperr.Validation(field, msgDate)
	}
	return nil
}

// validateRange checks optional dateDebut/dateFin filters.
func validateRange(from, to string) error {
	if from != "" {
		if err := validateDate("dateDebut", from); err != nil {
			return err
		}
	}
	if to != "" {
		if err := validateDate("dateFin", to); err != nil {
			return err
		}
	}
	return nil
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
