package models

import "time"

// Activity is the daily report submitted for one outlet (point de vente).
type Activity struct {
	ID                  int       `json:"id"`
	Date                string    `json:"date"` // YYYY-MM-DD
	PointVente          string    `json:"point_vente"`
	Responsable         string    `json:"responsable"`
	NoteVentes          *float64  `json:"note_ventes"`
	PlaintesClient      string    `json:"plaintes_client"`
	ProduitsManquants   string    `json:"produits_manquants"`
	CommentaireLivreurs string    `json:"commentaire_livreurs"`
	Commentaire         string    `json:"commentaire"`
	CreatedBy           *int      `json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
}

// OwnerID returns the creator id, 0 when unknown.
func (a *Activity) OwnerID() int {
	if a.CreatedBy == nil {
		return 0
	}
	return *a.CreatedBy
}

// ActivityRequest is the body of POST and PUT /api/activities.
type ActivityRequest struct {
	Date                string      `json:"date"`
	PointVente          string      `json:"point_vente"`
	Responsable         string      `json:"responsable"`
	NoteVentes          NumberInput `json:"note_ventes"`
	PlaintesClient      string      `json:"plaintes_client"`
	ProduitsManquants   string      `json:"produits_manquants"`
	CommentaireLivreurs string      `json:"commentaire_livreurs"`
	Commentaire         string      `json:"commentaire"`
}

// ActivityFilter holds the optional listing filters. Empty fields are ignored.
type ActivityFilter struct {
	DateDebut  string
	DateFin    string
	PointVente string
}
