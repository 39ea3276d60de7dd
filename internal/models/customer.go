package models

import "time"

const (
	TypeClientNouveau   = "Nouveau"
	TypeClientRecurrent = "Récurrent"
)

// Customer is one logged order with its feedback. NoteGlobale is computed by the database.
type Customer struct {
	ID                    int       `json:"id"`
	ActivityID            *int      `json:"activity_id"`
	Date                  string    `json:"date"` // YYYY-MM-DD
	Telephone             string    `json:"telephone"`
	NomClient             string    `json:"nom_client"`
	PointVente            string    `json:"point_vente"`
	MontantCommande       int       `json:"montant_commande"`
	TypeClient            string    `json:"type_client"`
	CommentConnu          *string   `json:"comment_connu"`
	CommentaireClient     *string   `json:"commentaire_client"`
	NoteQualiteProduits   *float64  `json:"note_qualite_produits"`
	NoteNiveauPrix        *float64  `json:"note_niveau_prix"`
	NoteServiceCommercial *float64  `json:"note_service_commercial"`
	NoteGlobale           *float64  `json:"note_globale"`
	CreatedBy             *int      `json:"created_by"`
	CreatedAt             time.Time `json:"created_at"`
}

// CustomerRequest is the body of POST and PUT /api/customers.
type CustomerRequest struct {
	ActivityID            NumberInput `json:"activity_id"`
	Date                  string      `json:"date"`
	Telephone             string      `json:"telephone"`
	NomClient             string      `json:"nom_client"`
	PointVente            string      `json:"point_vente"`
	MontantCommande       NumberInput `json:"montant_commande"`
	TypeClient            string      `json:"type_client"`
	CommentConnu          string      `json:"comment_connu"`
	CommentaireClient     string      `json:"commentaire_client"`
	NoteQualiteProduits   NumberInput `json:"note_qualite_produits"`
	NoteNiveauPrix        NumberInput `json:"note_niveau_prix"`
	NoteServiceCommercial NumberInput `json:"note_service_commercial"`
}

// CustomerFilter holds the optional listing and stats filters. Empty fields are ignored.
type CustomerFilter struct {
	ActivityID int
	Date       string
	DateDebut  string
	DateFin    string
	PointVente string
	Telephone  string // substring, case-insensitive
	NomClient  string // substring, case-insensitive
	TypeClient string
}

// CustomerStats is the aggregate over a filtered set of customers.
type CustomerStats struct {
	TotalClients       int      `json:"total_clients"`
	MontantTotal       int64    `json:"montant_total"`
	NouveauxClients    int      `json:"nouveaux_clients"`
	ClientsRecurrents  int      `json:"clients_recurrents"`
	TauxNouveaux       int      `json:"taux_nouveaux"`
	TauxRecurrents     int      `json:"taux_recurrents"`
	NoteMoyenne        *float64 `json:"note_moyenne"`
	NoteQualiteMoyenne *float64 `json:"note_qualite_moyenne"`
	NotePrixMoyenne    *float64 `json:"note_prix_moyenne"`
	NoteServiceMoyenne *float64 `json:"note_service_moyenne"`
}

// PhoneCheck tells whether a telephone already has orders, for Nouveau/Récurrent pre-fill.
type PhoneCheck struct {
	Exists       bool    `json:"exists"`
	Count        int     `json:"count"`
	CommentConnu *string `json:"comment_connu"`
}

// CustomerPage is the paginated all-customers listing.
type CustomerPage struct {
	Customers   []*Customer    `json:"customers"`
	TotalCount  int            `json:"totalCount"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	PageSize    int            `json:"pageSize"`
	Stats       *CustomerStats `json:"stats"`
}

// ClientComments are the customer comments of the latest day an outlet received some.
type ClientComments struct {
	LatestDate string
	Comments   []string
}
