package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/db"
	"pdv-backend/internal/filter"
	"pdv-backend/internal/models"
	"pdv-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, activity_id, date, telephone, nom_client, point_vente,
	montant_commande, type_client, comment_connu, commentaire_client,
	note_qualite_produits, note_niveau_prix, note_service_commercial, note_globale,
	created_by, created_at`

type CustomerRepository struct {
	DB db.DBTX
}

func NewCustomerRepository(conn db.DBTX) *CustomerRepository {
	return &CustomerRepository{DB: conn}
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	var date time.Time
	err := row.Scan(&c.ID, &c.ActivityID, &date, &c.Telephone, &c.NomClient, &c.PointVente,
		&c.MontantCommande, &c.TypeClient, &c.CommentConnu, &c.CommentaireClient,
		&c.NoteQualiteProduits, &c.NoteNiveauPrix, &c.NoteServiceCommercial, &c.NoteGlobale,
		&c.CreatedBy, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Date = timeutil.FormatDate(date)
	return &c, nil
}

func customerNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Client non trouvé")
	}
	return nil
}

// customerFilter builds the shared WHERE clause. Placeholders follow the field order
// below, whichever subset is set.
func customerFilter(f models.CustomerFilter) *filter.Builder {
	return filter.New().
		EqInt("activity_id", f.ActivityID).
		Eq("date", f.Date).
		Gte("date", f.DateDebut).
		Lte("date", f.DateFin).
		Eq("point_vente", f.PointVente).
		ILike("telephone", f.Telephone).
		ILike("nom_client", f.NomClient).
		Eq("type_client", f.TypeClient)
}

func (r *CustomerRepository) queryCustomers(ctx context.Context, query string, args ...any) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// List returns customers matching f, most recently created first.
func (r *CustomerRepository) List(ctx context.Context, f models.CustomerFilter) ([]*models.Customer, error) {
	b := customerFilter(f)
	query := fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY created_at DESC`, customerColumns, b.Where())

	customers, err := r.queryCustomers(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des clients: %w", err)
	}
	return customers, nil
}

// ListPage returns one page of customers matching f, ordered by date then creation, and
// the total number of matches. Both queries share the same WHERE clause.
func (r *CustomerRepository) ListPage(ctx context.Context, f models.CustomerFilter, page filter.Page) ([]*models.Customer, int, error) {
	b := customerFilter(f)

	var total int
	err := r.DB.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM customers %s`, b.Where()), b.Args()...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors de la récupération des clients: %w", err)
	}

	limit, args := b.Paginate(page)
	query := fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY date DESC, created_at DESC %s`,
		customerColumns, b.Where(), limit)

	customers, err := r.queryCustomers(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors de la récupération des clients: %w", err)
	}
	return customers, total, nil
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM customers WHERE id = $1`, customerColumns), id)

	c, err := scanCustomer(row)
	if nf := customerNotFound(err); nf != nil {
		return nil, nf
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération du client: %w", err)
	}
	return c, nil
}

// Create inserts c and returns the stored row, including the computed note_globale.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO customers (activity_id, date, telephone, nom_client, point_vente,
		 montant_commande, type_client, comment_connu, commentaire_client,
		 note_qualite_produits, note_niveau_prix, note_service_commercial, created_by)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
         RETURNING %s`, customerColumns),
		c.ActivityID, c.Date, c.Telephone, c.NomClient, c.PointVente,
		c.MontantCommande, c.TypeClient, c.CommentConnu, c.CommentaireClient,
		c.NoteQualiteProduits, c.NoteNiveauPrix, c.NoteServiceCommercial, c.CreatedBy)

	created, err := scanCustomer(row)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création du client: %w", err)
	}
	return created, nil
}

// Update overwrites the editable fields of customer id and returns the stored row.
// The activity link is set at creation and never changed here.
func (r *CustomerRepository) Update(ctx context.Context, id int, c *models.Customer) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		fmt.Sprintf(`UPDATE customers
		 SET date = $1, telephone = $2, nom_client = $3, point_vente = $4,
		     montant_commande = $5, type_client = $6, comment_connu = $7, commentaire_client = $8,
		     note_qualite_produits = $9, note_niveau_prix = $10, note_service_commercial = $11
		 WHERE id = $12
		 RETURNING %s`, customerColumns),
		c.Date, c.Telephone, c.NomClient, c.PointVente,
		c.MontantCommande, c.TypeClient, c.CommentConnu, c.CommentaireClient,
		c.NoteQualiteProduits, c.NoteNiveauPrix, c.NoteServiceCommercial, id)

	updated, err := scanCustomer(row)
	if nf := customerNotFound(err); nf != nil {
		return nil, nf
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la mise à jour du client: %w", err)
	}
	return updated, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression du client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Client non trouvé")
	}
	return nil
}

// CheckPhone counts the orders of an exact telephone and returns the earliest known
// acquisition channel (comment_connu), if any.
func (r *CustomerRepository) CheckPhone(ctx context.Context, telephone string) (*models.PhoneCheck, error) {
	result := &models.PhoneCheck{}

	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM customers WHERE telephone = $1`, telephone,
	).Scan(&result.Count)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la vérification du téléphone: %w", err)
	}
	result.Exists = result.Count > 0
	if !result.Exists {
		return result, nil
	}

	var comment string
	err = r.DB.QueryRow(ctx,
		`SELECT comment_connu FROM customers
         WHERE telephone = $1 AND comment_connu IS NOT NULL
         ORDER BY created_at ASC LIMIT 1`, telephone,
	).Scan(&comment)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("erreur lors de la vérification du téléphone: %w", err)
	default:
		result.CommentConnu = &comment
	}
	return result, nil
}

// Stats aggregates the customers matching f in a single query.
func (r *CustomerRepository) Stats(ctx context.Context, f models.CustomerFilter) (*models.CustomerStats, error) {
	b := customerFilter(f)
	query := fmt.Sprintf(`SELECT
		COUNT(*),
		COALESCE(SUM(montant_commande), 0),
		COUNT(CASE WHEN type_client = 'Nouveau' THEN 1 END),
		COUNT(CASE WHEN type_client = 'Récurrent' THEN 1 END),
		ROUND(AVG(note_globale)::numeric, 1)::float8,
		ROUND(AVG(note_qualite_produits)::numeric, 1)::float8,
		ROUND(AVG(note_niveau_prix)::numeric, 1)::float8,
		ROUND(AVG(note_service_commercial)::numeric, 1)::float8
		FROM customers %s`, b.Where())

	var s models.CustomerStats
	err := r.DB.QueryRow(ctx, query, b.Args()...).Scan(
		&s.TotalClients, &s.MontantTotal, &s.NouveauxClients, &s.ClientsRecurrents,
		&s.NoteMoyenne, &s.NoteQualiteMoyenne, &s.NotePrixMoyenne, &s.NoteServiceMoyenne)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des statistiques: %w", err)
	}

	if s.TotalClients > 0 {
		s.TauxNouveaux = percent(s.NouveauxClients, s.TotalClients)
		s.TauxRecurrents = percent(s.ClientsRecurrents, s.TotalClients)
	}
	return &s, nil
}

func percent(part, total int) int {
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// LatestClientComments returns the non-empty customer comments of the most recent date
// on which pointVente received any, or nil when it never did.
func (r *CustomerRepository) LatestClientComments(ctx context.Context, pointVente string) (*models.ClientComments, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT date, commentaire_client FROM customers
         WHERE point_vente = $1
           AND commentaire_client IS NOT NULL AND TRIM(commentaire_client) <> ''
           AND date = (
               SELECT MAX(date) FROM customers
               WHERE point_vente = $1
                 AND commentaire_client IS NOT NULL AND TRIM(commentaire_client) <> ''
           )
         ORDER BY created_at ASC`, pointVente)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des commentaires clients: %w", err)
	}
	defer rows.Close()

	var result *models.ClientComments
	for rows.Next() {
		var date time.Time
		var comment string
		if err := rows.Scan(&date, &comment); err != nil {
			return nil, fmt.Errorf("erreur lors de la récupération des commentaires clients: %w", err)
		}
		if result == nil {
			result = &models.ClientComments{LatestDate: timeutil.FormatDate(date)}
		}
		result.Comments = append(result.Comments, strings.TrimSpace(comment))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des commentaires clients: %w", err)
	}
	return result, nil
}
