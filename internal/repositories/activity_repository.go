package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/db"
	"pdv-backend/internal/filter"
	"pdv-backend/internal/models"
	"pdv-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
)

const activityColumns = `id, date, point_vente, responsable, note_ventes,
	COALESCE(plaintes_client, ''), COALESCE(produits_manquants, ''),
	COALESCE(commentaire_livreurs, ''), COALESCE(commentaire, ''),
	created_by, created_at`

type ActivityRepository struct {
	DB db.DBTX
}

func NewActivityRepository(conn db.DBTX) *ActivityRepository {
	return &ActivityRepository{DB: conn}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	var a models.Activity
	var date time.Time
	err := row.Scan(&a.ID, &date, &a.PointVente, &a.Responsable, &a.NoteVentes,
		&a.PlaintesClient, &a.ProduitsManquants, &a.CommentaireLivreurs, &a.Commentaire,
		&a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Date = timeutil.FormatDate(date)
	return &a, nil
}

func activityNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Activité non trouvée")
	}
	return nil
}

// List returns activities matching f, most recent date first.
func (r *ActivityRepository) List(ctx context.Context, f models.ActivityFilter) ([]*models.Activity, error) {
	b := filter.New().
		Gte("date", f.DateDebut).
		Lte("date", f.DateFin).
		Eq("point_vente", f.PointVente)

	query := fmt.Sprintf(`SELECT %s FROM activities %s ORDER BY date DESC, created_at DESC`,
		activityColumns, b.Where())

	rows, err := r.DB.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des activités: %w", err)
	}
	defer rows.Close()

	activities := []*models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("erreur lors de la récupération des activités: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *ActivityRepository) Get(ctx context.Context, id int) (*models.Activity, error) {
	row := r.DB.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM activities WHERE id = $1`, activityColumns), id)

	a, err := scanActivity(row)
	if nf := activityNotFound(err); nf != nil {
		return nil, nf
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération de l'activité: %w", err)
	}
	return a, nil
}

// Create inserts a and fills its id and created_at.
func (r *ActivityRepository) Create(ctx context.Context, a *models.Activity) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO activities (date, point_vente, responsable, note_ventes, plaintes_client,
		 produits_manquants, commentaire_livreurs, commentaire, created_by)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at`,
		a.Date, a.PointVente, a.Responsable, a.NoteVentes, a.PlaintesClient,
		a.ProduitsManquants, a.CommentaireLivreurs, a.Commentaire, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'activité: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of activity id and returns the stored row.
func (r *ActivityRepository) Update(ctx context.Context, id int, a *models.Activity) (*models.Activity, error) {
	row := r.DB.QueryRow(ctx,
		fmt.Sprintf(`UPDATE activities
		 SET date = $1, point_vente = $2, responsable = $3, note_ventes = $4,
		     plaintes_client = $5, produits_manquants = $6,
		     commentaire_livreurs = $7, commentaire = $8
		 WHERE id = $9
		 RETURNING %s`, activityColumns),
		a.Date, a.PointVente, a.Responsable, a.NoteVentes, a.PlaintesClient,
		a.ProduitsManquants, a.CommentaireLivreurs, a.Commentaire, id)

	updated, err := scanActivity(row)
	if nf := activityNotFound(err); nf != nil {
		return nil, nf
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la mise à jour de l'activité: %w", err)
	}
	return updated, nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'activité: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Activité non trouvée")
	}
	return nil
}

// PointsVente returns the distinct outlet names, sorted.
func (r *ActivityRepository) PointsVente(ctx context.Context) ([]string, error) {
	values, err := r.distinct(ctx, `SELECT DISTINCT point_vente FROM activities ORDER BY point_vente`)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des points de vente: %w", err)
	}
	return values, nil
}

// Responsables returns the distinct manager names, sorted.
func (r *ActivityRepository) Responsables(ctx context.Context) ([]string, error) {
	values, err := r.distinct(ctx, `SELECT DISTINCT responsable FROM activities ORDER BY responsable`)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des responsables: %w", err)
	}
	return values, nil
}

func (r *ActivityRepository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// LatestDate returns the most recent activity date, or "" when there are no activities.
func (r *ActivityRepository) LatestDate(ctx context.Context) (string, error) {
	var latest *time.Time
	if err := r.DB.QueryRow(ctx, `SELECT MAX(date) FROM activities`).Scan(&latest); err != nil {
		return "", fmt.Errorf("erreur lors de la récupération de la dernière date: %w", err)
	}
	if latest == nil {
		return "", nil
	}
	return timeutil.FormatDate(*latest), nil
}
