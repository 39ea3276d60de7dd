package services

import (
	"context"
	"strings"
	"time"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/models"
	"pdv-backend/internal/policy"
	"pdv-backend/internal/repositories"
	"pdv-backend/internal/timeutil"
)

type ActivityService struct {
	Repo *repositories.ActivityRepository
	now  func() time.Time
}

func NewActivityService(repo *repositories.ActivityRepository) *ActivityService {
	return &ActivityService{Repo: repo, now: timeutil.Now}
}

func (s *ActivityService) List(ctx context.Context, f models.ActivityFilter) ([]*models.Activity, error) {
	if err := validateRange(f.DateDebut, f.DateFin); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, f)
}

func (s *ActivityService) Get(ctx context.Context, id int) (*models.Activity, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ActivityService) PointsVente(ctx context.Context) ([]string, error) {
	return s.Repo.PointsVente(ctx)
}

func (s *ActivityService) Responsables(ctx context.Context) ([]string, error) {
	return s.Repo.Responsables(ctx)
}

// activityFromRequest validates req into an activity record.
func activityFromRequest(req *models.ActivityRequest) (*models.Activity, error) {
	a := &models.Activity{
		Date:                strings.TrimSpace(req.Date),
		PointVente:          strings.TrimSpace(req.PointVente),
		Responsable:         strings.TrimSpace(req.Responsable),
		PlaintesClient:      req.PlaintesClient,
		ProduitsManquants:   req.ProduitsManquants,
		CommentaireLivreurs: req.CommentaireLivreurs,
		Commentaire:         req.Commentaire,
	}
	if a.Date == "" || a.PointVente == "" || a.Responsable == "" {
		return nil, apperr.Validation("date", msgActivityRequired)
	}
	if err := validateDate("date", a.Date); err != nil {
		return nil, err
	}

	note, err := parseNoteVentes(req.NoteVentes)
	if err != nil {
		return nil, err
	}
	a.NoteVentes = note
	return a, nil
}

// Create stores a new activity owned by actor.
func (s *ActivityService) Create(ctx context.Context, actor policy.Actor, req *models.ActivityRequest) (*models.Activity, error) {
	if err := policy.CanCreate(actor.Role, policy.Activity); err != nil {
		return nil, err
	}
	a, err := activityFromRequest(req)
	if err != nil {
		return nil, err
	}

	owner := actor.ID
	a.CreatedBy = &owner
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update checks the policy against the stored activity, then overwrites it.
func (s *ActivityService) Update(ctx context.Context, actor policy.Actor, id int, req *models.ActivityRequest) (*models.Activity, error) {
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	subject := policy.Subject{Resource: policy.Activity, OwnerID: existing.OwnerID(), CreatedAt: existing.CreatedAt}
	if err := policy.CanMutate(actor, policy.Update, subject, s.now()); err != nil {
		return nil, err
	}

	a, err := activityFromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.Repo.Update(ctx, id, a)
}

func (s *ActivityService) Delete(ctx context.Context, actor policy.Actor, id int) error {
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}

	subject := policy.Subject{Resource: policy.Activity, OwnerID: existing.OwnerID(), CreatedAt: existing.CreatedAt}
	if err := policy.CanMutate(actor, policy.Delete, subject, s.now()); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
