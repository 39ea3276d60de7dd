package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/filter"
	"pdv-backend/internal/metrics"
	"pdv-backend/internal/models"
	"pdv-backend/internal/policy"
	"pdv-backend/internal/report"
	"pdv-backend/internal/repositories"
	"pdv-backend/internal/timeutil"
)

type CustomerService struct {
	Repo            *repositories.CustomerRepository
	DefaultPageSize int
	metrics         *metrics.Metrics
	now             func() time.Time
}

func NewCustomerService(repo *repositories.CustomerRepository, defaultPageSize int, m *metrics.Metrics) *CustomerService {
	return &CustomerService{Repo: repo, DefaultPageSize: defaultPageSize, metrics: m, now: timeutil.Now}
}

func validateCustomerFilter(f models.CustomerFilter) error {
	if f.Date != "" {
		if err := validateDate("date", f.Date); err != nil {
			return err
		}
	}
	if f.TypeClient != "" && f.TypeClient != models.TypeClientNouveau && f.TypeClient != models.TypeClientRecurrent {
		return apperr.Validation("type_client", msgTypeClient)
	}
	return validateRange(f.DateDebut, f.DateFin)
}

func (s *CustomerService) List(ctx context.Context, f models.CustomerFilter) ([]*models.Customer, error) {
	if err := validateCustomerFilter(f); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, f)
}

// ListAll returns one page of the date-ordered listing with the stats of the whole
// filtered set.
func (s *CustomerService) ListAll(ctx context.Context, f models.CustomerFilter, pageNumber, pageSize int) (*models.CustomerPage, error) {
	if err := validateCustomerFilter(f); err != nil {
		return nil, err
	}
	page := filter.NewPage(pageNumber, pageSize, s.DefaultPageSize)

	customers, total, err := s.Repo.ListPage(ctx, f, page)
	if err != nil {
		return nil, err
	}
	stats, err := s.Repo.Stats(ctx, f)
	if err != nil {
		return nil, err
	}

	return &models.CustomerPage{
		Customers:   customers,
		TotalCount:  total,
		TotalPages:  filter.TotalPages(total, page.Size),
		CurrentPage: page.Number,
		PageSize:    page.Size,
		Stats:       stats,
	}, nil
}

func (s *CustomerService) Stats(ctx context.Context, f models.CustomerFilter) (*models.CustomerStats, error) {
	if err := validateCustomerFilter(f); err != nil {
		return nil, err
	}
	return s.Repo.Stats(ctx, f)
}

// CheckPhone is advisory: it is never consulted when a customer is created.
func (s *CustomerService) CheckPhone(ctx context.Context, telephone string) (*models.PhoneCheck, error) {
	telephone = strings.TrimSpace(telephone)
	if telephone == "" {
		return nil, apperr.Validation("telephone", "Le numéro de téléphone est requis")
	}
	return s.Repo.CheckPhone(ctx, telephone)
}

func (s *CustomerService) Get(ctx context.Context, id int) (*models.Customer, error) {
	return s.Repo.Get(ctx, id)
}

// Export renders the filtered customers and their stats as an XLSX workbook.
func (s *CustomerService) Export(ctx context.Context, f models.CustomerFilter) (*bytes.Buffer, error) {
	customers, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	stats, err := s.Repo.Stats(ctx, f)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	buf, err := report.CustomersWorkbook(customers, stats)
	if s.metrics != nil {
		s.metrics.ExportDuration.Observe(time.Since(start).Seconds())
	}
	return buf, err
}

func customerFromRequest(req *models.CustomerRequest) (*models.Customer, error) {
	c := &models.Customer{
		Date:              strings.TrimSpace(req.Date),
		Telephone:         strings.TrimSpace(req.Telephone),
		NomClient:         strings.TrimSpace(req.NomClient),
		PointVente:        strings.TrimSpace(req.PointVente),
		TypeClient:        strings.TrimSpace(req.TypeClient),
		CommentConnu:      optionalText(req.CommentConnu),
		CommentaireClient: optionalText(req.CommentaireClient),
	}
	if c.Date == "" || c.Telephone == "" || c.NomClient == "" || c.PointVente == "" ||
		req.MontantCommande.IsZero() || c.TypeClient == "" {
		return nil, apperr.Validation("date", msgCustomerRequired)
	}
	if c.TypeClient != models.TypeClientNouveau && c.TypeClient != models.TypeClientRecurrent {
		return nil, apperr.Validation("type_client", msgTypeClient)
	}
	if err := validateDate("date", c.Date); err != nil {
		return nil, err
	}

	var err error
	if c.MontantCommande, err = parseMontant(req.MontantCommande); err != nil {
		return nil, err
	}
	if c.ActivityID, err = parseOptionalID("activity_id", req.ActivityID); err != nil {
		return nil, err
	}
	if c.NoteQualiteProduits, err = parseScore("note_qualite_produits", req.NoteQualiteProduits); err != nil {
		return nil, err
	}
	if c.NoteNiveauPrix, err = parseScore("note_niveau_prix", req.NoteNiveauPrix); err != nil {
		return nil, err
	}
	if c.NoteServiceCommercial, err = parseScore("note_service_commercial", req.NoteServiceCommercial); err != nil {
		return nil, err
	}
	return c, nil
}

// Create stores a customer order. Any authenticated role may log one.
func (s *CustomerService) Create(ctx context.Context, actor policy.Actor, req *models.CustomerRequest) (*models.Customer, error) {
	if err := policy.CanCreate(actor.Role, policy.Customer); err != nil {
		return nil, err
	}
	c, err := customerFromRequest(req)
	if err != nil {
		return nil, err
	}

	owner := actor.ID
	c.CreatedBy = &owner
	return s.Repo.Create(ctx, c)
}

func (s *CustomerService) Update(ctx context.Context, actor policy.Actor, id int, req *models.CustomerRequest) (*models.Customer, error) {
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	subject := policy.Subject{Resource: policy.Customer, CreatedAt: existing.CreatedAt}
	if existing.CreatedBy != nil {
		subject.OwnerID = *existing.CreatedBy
	}
	if err := policy.CanMutate(actor, policy.Update, subject, s.now()); err != nil {
		return nil, err
	}

	c, err := customerFromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.Repo.Update(ctx, id, c)
}

func (s *CustomerService) Delete(ctx context.Context, actor policy.Actor, id int) error {
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}

	subject := policy.Subject{Resource: policy.Customer, CreatedAt: existing.CreatedAt}
	if err := policy.CanMutate(actor, policy.Delete, subject, s.now()); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
