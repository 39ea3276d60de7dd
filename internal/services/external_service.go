package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/metrics"
	"pdv-backend/internal/models"
	"pdv-backend/internal/repositories"
	"pdv-backend/internal/sentiment"
	"pdv-backend/internal/storage"
	"pdv-backend/internal/timeutil"
)

// MaxRangeDays bounds the status period.
const MaxRangeDays = 90

const neant = "neant"

// ExternalService builds the partner views: outlet status with sentiment, and the
// summary of a whole day.
type ExternalService struct {
	Activities *repositories.ActivityRepository
	Customers  *repositories.CustomerRepository
	Analyzer   *sentiment.Analyzer
	Archive    *storage.Archive
	metrics    *metrics.Metrics
}

func NewExternalService(
	activities *repositories.ActivityRepository,
	customers *repositories.CustomerRepository,
	analyzer *sentiment.Analyzer,
	archive *storage.Archive,
	m *metrics.Metrics,
) *ExternalService {
	return &ExternalService{
		Activities: activities,
		Customers:  customers,
		Analyzer:   analyzer,
		Archive:    archive,
		metrics:    m,
	}
}

// resolvePeriod applies the status date rules: both bounds or none; none means the
// latest activity date.
func (s *ExternalService) resolvePeriod(ctx context.Context, start, end string) (models.Period, error) {
	if start == "" && end == "" {
		latest, err := s.Activities.LatestDate(ctx)
		if err != nil {
			return models.Period{}, err
		}
		if latest == "" {
			return models.Period{}, apperr.NotFound("Aucune activité trouvée dans la base de données")
		}
		return models.Period{Start: latest, End: latest}, nil
	}

	if start == "" || end == "" {
		return models.Period{}, apperr.Validation("start_date",
			"Les paramètres start_date et end_date doivent être tous les deux présents ou absents (format: YYYY-MM-DD)")
	}
	from, err := timeutil.ParseDate(start)
	if err != nil {
		return models.Period{}, apperr.Validation("start_date", "start_date doit être au format YYYY-MM-DD")
	}
	to, err := timeutil.ParseDate(end)
	if err != nil {
		return models.Period{}, apperr.Validation("end_date", "end_date doit être au format YYYY-MM-DD")
	}
	if from.After(to) {
		return models.Period{}, apperr.Validation("start_date", "start_date ne peut pas être postérieure à end_date")
	}
	if to.Sub(from).Hours()/24 > MaxRangeDays {
		return models.Period{}, apperr.Validation("end_date",
			fmt.Sprintf("La plage de dates ne peut pas dépasser %d jours", MaxRangeDays))
	}
	return models.Period{Start: start, End: end}, nil
}

func orNeant(s string) string {
	if strings.TrimSpace(s) == "" {
		return neant
	}
	return s
}

func outletReport(a *models.Activity) *models.OutletReport {
	return &models.OutletReport{
		PointDeVente:        a.PointVente,
		Responsable:         a.Responsable,
		Note:                a.NoteVentes,
		Plaintes:            orNeant(a.PlaintesClient),
		ProduitsManquants:   orNeant(a.ProduitsManquants),
		CommentaireLivreurs: orNeant(a.CommentaireLivreurs),
		Commentaires:        orNeant(a.Commentaire),
	}
}

// operationComments turns the manager's notes into labeled comments, skipping empty
// and "neant" entries. Missing products are not part of the sentiment input.
func operationComments(a *models.Activity) []string {
	var out []string
	add := func(label, text string) {
		text = strings.TrimSpace(text)
		if text == "" || strings.EqualFold(text, neant) {
			return
		}
		out = append(out, label+text)
	}
	add("Plainte: ", a.PlaintesClient)
	add("Commentaire: ", a.Commentaire)
	add("Livreur: ", a.CommentaireLivreurs)
	return out
}

// Status returns the activities of the period grouped by date, most recent first,
// each enriched with the outlet's operational and customer sentiment.
func (s *ExternalService) Status(ctx context.Context, start, end string) (*models.StatusReport, error) {
	period, err := s.resolvePeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	activities, err := s.Activities.List(ctx, models.ActivityFilter{DateDebut: period.Start, DateFin: period.End})
	if err != nil {
		return nil, err
	}

	var outlets []string
	commentsByOutlet := make(map[string][]string)
	var data models.DatedReports
	reports := make([]*models.OutletReport, len(activities))

	for i, a := range activities {
		reports[i] = outletReport(a)
		data.Add(a.Date, reports[i])

		if _, seen := commentsByOutlet[a.PointVente]; !seen {
			outlets = append(outlets, a.PointVente)
			commentsByOutlet[a.PointVente] = []string{}
		}
		commentsByOutlet[a.PointVente] = append(commentsByOutlet[a.PointVente], operationComments(a)...)
	}

	operations := make(map[string]*models.OutletAnalysis, len(outlets))
	clients := make(map[string]*models.ClientAnalysis, len(outlets))
	for _, pv := range outlets {
		operations[pv] = s.Analyzer.Outlet(ctx, pv, sentiment.Operations, commentsByOutlet[pv])
		clients[pv] = s.clientSentiment(ctx, pv)
	}

	for _, r := range reports {
		r.SentimentAnalysis = operations[r.PointDeVente]
		r.ClientSentimentAnalysis = clients[r.PointDeVente]
	}

	return &models.StatusReport{
		Success: true,
		Data:    data,
		Count:   len(activities),
		Period:  period,
	}, nil
}

func (s *ExternalService) clientSentiment(ctx context.Context, pointVente string) *models.ClientAnalysis {
	latest, err := s.Customers.LatestClientComments(ctx, pointVente)
	if err != nil {
		log.Printf("[External] Client comments lookup failed for %s: %v", pointVente, err)
		return &models.ClientAnalysis{OutletAnalysis: sentiment.OutletFallback()}
	}
	if latest == nil {
		return &models.ClientAnalysis{Message: "Pas de données"}
	}

	analysis := s.Analyzer.Outlet(ctx, pointVente, sentiment.Clients, latest.Comments)
	date := latest.LatestDate
	return &models.ClientAnalysis{
		OutletAnalysis: analysis,
		LatestDate:     &date,
		Analyzed:       analysis.Analyzed,
	}
}

// DaySentiment summarizes every activity of date (default: the latest activity date)
// and archives the result when object storage is enabled.
func (s *ExternalService) DaySentiment(ctx context.Context, date string) (*models.DayAnalysis, error) {
	if date == "" {
		latest, err := s.Activities.LatestDate(ctx)
		if err != nil {
			return nil, err
		}
		if latest == "" {
			return nil, apperr.NotFound("Aucune activité trouvée dans la base de données")
		}
		date = latest
	} else if !timeutil.IsDate(date) {
		return nil, apperr.Validation("date", "date doit être au format YYYY-MM-DD")
	}

	activities, err := s.Activities.List(ctx, models.ActivityFilter{DateDebut: date, DateFin: date})
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, apperr.NotFound(fmt.Sprintf("Aucune activité trouvée pour la date %s", date))
	}

	reports := make([]*models.OutletReport, len(activities))
	for i, a := range activities {
		reports[i] = outletReport(a)
	}

	analysis := s.Analyzer.Day(ctx, date, reports)
	if analysis.Error == "" {
		s.archive(ctx, analysis)
	}
	return analysis, nil
}

func (s *ExternalService) archive(ctx context.Context, analysis *models.DayAnalysis) {
	if s.Archive == nil {
		return
	}
	result := "ok"
	if _, err := s.Archive.SaveDayAnalysis(ctx, analysis); err != nil {
		log.Printf("[External] Failed to archive analysis of %s: %v", analysis.Date, err)
		result = "error"
	}
	if s.metrics != nil {
		s.metrics.ArchivedAnalyses.WithLabelValues(result).Inc()
	}
}
