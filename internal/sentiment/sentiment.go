// Package sentiment summarizes outlet comments through an LLM. Summarizer failures never
// propagate: Analyzer turns them into fixed "unknown" records.
package sentiment

import (
	"context"
	"log"
	"strings"
	"time"

	"pdv-backend/internal/metrics"
	"pdv-backend/internal/models"
	"pdv-backend/internal/timeutil"
)

// Audience tells the summarizer whose words it is reading.
type Audience string

const (
	// Operations are the manager's own observations (complaints, deliveries, comments).
	Operations Audience = "operations"
	// Clients are comments left by customers.
	Clients Audience = "clients"
)

// Summarizer is the LLM collaborator. Implementations return an error on any failure,
// including unparseable answers.
type Summarizer interface {
	SummarizeOutlet(ctx context.Context, pointVente string, audience Audience, comments []string) (*models.OutletAnalysis, error)
	SummarizeDay(ctx context.Context, date string, outlets []*models.OutletReport) (*models.DayAnalysis, error)
}

// Analyzer applies the empty-input rules and the fallbacks around a Summarizer.
type Analyzer struct {
	summarizer Summarizer
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewAnalyzer(s Summarizer, m *metrics.Metrics) *Analyzer {
	return &Analyzer{summarizer: s, metrics: m, now: timeutil.Now}
}

// Meaningful drops empty comments and the "neant" placeholder, case-insensitively.
func Meaningful(comments []string) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		c = strings.TrimSpace(c)
		if c == "" || strings.EqualFold(c, "neant") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Outlet summarizes the comments of one outlet. It never fails.
func (a *Analyzer) Outlet(ctx context.Context, pointVente string, audience Audience, comments []string) *models.OutletAnalysis {
	if len(comments) == 0 {
		return neutral("Aucun commentaire disponible")
	}
	valid := Meaningful(comments)
	if len(valid) == 0 {
		return neutral("Aucun commentaire significatif")
	}

	analysis, err := a.summarizer.SummarizeOutlet(ctx, pointVente, audience, valid)
	if err != nil {
		log.Printf("[Sentiment] Outlet analysis failed for %s (%s): %v", pointVente, audience, err)
		a.count("outlet", "error")
		return OutletFallback()
	}
	a.count("outlet", "ok")

	analysis.TotalComments = len(valid)
	analysis.Analyzed = true
	return analysis
}

// Day summarizes every outlet report of a date. It never fails; the returned record
// carries Error when the summarizer could not answer.
func (a *Analyzer) Day(ctx context.Context, date string, outlets []*models.OutletReport) *models.DayAnalysis {
	if len(outlets) == 0 {
		return &models.DayAnalysis{
			Date:            date,
			Sentiment:       models.SentimentNeutral,
			Summary:         "Aucune activité enregistrée pour cette date.",
			KeyPoints:       []string{},
			Issues:          []string{},
			Recommendations: []string{},
		}
	}

	analysis, err := a.summarizer.SummarizeDay(ctx, date, outlets)
	if err != nil {
		log.Printf("[Sentiment] Day analysis failed for %s: %v", date, err)
		a.count("day", "error")
		return &models.DayAnalysis{
			Date:             date,
			Sentiment:        models.SentimentUnknown,
			Summary:          "Erreur lors de l'analyse automatique.",
			KeyPoints:        []string{"Analyse non disponible"},
			Issues:           []string{},
			Recommendations:  []string{"Vérifier la configuration de l'API OpenAI"},
			Error:            err.Error(),
			TotalPointsVente: len(outlets),
		}
	}
	a.count("day", "ok")

	analyzedAt := a.now()
	analysis.Date = date
	analysis.TotalPointsVente = len(outlets)
	analysis.AnalyzedAt = &analyzedAt
	return analysis
}

func (a *Analyzer) count(kind, result string) {
	if a.metrics == nil {
		return
	}
	a.metrics.SentimentCalls.WithLabelValues(kind, result).Inc()
}

func neutral(summary string) *models.OutletAnalysis {
	return &models.OutletAnalysis{
		Sentiment: models.SentimentNeutral,
		Summary:   summary,
	}
}

// OutletFallback is the record reported for an outlet whose analysis failed.
func OutletFallback() *models.OutletAnalysis {
	return &models.OutletAnalysis{
		Sentiment: models.SentimentUnknown,
		Summary:   "Erreur lors de l'analyse",
	}
}
