package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Sentiment labels produced by the summarizer or by the fallbacks.
const (
	SentimentNeutral = "neutral"
	SentimentUnknown = "unknown"
)

// OutletAnalysis is the sentiment summary of one outlet's comments.
type OutletAnalysis struct {
	Sentiment       string   `json:"sentiment,omitempty"`
	Score           *float64 `json:"score"`
	Summary         string   `json:"summary,omitempty"`
	MainConcerns    []string `json:"main_concerns,omitempty"`
	PositiveAspects []string `json:"positive_aspects,omitempty"`
	TotalComments   int      `json:"total_comments,omitempty"`
	Analyzed        bool     `json:"analyzed"`
	Error           string   `json:"error,omitempty"`
}

// ClientAnalysis is the sentiment of an outlet's latest customer comments. When the
// outlet has none, only Message, LatestDate (null) and Analyzed are reported.
type ClientAnalysis struct {
	*OutletAnalysis
	Message    string  `json:"message,omitempty"`
	LatestDate *string `json:"latest_date"`
	Analyzed   bool    `json:"analyzed"`
}

// DayAnalysis is the aggregated sentiment summary of every outlet for one date.
type DayAnalysis struct {
	Date             string     `json:"date"`
	Sentiment        string     `json:"sentiment"`
	Score            *float64   `json:"score"`
	Summary          string     `json:"summary"`
	KeyPoints        []string   `json:"key_points"`
	Issues           []string   `json:"issues"`
	Recommendations  []string   `json:"recommendations"`
	TotalPointsVente int        `json:"total_points_vente"`
	AnalyzedAt       *time.Time `json:"analyzed_at,omitempty"`
	Error            string     `json:"error,omitempty"`
}

// OutletReport is an activity as exposed to partners: empty texts become "neant".
type OutletReport struct {
	PointDeVente            string          `json:"point_de_vente"`
	Responsable             string          `json:"responsable"`
	Note                    *float64        `json:"note"`
	Plaintes                string          `json:"plaintes"`
	ProduitsManquants       string          `json:"produits_manquants"`
	CommentaireLivreurs     string          `json:"commentaire_livreurs"`
	Commentaires            string          `json:"commentaires"`
	SentimentAnalysis       *OutletAnalysis `json:"sentiment_analysis,omitempty"`
	ClientSentimentAnalysis *ClientAnalysis `json:"client_sentiment_analysis,omitempty"`
}

// Period is an inclusive date range.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DatedReports groups outlet reports by date and keeps the dates in a fixed order
// (most recent first) when encoded as a JSON object.
type DatedReports struct {
	Dates  []string
	ByDate map[string][]*OutletReport
}

// Add appends r under date, registering date on first use.
func (d *DatedReports) Add(date string, r *OutletReport) {
	if d.ByDate == nil {
		d.ByDate = make(map[string][]*OutletReport)
	}
	if _, ok := d.ByDate[date]; !ok {
		d.Dates = append(d.Dates, date)
	}
	d.ByDate[date] = append(d.ByDate[date], r)
}

func (d DatedReports) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, date := range d.Dates {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(date)
		if err != nil {
			return nil, err
		}
		reports, err := json.Marshal(d.ByDate[date])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(reports)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StatusReport is the body of GET /api/external/point-vente/status.
type StatusReport struct {
	Success bool         `json:"success"`
	Data    DatedReports `json:"data"`
	Count   int          `json:"count"`
	Period  Period       `json:"period"`
}
