package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pdv-backend/internal/config"
	"pdv-backend/internal/models"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrNotConfigured = errors.New("OPENAI_API_KEY not configured")
	ErrEmptyAnswer   = errors.New("empty answer from summarizer")
)

const (
	systemOutlet = "Tu es un expert en analyse de satisfaction client. Tu réponds toujours en JSON valide, en français."
	systemDay    = "Tu es un expert en analyse de données de points de vente. Tu réponds toujours en JSON valide, en français."
)

// ChatClient is the part of *openai.Client used here.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI summarizes comments with a chat completion model answering in JSON.
type OpenAI struct {
	client ChatClient
	model  string
}

// NewOpenAI builds the summarizer from configuration. Without an API key every call
// fails with ErrNotConfigured, which callers turn into fallback records.
func NewOpenAI(cfg *config.Config) *OpenAI {
	if cfg.OpenAI.APIKey == "" {
		return &OpenAI{model: cfg.OpenAI.Model}
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second}

	return &OpenAI{client: openai.NewClientWithConfig(clientCfg), model: cfg.OpenAI.Model}
}

// NewOpenAIWithClient is used by tests and alternative providers.
func NewOpenAIWithClient(client ChatClient, model string) *OpenAI {
	return &OpenAI{client: client, model: model}
}

func (o *OpenAI) SummarizeOutlet(ctx context.Context, pointVente string, audience Audience, comments []string) (*models.OutletAnalysis, error) {
	var analysis models.OutletAnalysis
	if err := o.complete(ctx, systemOutlet, outletPrompt(pointVente, audience, comments), 500, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (o *OpenAI) SummarizeDay(ctx context.Context, date string, outlets []*models.OutletReport) (*models.DayAnalysis, error) {
	var analysis models.DayAnalysis
	if err := o.complete(ctx, systemDay, dayPrompt(date, outlets), 1000, &analysis); err != nil {
		return nil, err
	}
	if analysis.KeyPoints == nil {
		analysis.KeyPoints = []string{}
	}
	if analysis.Issues == nil {
		analysis.Issues = []string{}
	}
	if analysis.Recommendations == nil {
		analysis.Recommendations = []string{}
	}
	return &analysis, nil
}

func (o *OpenAI) complete(ctx context.Context, system, prompt string, maxTokens int, out any) error {
	if o.client == nil {
		return ErrNotConfigured
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ErrEmptyAnswer
	}

	content := stripFences(resp.Choices[0].Message.Content)
	if content == "" {
		return ErrEmptyAnswer
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to parse summarizer answer: %w", err)
	}
	return nil
}

// stripFences removes a surrounding ```json ... ``` markdown block.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func numbered(comments []string) string {
	var b strings.Builder
	for i, c := range comments {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	return b.String()
}

func outletPrompt(pointVente string, audience Audience, comments []string) string {
	if audience == Clients {
		return fmt.Sprintf(`Tu es un analyste expert en satisfaction client. Analyse les commentaires clients suivants pour le point de vente "%s":

COMMENTAIRES CLIENTS:
%s
Fournis une analyse au format JSON avec:
1. "sentiment": Évaluation globale ("positif", "neutre", "négatif", "mixte")
2. "score": Score de satisfaction sur 10
3. "summary": Résumé concis en 1-2 phrases de la perception des clients
4. "main_concerns": Tableau des principales préoccupations des clients (max 3)
5. "positive_aspects": Tableau des aspects positifs mentionnés (max 3)

Réponds UNIQUEMENT avec le JSON, sans texte avant ou après.`, pointVente, numbered(comments))
	}

	return fmt.Sprintf(`Tu es un analyste expert en gestion opérationnelle. Analyse les observations suivantes du responsable du point de vente "%s":

OBSERVATIONS DU RESPONSABLE:
%s
Ces observations décrivent l'activité du jour (plaintes observées, produits manquants, livreurs).

Fournis une analyse au format JSON avec:
1. "sentiment": Évaluation globale de la situation opérationnelle ("positif", "neutre", "négatif", "mixte")
2. "score": Score sur 10 reflétant la qualité de l'opération du jour
3. "summary": Résumé concis en 1-2 phrases de la situation du point de vente
4. "main_concerns": Tableau des principaux problèmes opérationnels (max 3)
5. "positive_aspects": Tableau des aspects opérationnels positifs (max 3)

Utilise "Le responsable signale" plutôt que "Les clients disent". Nomme toujours les produits manquants et la nature exacte des plaintes.

Réponds UNIQUEMENT avec le JSON, sans texte avant ou après.`, pointVente, numbered(comments))
}

func dayPrompt(date string, outlets []*models.OutletReport) string {
	var b strings.Builder
	for i, o := range outlets {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		note := "Non renseignée"
		if o.Note != nil {
			note = fmt.Sprintf("%g", *o.Note)
		}
		fmt.Fprintf(&b, "Point de vente %d: %s\n- Responsable: %s\n- Note: %s\n- Plaintes clients: %s\n- Produits manquants: %s\n- Commentaires livreurs: %s\n- Commentaires généraux: %s\n",
			i+1, o.PointDeVente, o.Responsable, note, o.Plaintes, o.ProduitsManquants, o.CommentaireLivreurs, o.Commentaires)
	}

	return fmt.Sprintf(`Tu es un analyste expert en gestion de points de vente. Analyse les données suivantes pour la date du %s et fournis une évaluation détaillée.

DONNÉES DES POINTS DE VENTE:
%s
Fournis une analyse structurée au format JSON avec:
1. "sentiment": Une évaluation globale ("positif", "neutre", "négatif", "mixte")
2. "score": Un score global sur 10
3. "summary": Un résumé en 2-3 phrases de la journée
4. "key_points": Un tableau de 3-5 points clés
5. "issues": Un tableau des problèmes principaux identifiés
6. "recommendations": Un tableau de 2-4 recommandations concrètes

Réponds UNIQUEMENT avec le JSON, sans texte avant ou après.`, date, b.String())
}
