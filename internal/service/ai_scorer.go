package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"qero-match/internal/domain"
	"qero-match/internal/llm"
)

// AIScorer delega el ranking del pool completo al LLM en UNA sola llamada
// batcheada. Nunca mezcla puntajes parciales: si falta el score de algun
// candidato, el request entero falla.
type AIScorer struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
}

func NewAIScorer(llmClient llm.LLMClient, logger *zap.Logger) *AIScorer {
	return &AIScorer{llmClient: llmClient, logger: logger}
}

type aiScoreItem struct {
	CandidateID string  `json:"candidate_id"`
	AIScore     float64 `json:"ai_score"`
	MatchReason string  `json:"match_reason"`
}

type aiScoreResponse struct {
	Candidates []aiScoreItem `json:"candidates"`
}

// ScorePool puntua todos los candidatos contra el rol y contacto dados.
// Devuelve los matches en el orden de la respuesta del modelo, para que el
// sort estable posterior conserve el criterio del modelo en empates.
func (s *AIScorer) ScorePool(ctx context.Context, role domain.Role, contact domain.Contact, pool []domain.MatchedCandidate) ([]domain.MatchedCandidate, error) {
	if len(pool) == 0 {
		return []domain.MatchedCandidate{}, nil
	}

	prompt := s.buildPrompt(role, contact, pool)

	rawResp, err := s.llmClient.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}

	cleaned := cleanLLMJSONResponse(rawResp)
	jsonBody := extractFirstJSONObject(cleaned)
	if jsonBody == "" {
		return nil, fmt.Errorf("llm response without json object")
	}

	var parsed aiScoreResponse
	if err := json.Unmarshal([]byte(jsonBody), &parsed); err != nil {
		return nil, fmt.Errorf("parse llm response: %w", err)
	}

	byID := make(map[string]domain.MatchedCandidate, len(pool))
	for _, m := range pool {
		byID[m.ID] = m
	}

	out := make([]domain.MatchedCandidate, 0, len(pool))
	seen := make(map[string]bool, len(pool))
	for _, item := range parsed.Candidates {
		m, ok := byID[item.CandidateID]
		if !ok {
			// ID inventado por el modelo: se descarta, no invalida el resto.
			s.logger.Warn("ai scorer returned unknown candidate id", zap.String("candidate_id", item.CandidateID))
			continue
		}
		if seen[item.CandidateID] {
			continue
		}
		seen[item.CandidateID] = true

		score := clampScore(item.AIScore)
		m.AIScore = &score
		m.MatchReason = strings.TrimSpace(item.MatchReason)
		out = append(out, m)
	}

	if len(out) != len(pool) {
		return nil, fmt.Errorf("llm scored %d of %d candidates", len(out), len(pool))
	}
	return out, nil
}

func (s *AIScorer) buildPrompt(role domain.Role, contact domain.Contact, pool []domain.MatchedCandidate) string {
	var sb strings.Builder
	sb.WriteString(`Eres un reclutador experto de una agencia de staffing suiza. Una empresa busca cubrir un puesto y debes rankear TODOS los candidatos del pool.

Devuelve SOLO un JSON con este formato, un item por candidato, sin omitir ninguno:
{
  "candidates": [
    {"candidate_id": "<id>", "ai_score": 87, "match_reason": "una frase corta"}
  ]
}

Guia de ai_score (0-100):
- 80-100: posicion identica o equivalente, perfil completo, cerca de la empresa
- 50-79: oficio relacionado o distancia considerable
- 20-49: relacion debil con el puesto
- 0-19: sin relacion con el puesto
`)

	fmt.Fprintf(&sb, "\nPuesto buscado: %s\n", role.Name)
	fmt.Fprintf(&sb, "Empresa: %s (%s)\n", contact.CompanyName, contact.City)
	sb.WriteString("\nPool de candidatos:\n")
	for _, m := range pool {
		fmt.Fprintf(&sb, "- id=%s posicion=%q ciudad=%q tags=%s experiencia=%q",
			m.ID, m.Position, m.City, strings.Join(m.StatusTags, ","), m.ExperienceLevel)
		if m.DistanceKm != nil {
			fmt.Fprintf(&sb, " distancia_km=%.1f", *m.DistanceKm)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// sortMatchesByAIScore ordena descendente por ai_score. El sort es estable
// sobre el orden de respuesta del modelo, asi los empates quedan como el
// modelo los rankeo.
func sortMatchesByAIScore(matches []domain.MatchedCandidate) {
	sort.SliceStable(matches, func(i, j int) bool {
		return *matches[i].AIScore > *matches[j].AIScore
	})
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
