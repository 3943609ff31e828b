package domain

// Metodos de scoring soportados.
const (
	MethodPoints = "points"
	MethodAI     = "ai"
)

// ScoreBreakdown descompone el puntaje del metodo por puntos. Es un resultado
// transitorio: se recalcula en cada request y nunca se persiste.
// Invariante: Total == RoleMatch + Quality + Experience + DocsBonus + NotesBonus.
type ScoreBreakdown struct {
	RoleMatch  int `json:"role_match"`
	Quality    int `json:"quality"`
	Experience int `json:"experience"`
	DocsBonus  int `json:"docs_bonus"`
	NotesBonus int `json:"notes_bonus"`
	Total      int `json:"total"`
}

// MatchedCandidate es un candidato ya puntuado para un contacto y rol.
// DistanceKm queda en null cuando falta alguna coordenada: "desconocido"
// nunca se reporta como 0 km. Los campos points_* se llenan solo con el
// metodo por puntos, y ai_score/match_reason solo con el metodo AI.
type MatchedCandidate struct {
	Candidate
	DistanceKm     *float64        `json:"distance_km"`
	PointsScore    *int            `json:"points_score,omitempty"`
	ScoreBreakdown *ScoreBreakdown `json:"score_breakdown,omitempty"`
	AIScore        *float64        `json:"ai_score,omitempty"`
	MatchReason    string          `json:"match_reason,omitempty"`
}

// MatchResult es la respuesta completa de un request de matching.
type MatchResult struct {
	Matches []MatchedCandidate `json:"matches"`
	Method  string             `json:"method"`
}
