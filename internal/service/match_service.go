package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"qero-match/internal/domain"
	"qero-match/internal/geo"
	"qero-match/internal/metrics"
	"qero-match/internal/repository"
)

// Errores del motor de matching, mapeados a HTTP por los handlers.
var (
	ErrContactNotFound = errors.New("contact not found")
	ErrRoleUnknown     = errors.New("unknown role")
	ErrInvalidMethod   = errors.New("invalid match method")
	ErrAIRateLimited   = errors.New("ai method rate limited")
	ErrUpstream        = errors.New("upstream failure")
)

// MatchInput es el request de un matching.
type MatchInput struct {
	ContactID string
	RoleName  string
	Method    string
}

// MatchTimings agrupa los limites de tiempo y tamaño del motor.
type MatchTimings struct {
	DBTimeout  time.Duration
	AITimeout  time.Duration
	CacheTTL   time.Duration
	MaxResults int
}

// MatchService es el orquestador: resuelve contacto y rol, carga el pool,
// puntua por el metodo pedido, ordena y trunca. Solo lee; nunca escribe.
type MatchService struct {
	logger     *zap.Logger
	contacts   repository.ContactRepository
	roles      repository.RoleRepository
	candidates repository.CandidateRepository
	aiScorer   *AIScorer
	cache      MatchCache
	limiter    AIRateLimiter
	timings    MatchTimings
}

// NewMatchService arma el orquestador. cache y limiter pueden ser nil:
// el motor funciona sin redis.
func NewMatchService(
	logger *zap.Logger,
	contacts repository.ContactRepository,
	roles repository.RoleRepository,
	candidates repository.CandidateRepository,
	aiScorer *AIScorer,
	cache MatchCache,
	limiter AIRateLimiter,
	timings MatchTimings,
) *MatchService {
	if timings.DBTimeout <= 0 {
		timings.DBTimeout = 5 * time.Second
	}
	if timings.AITimeout <= 0 {
		timings.AITimeout = 60 * time.Second
	}
	if timings.MaxResults <= 0 {
		timings.MaxResults = 50
	}
	return &MatchService{
		logger:     logger,
		contacts:   contacts,
		roles:      roles,
		candidates: candidates,
		aiScorer:   aiScorer,
		cache:      cache,
		limiter:    limiter,
		timings:    timings,
	}
}

// MatchCandidates ejecuta un request completo de matching.
func (s *MatchService) MatchCandidates(ctx context.Context, in MatchInput) (domain.MatchResult, error) {
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method == "" {
		method = domain.MethodPoints
	}
	if method != domain.MethodPoints && method != domain.MethodAI {
		return domain.MatchResult{}, fmt.Errorf("%w: %q", ErrInvalidMethod, in.Method)
	}
	if strings.TrimSpace(in.RoleName) == "" {
		return domain.MatchResult{}, fmt.Errorf("%w: empty role", ErrRoleUnknown)
	}

	cacheKey := MatchCacheKey(in.ContactID, in.RoleName, method)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			return cached, nil
		}
	}

	contact, role, pool, err := s.loadInputs(ctx, in)
	if err != nil {
		return domain.MatchResult{}, err
	}

	metrics.MatchPoolSize.Observe(float64(len(pool)))
	if len(pool) == 0 {
		// Pool vacio no es error: el modal muestra una lista vacia.
		return domain.MatchResult{Matches: []domain.MatchedCandidate{}, Method: method}, nil
	}

	matches := buildMatches(contact, pool)

	switch method {
	case domain.MethodPoints:
		for i := range matches {
			b := ScorePoints(matches[i].Candidate, role.Name)
			matches[i].ScoreBreakdown = &b
			total := b.Total
			matches[i].PointsScore = &total
		}
		SortMatchesByPoints(matches)
	case domain.MethodAI:
		if s.limiter != nil && !s.limiter.Allow(in.ContactID) {
			return domain.MatchResult{}, fmt.Errorf("%w: contact %s", ErrAIRateLimited, in.ContactID)
		}
		matches, err = s.scoreWithAI(ctx, role, contact, matches)
		if err != nil {
			return domain.MatchResult{}, err
		}
	}

	if len(matches) > s.timings.MaxResults {
		matches = matches[:s.timings.MaxResults]
	}

	result := domain.MatchResult{Matches: matches, Method: method}
	if s.cache != nil {
		s.cache.Set(cacheKey, result, s.timings.CacheTTL)
	}
	return result, nil
}

// loadInputs resuelve contacto, rol y pool con timeout de DB. Traduce
// pgx.ErrNoRows a los sentinels del dominio; cualquier otro fallo de la
// base es un fallo upstream.
func (s *MatchService) loadInputs(ctx context.Context, in MatchInput) (domain.Contact, domain.Role, []domain.Candidate, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.timings.DBTimeout)
	defer cancel()

	contact, err := s.contacts.GetByID(dbCtx, in.ContactID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, domain.Role{}, nil, fmt.Errorf("%w: contact %s", ErrContactNotFound, in.ContactID)
		}
		return domain.Contact{}, domain.Role{}, nil, fmt.Errorf("%w: get contact: %v", ErrUpstream, err)
	}

	role, err := s.roles.GetByName(dbCtx, in.RoleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, domain.Role{}, nil, fmt.Errorf("%w: role %q", ErrRoleUnknown, in.RoleName)
		}
		return domain.Contact{}, domain.Role{}, nil, fmt.Errorf("%w: get role: %v", ErrUpstream, err)
	}

	pool, err := s.candidates.ListEligible(dbCtx)
	if err != nil {
		return domain.Contact{}, domain.Role{}, nil, fmt.Errorf("%w: list candidates: %v", ErrUpstream, err)
	}

	return contact, role, pool, nil
}

func (s *MatchService) scoreWithAI(ctx context.Context, role domain.Role, contact domain.Contact, matches []domain.MatchedCandidate) ([]domain.MatchedCandidate, error) {
	aiCtx, cancel := context.WithTimeout(ctx, s.timings.AITimeout)
	defer cancel()

	scored, err := s.aiScorer.ScorePool(aiCtx, role, contact, matches)
	if err != nil {
		s.logger.Warn("ai scoring failed", zap.Error(err), zap.String("role", role.Name))
		return nil, fmt.Errorf("%w: ai scoring: %v", ErrUpstream, err)
	}

	// Sort estable sobre el orden de respuesta del modelo: los empates
	// conservan el criterio del modelo.
	sortMatchesByAIScore(scored)
	return scored, nil
}

// buildMatches construye los candidatos con distancia resuelta. La distancia
// queda nil cuando falta alguna coordenada de cualquiera de las dos partes.
func buildMatches(contact domain.Contact, pool []domain.Candidate) []domain.MatchedCandidate {
	matches := make([]domain.MatchedCandidate, 0, len(pool))
	for _, c := range pool {
		m := domain.MatchedCandidate{Candidate: c}
		if contact.HasCoordinates() && c.HasCoordinates() {
			d := geo.RoundKm(geo.DistanceKm(*contact.Latitude, *contact.Longitude, *c.Latitude, *c.Longitude))
			m.DistanceKm = &d
		}
		matches = append(matches, m)
	}
	return matches
}
