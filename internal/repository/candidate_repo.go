package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"qero-match/internal/domain"
)

// CandidateRepository define el contrato de lectura para el pool de candidatos.
type CandidateRepository interface {
	ListEligible(ctx context.Context) ([]domain.Candidate, error)
}

// PgCandidateRepository implementa CandidateRepository usando pgxpool.
type PgCandidateRepository struct {
	pool *pgxpool.Pool
}

func NewPgCandidateRepository(pool *pgxpool.Pool) *PgCandidateRepository {
	return &PgCandidateRepository{pool: pool}
}

// ListEligible devuelve los candidatos disponibles para matching:
// ni archivados ni ya colocados.
func (r *PgCandidateRepository) ListEligible(ctx context.Context) ([]domain.Candidate, error) {
	const query = `
		SELECT id, name, position, city, canton, postal_code,
		       latitude, longitude, experience_level, driving_license,
		       short_profile_url, notes, status_tags
		FROM candidates
		WHERE NOT archived AND NOT placed
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Position,
			&c.City,
			&c.Canton,
			&c.PostalCode,
			&c.Latitude,
			&c.Longitude,
			&c.ExperienceLevel,
			&c.DrivingLicense,
			&c.ShortProfileURL,
			&c.Notes,
			&c.StatusTags,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
