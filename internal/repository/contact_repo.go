package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qero-match/internal/domain"
)

// ContactRepository define el contrato de lectura para contactos (empresas).
type ContactRepository interface {
	GetByID(ctx context.Context, id string) (domain.Contact, error)
}

// PgContactRepository implementa ContactRepository usando pgxpool.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

func (r *PgContactRepository) GetByID(ctx context.Context, id string) (domain.Contact, error) {
	const query = `
		SELECT id, company_name, city, latitude, longitude
		FROM contacts
		WHERE id = $1
	`
	var c domain.Contact
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.CompanyName,
		&c.City,
		&c.Latitude,
		&c.Longitude,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contact{}, err
	}
	return c, err
}
