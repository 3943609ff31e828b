package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"qero-match/internal/domain"
)

// RoleRepository define el contrato de lectura para roles (puestos abiertos).
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
}

// PgRoleRepository implementa RoleRepository usando pgxpool.
type PgRoleRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoleRepository(pool *pgxpool.Pool) *PgRoleRepository {
	return &PgRoleRepository{pool: pool}
}

func (r *PgRoleRepository) GetByName(ctx context.Context, name string) (domain.Role, error) {
	const query = `
		SELECT id, name, color, team_id
		FROM roles
		WHERE lower(name) = lower($1)
	`
	var role domain.Role
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&role.ID,
		&role.Name,
		&role.Color,
		&role.TeamID,
	)
	return role, err
}

func (r *PgRoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	const query = `
		SELECT id, name, color, team_id
		FROM roles
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Color, &role.TeamID); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
