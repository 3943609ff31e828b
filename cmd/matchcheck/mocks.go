package main

import (
	"context"

	"github.com/jackc/pgx/v5"

	"qero-match/internal/domain"
)

// Repos en memoria para correr escenarios sin base de datos.

type memoryContactRepo struct {
	contacts map[string]domain.Contact
}

func (r *memoryContactRepo) GetByID(_ context.Context, id string) (domain.Contact, error) {
	c, ok := r.contacts[id]
	if !ok {
		return domain.Contact{}, pgx.ErrNoRows
	}
	return c, nil
}

type memoryRoleRepo struct {
	roles map[string]domain.Role
}

func (r *memoryRoleRepo) GetByName(_ context.Context, name string) (domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return domain.Role{}, pgx.ErrNoRows
	}
	return role, nil
}

func (r *memoryRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	return out, nil
}

type memoryCandidateRepo struct {
	candidates []domain.Candidate
}

func (r *memoryCandidateRepo) ListEligible(_ context.Context) ([]domain.Candidate, error) {
	return r.candidates, nil
}
