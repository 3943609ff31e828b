package llm

import (
	"context"
	"errors"
)

// DisabledClient responde siempre con error. Se usa cuando no hay API key
// configurada: el metodo AI falla de forma explicita en vez de inventar
// puntajes.
type DisabledClient struct {
	Reason string
}

func NewDisabledClient(reason string) *DisabledClient {
	if reason == "" {
		reason = "llm client not configured"
	}
	return &DisabledClient{Reason: reason}
}

func (d *DisabledClient) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errors.New(d.Reason)
}
