package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qero-match/internal/domain"
	"qero-match/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

// Chequeo offline de los invariantes del motor: corre escenarios conocidos
// contra repos en memoria y sale con codigo distinto de cero si alguno falla.
// No toca red ni base de datos.
func main() {
	ctx := context.Background()
	logger := zap.NewNop()

	zurichLat, zurichLon := 47.3769, 8.5417
	nearLat, nearLon := 47.38, 8.54
	genevaLat, genevaLon := 46.2, 6.15

	acmeID := uuid.NewString()
	contacts := &memoryContactRepo{contacts: map[string]domain.Contact{
		acmeID: {ID: acmeID, CompanyName: "Acme AG", City: "Zurich", Latitude: &zurichLat, Longitude: &zurichLon},
	}}
	roles := &memoryRoleRepo{roles: map[string]domain.Role{
		"Zimmermann": {ID: uuid.NewString(), Name: "Zimmermann", Color: "#b45309"},
	}}

	candidateX := domain.Candidate{
		ID: uuid.NewString(), Name: "Xaver Keller", Position: "Zimmermann", City: "Zurich",
		Latitude: &nearLat, Longitude: &nearLon, ExperienceLevel: "senior",
		ShortProfileURL: "https://files.example/keller.pdf", Notes: "vetted",
		StatusTags: []string{"A"},
	}
	candidateY := domain.Candidate{
		ID: uuid.NewString(), Name: "Yann Moser", Position: "Maler", City: "Geneva",
		Latitude: &genevaLat, Longitude: &genevaLon,
	}

	newService := func(pool []domain.Candidate) *service.MatchService {
		return service.NewMatchService(
			logger, contacts, roles,
			&memoryCandidateRepo{candidates: pool},
			nil, nil, nil, service.MatchTimings{},
		)
	}

	failures := 0
	check := func(name string, fn func() error) {
		fmt.Printf("%s[check]%s %s: ", colorCyan, colorReset, name)
		if err := fn(); err != nil {
			failures++
			fmt.Printf("%sFAIL%s %v\n", colorRed, colorReset, err)
			return
		}
		fmt.Printf("%sPASS%s\n", colorGreen, colorReset)
	}

	check("acme zimmermann ordering", func() error {
		result, err := newService([]domain.Candidate{candidateY, candidateX}).MatchCandidates(ctx, service.MatchInput{
			ContactID: acmeID, RoleName: "Zimmermann", Method: domain.MethodPoints,
		})
		if err != nil {
			return err
		}
		if len(result.Matches) != 2 {
			return fmt.Errorf("expected 2 matches, got %d", len(result.Matches))
		}
		if result.Matches[0].Name != candidateX.Name {
			return fmt.Errorf("expected %s first, got %s", candidateX.Name, result.Matches[0].Name)
		}
		first, second := result.Matches[0], result.Matches[1]
		if first.ScoreBreakdown.Total <= second.ScoreBreakdown.Total {
			return fmt.Errorf("expected strictly higher total, got %d vs %d", first.ScoreBreakdown.Total, second.ScoreBreakdown.Total)
		}
		if first.DistanceKm == nil || second.DistanceKm == nil || *first.DistanceKm >= *second.DistanceKm {
			return errors.New("expected first match much closer than second")
		}
		return nil
	})

	check("breakdown total equals sum", func() error {
		b := service.ScorePoints(candidateX, "Zimmermann")
		if b.Total != b.RoleMatch+b.Quality+b.Experience+b.DocsBonus+b.NotesBonus {
			return fmt.Errorf("total %d does not equal sum of parts", b.Total)
		}
		return nil
	})

	check("empty pool yields empty matches", func() error {
		result, err := newService(nil).MatchCandidates(ctx, service.MatchInput{
			ContactID: acmeID, RoleName: "Zimmermann", Method: domain.MethodPoints,
		})
		if err != nil {
			return err
		}
		if result.Matches == nil || len(result.Matches) != 0 {
			return fmt.Errorf("expected empty matches slice, got %v", result.Matches)
		}
		return nil
	})

	check("unknown contact is not an empty list", func() error {
		_, err := newService([]domain.Candidate{candidateX}).MatchCandidates(ctx, service.MatchInput{
			ContactID: uuid.NewString(), RoleName: "Zimmermann", Method: domain.MethodPoints,
		})
		if !errors.Is(err, service.ErrContactNotFound) {
			return fmt.Errorf("expected ErrContactNotFound, got %v", err)
		}
		return nil
	})

	check("tie breaks by distance, unknown distance last", func() error {
		far := candidateX
		far.ID = uuid.NewString()
		far.Name = "Zeno Frei"
		far.Latitude, far.Longitude = &genevaLat, &genevaLon
		unknown := candidateX
		unknown.ID = uuid.NewString()
		unknown.Name = "Arno Hug"
		unknown.Latitude, unknown.Longitude = nil, nil

		result, err := newService([]domain.Candidate{unknown, far, candidateX}).MatchCandidates(ctx, service.MatchInput{
			ContactID: acmeID, RoleName: "Zimmermann", Method: domain.MethodPoints,
		})
		if err != nil {
			return err
		}
		got := []string{result.Matches[0].Name, result.Matches[1].Name, result.Matches[2].Name}
		want := []string{candidateX.Name, "Zeno Frei", "Arno Hug"}
		for i := range want {
			if got[i] != want[i] {
				return fmt.Errorf("expected order %v, got %v", want, got)
			}
		}
		return nil
	})

	if failures > 0 {
		fmt.Printf("\n%s%d check(s) failed%s\n", colorRed, failures, colorReset)
		os.Exit(1)
	}
	fmt.Printf("\n%sall checks passed%s\n", colorGreen, colorReset)
}
