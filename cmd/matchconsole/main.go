package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"qero-match/internal/config"
	"qero-match/internal/db"
	"qero-match/internal/domain"
	"qero-match/internal/llm"
	"qero-match/internal/repository"
	"qero-match/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// Consola interactiva para correr matchings contra la base real sin pasar
// por el dashboard.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	contactRepo := repository.NewPgContactRepository(pool)
	roleRepo := repository.NewPgRoleRepository(pool)
	candidateRepo := repository.NewPgCandidateRepository(pool)

	var llmClient llm.LLMClient = llm.NewDisabledClient("LLM_API_KEY not configured")
	if cfg.LLMAPIKey != "" {
		llmClient = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	}
	aiScorer := service.NewAIScorer(llmClient, logger)

	matchSvc := service.NewMatchService(
		logger,
		contactRepo,
		roleRepo,
		candidateRepo,
		aiScorer,
		nil,
		nil,
		service.MatchTimings{
			DBTimeout:  time.Duration(cfg.DBTimeoutSeconds) * time.Second,
			AITimeout:  time.Duration(cfg.AITimeoutSeconds) * time.Second,
			MaxResults: cfg.MatchMaxResults,
		},
	)

	fmt.Println("===== Match Console =====")
	roles, err := roleRepo.List(ctx)
	if err != nil {
		log.Fatalf("listar roles: %v", err)
	}
	fmt.Println("Roles disponibles:")
	for i, r := range roles {
		fmt.Printf("[%d] %s\n", i+1, r.Name)
	}

	for {
		fmt.Print("\nID del contacto (enter para salir): ")
		contactID, _ := reader.ReadString('\n')
		contactID = strings.TrimSpace(contactID)
		if contactID == "" {
			return
		}

		fmt.Print("Rol buscado: ")
		roleName, _ := reader.ReadString('\n')
		roleName = strings.TrimSpace(roleName)

		fmt.Print("Metodo [points/ai] (default points): ")
		method, _ := reader.ReadString('\n')
		method = strings.TrimSpace(method)

		result, err := matchSvc.MatchCandidates(ctx, service.MatchInput{
			ContactID: contactID,
			RoleName:  roleName,
			Method:    method,
		})
		if err != nil {
			printMatchError(err)
			continue
		}

		if len(result.Matches) == 0 {
			fmt.Println("Sin candidatos elegibles.")
			continue
		}
		printMatches(result)
	}
}

func printMatches(result domain.MatchResult) {
	fmt.Printf("%s%d matches (metodo %s)%s\n", colorCyan, len(result.Matches), result.Method, colorReset)
	for i, m := range result.Matches {
		dist := "?"
		if m.DistanceKm != nil {
			dist = fmt.Sprintf("%.1f km", *m.DistanceKm)
		}
		switch result.Method {
		case domain.MethodAI:
			fmt.Printf("%s[%d]%s %s (%s, %s) score=%.0f  %s\n",
				colorGreen, i+1, colorReset, m.Name, m.Position, dist, *m.AIScore, m.MatchReason)
		default:
			b := m.ScoreBreakdown
			fmt.Printf("%s[%d]%s %s (%s, %s) total=%d  [rol=%d calidad=%d exp=%d docs=%d notas=%d]\n",
				colorGreen, i+1, colorReset, m.Name, m.Position, dist,
				b.Total, b.RoleMatch, b.Quality, b.Experience, b.DocsBonus, b.NotesBonus)
		}
	}
}

func printMatchError(err error) {
	switch {
	case errors.Is(err, service.ErrContactNotFound):
		fmt.Printf("%sContacto inexistente.%s\n", colorRed, colorReset)
	case errors.Is(err, service.ErrRoleUnknown):
		fmt.Printf("%sRol no reconocido.%s\n", colorRed, colorReset)
	case errors.Is(err, service.ErrInvalidMethod):
		fmt.Printf("%sMetodo invalido.%s\n", colorRed, colorReset)
	default:
		fmt.Printf("%sFallo upstream: %v%s\n", colorRed, err, colorReset)
	}
}
