package service

import (
	"sort"
	"strings"

	"qero-match/internal/domain"
)

// Constantes del metodo por puntos. El contrato es el orden relativo, no el
// literal: role match domina, calidad A >= B >= C, experiencia nunca pesa
// mas que calidad, bonus chicos y aditivos.
const (
	scoreRoleExact   = 40
	scoreRoleAllTok  = 30
	scoreRolePartial = 15

	scoreQualityA = 25
	scoreQualityB = 15
	scoreQualityC = 5

	scoreExpSenior = 15
	scoreExpMittel = 10
	scoreExpJunior = 5

	scoreDocsBonus  = 5
	scoreNotesBonus = 5
)

// ScorePoints puntua un candidato contra un rol. Funcion pura: un candidato
// sin ningun campo opcional igual recibe un breakdown valido (todo en 0).
func ScorePoints(c domain.Candidate, roleName string) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{
		RoleMatch:  scoreRoleMatch(c.Position, roleName),
		Quality:    scoreQuality(c.StatusTags),
		Experience: scoreExperience(c.ExperienceLevel),
	}
	if strings.TrimSpace(c.ShortProfileURL) != "" {
		b.DocsBonus = scoreDocsBonus
	}
	if strings.TrimSpace(c.Notes) != "" {
		b.NotesBonus = scoreNotesBonus
	}
	b.Total = b.RoleMatch + b.Quality + b.Experience + b.DocsBonus + b.NotesBonus
	return b
}

// Tokens mas cortos que esto no identifican un oficio: la normalizacion de
// titulos suizos ("Maler/-in (EFZ)") deja sueltos conectores como "in" que
// matchearian casi cualquier posicion.
const minRoleTokenLen = 3

// scoreRoleMatch compara posicion del candidato contra el rol pedido en
// tres niveles: igualdad normalizada, todos los tokens del rol presentes,
// o solape parcial de prefijos (Zimmermann ~ Zimmerer). Sin relacion = 0.
func scoreRoleMatch(position, roleName string) int {
	pos := normalizeTitle(position)
	role := normalizeTitle(roleName)
	if pos == "" || role == "" {
		return 0
	}
	if pos == role {
		return scoreRoleExact
	}

	roleTokens := make([]string, 0, 4)
	for _, tok := range strings.Fields(role) {
		if len([]rune(tok)) >= minRoleTokenLen {
			roleTokens = append(roleTokens, tok)
		}
	}
	if len(roleTokens) == 0 {
		return 0
	}

	all := true
	any := false
	for _, tok := range roleTokens {
		if strings.Contains(pos, tok) {
			any = true
		} else {
			all = false
		}
	}
	if all {
		return scoreRoleAllTok
	}
	if any {
		return scoreRolePartial
	}

	for _, rt := range roleTokens {
		for _, pt := range strings.Fields(pos) {
			if sharedPrefix(rt, pt) >= 5 {
				return scoreRolePartial
			}
		}
	}
	return 0
}

// scoreQuality toma el mejor tag presente. Tags desconocidos se ignoran.
func scoreQuality(tags []string) int {
	best := 0
	for _, tag := range tags {
		var v int
		switch strings.ToUpper(strings.TrimSpace(tag)) {
		case domain.QualityTagA:
			v = scoreQualityA
		case domain.QualityTagB:
			v = scoreQualityB
		case domain.QualityTagC:
			v = scoreQualityC
		}
		if v > best {
			best = v
		}
	}
	return best
}

func scoreExperience(level string) int {
	switch normalizeExperience(level) {
	case "senior":
		return scoreExpSenior
	case "mittel":
		return scoreExpMittel
	case "junior":
		return scoreExpJunior
	default:
		return 0
	}
}

// normalizeExperience mapea sinonimos alemanes a los tres niveles conocidos.
func normalizeExperience(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "senior", "berufserfahren":
		return "senior"
	case "mittel", "fortgeschritten":
		return "mittel"
	case "junior", "einsteiger", "lehrling":
		return "junior"
	default:
		return ""
	}
}

var umlautReplacer = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"é", "e", "è", "e", "ê", "e", "à", "a", "ç", "c",
)

// normalizeTitle prepara un titulo de puesto para comparar: minusculas,
// umlauts plegados y separadores colapsados a espacios.
func normalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = umlautReplacer.Replace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '-', '(', ')', ',', '.':
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func sharedPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// SortMatchesByPoints ordena para el metodo por puntos: total descendente,
// empate por distancia ascendente con distancia desconocida al final, y
// nombre como ultima llave para que el orden sea estable entre requests.
func SortMatchesByPoints(matches []domain.MatchedCandidate) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.ScoreBreakdown.Total != b.ScoreBreakdown.Total {
			return a.ScoreBreakdown.Total > b.ScoreBreakdown.Total
		}
		switch {
		case a.DistanceKm != nil && b.DistanceKm == nil:
			return true
		case a.DistanceKm == nil && b.DistanceKm != nil:
			return false
		case a.DistanceKm != nil && b.DistanceKm != nil && *a.DistanceKm != *b.DistanceKm:
			return *a.DistanceKm < *b.DistanceKm
		}
		return a.Name < b.Name
	})
}
