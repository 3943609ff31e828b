package domain

// Tags de calidad reconocidos; cualquier otro tag se ignora al puntuar.
const (
	QualityTagA = "A"
	QualityTagB = "B"
	QualityTagC = "C"
)

// Candidate es un candidato del pool de reclutamiento. El motor de matching
// solo lo lee; altas y ediciones pertenecen al CRM.
type Candidate struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Position        string   `json:"position,omitempty"`
	City            string   `json:"city,omitempty"`
	Canton          string   `json:"canton,omitempty"`
	PostalCode      string   `json:"postal_code,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	DrivingLicense  bool     `json:"driving_license"`
	ShortProfileURL string   `json:"short_profile_url,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	StatusTags      []string `json:"status_tags,omitempty"`
}

// HasCoordinates indica si el candidato tiene lat/lon completas.
func (c Candidate) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}
