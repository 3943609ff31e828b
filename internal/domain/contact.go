package domain

// Contact es la empresa que busca cubrir un puesto. Sus coordenadas son el
// punto de destino para la distancia.
type Contact struct {
	ID          string   `json:"id"`
	CompanyName string   `json:"company_name"`
	City        string   `json:"city,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// HasCoordinates indica si el contacto tiene lat/lon completas.
func (c Contact) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}
