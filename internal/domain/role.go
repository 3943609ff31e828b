package domain

// Role es el dato de referencia de un puesto abierto (Zimmermann, Maler, etc.).
type Role struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	TeamID *string `json:"team_id,omitempty"`
}
