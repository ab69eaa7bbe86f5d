package models

// MonumentTypes enumerates the kinds of memorial structures.
var MonumentTypes = []string{
	"памятник",
	"обелиск",
	"мемориал",
	"братская могила",
	"стела",
}

// Monument is a physical memorial in the district.
type Monument struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Settlement  string `json:"settlement"`
	Address     string `json:"address,omitempty"`
	// Coordinates is "lat,lon" free text; it is neither parsed nor validated.
	Coordinates       string          `json:"coordinates,omitempty"`
	EstablishmentYear *int            `json:"establishmentYear,omitempty"`
	Architect         string          `json:"architect,omitempty"`
	ImageURL          string          `json:"imageUrl,omitempty"`
	History           string          `json:"history,omitempty"`
	Photos            []MonumentPhoto `json:"photos,omitempty"`
}

// MonumentPhoto is a gallery photo returned with a single monument.
type MonumentPhoto struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PhotoURL    string `json:"photoUrl"`
	Description string `json:"description,omitempty"`
	PhotoYear   *int   `json:"photoYear,omitempty"`
}

// EntityID implements Entity.
func (m Monument) EntityID() int64 { return m.ID }

// Validate implements Entity.
func (m Monument) Validate() error {
	r := requiredFields{entity: "monument"}
	r.str("name", m.Name)
	r.str("type", m.Type)
	r.str("description", m.Description)
	r.str("location", m.Location)
	r.str("settlement", m.Settlement)
	return r.err()
}

// Submission is material about a hero sent by a visitor for moderation.
type Submission struct {
	HeroName     string `json:"heroName"`
	Relationship string `json:"relationship"`
	DocumentType string `json:"documentType"`
	Description  string `json:"description"`
	Year         string `json:"year"`
	Email        string `json:"email"`
}

// Validate reports a missing hero name or contact email.
func (s Submission) Validate() error {
	r := requiredFields{entity: "submission"}
	r.str("heroName", s.HeroName)
	r.str("email", s.Email)
	return r.err()
}
