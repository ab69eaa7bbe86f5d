package models

// DefaultRegion is the district a hero belongs to when none is given.
const DefaultRegion = "Неклиновский район"

// Ranks enumerates the military ranks offered by the hero form, lowest first.
var Ranks = []string{
	"Рядовой",
	"Ефрейтор",
	"Младший сержант",
	"Сержант",
	"Старший сержант",
	"Старшина",
	"Младший лейтенант",
	"Лейтенант",
	"Старший лейтенант",
	"Капитан",
	"Майор",
	"Подполковник",
	"Полковник",
}

// Hero is a commemorated soldier of the district.
type Hero struct {
	// ID is assigned by the server; zero for drafts.
	ID int64 `json:"id,omitempty"`
	// Name is the full name of the hero.
	Name string `json:"name"`
	// BirthYear is the year of birth.
	BirthYear int `json:"birthYear"`
	// DeathYear is the confirmed year of death. Nil means the fate is unconfirmed.
	DeathYear *int `json:"deathYear,omitempty"`
	// Rank is one of Ranks.
	Rank string `json:"rank"`
	// Unit is the military unit, free text.
	Unit string `json:"unit"`
	// Awards lists decorations in display order.
	Awards []string `json:"awards"`
	// Hometown is the settlement the hero came from.
	Hometown string `json:"hometown"`
	// Region is the district; DefaultRegion when empty.
	Region string `json:"region"`
	// Photo is an optional portrait URL.
	Photo string `json:"photo,omitempty"`
	// Documents are attachments owned by the hero.
	Documents []Document `json:"documents,omitempty"`
}

// Document is an attachment stored inline on the hero record.
type Document struct {
	URL        string `json:"url"`
	Name       string `json:"name"`
	Type       string `json:"type"` // "photo" or "document"
	UploadedAt string `json:"uploadedAt"`
}

// EntityID implements Entity.
func (h Hero) EntityID() int64 { return h.ID }

// Found reports whether the fate of the hero is confirmed, i.e. a death year is known.
func (h Hero) Found() bool { return h.DeathYear != nil }

// Validate implements Entity.
func (h Hero) Validate() error {
	r := requiredFields{entity: "hero"}
	r.str("name", h.Name)
	r.num("birthYear", h.BirthYear)
	r.str("rank", h.Rank)
	r.str("unit", h.Unit)
	r.str("hometown", h.Hometown)
	return r.err()
}

// HeroFile is metadata of a file attached to a hero through /files.
type HeroFile struct {
	ID         int64  `json:"id"`
	HeroID     int64  `json:"hero_id"`
	FileName   string `json:"file_name"`
	FileType   string `json:"file_type"`
	FileURL    string `json:"file_url"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

// Year returns a pointer to y, for optional year fields.
func Year(y int) *int { return &y }
