package entities

// EntityPageBaseURL is where a person's knowledge-base page lives.
const EntityPageBaseURL = "https://www.wikidata.org/wiki/"

// PersonRecord is one notable person associated with a place.
// BirthYear, DeathYear and Occupation are optional; nil or empty means unknown.
type PersonRecord struct {
	ID         EntityID `json:"id"`
	Label      string   `json:"label"`
	BirthYear  *int     `json:"birth_year,omitempty"`
	DeathYear  *int     `json:"death_year,omitempty"`
	Occupation string   `json:"occupation,omitempty"`
}

// URL returns the knowledge-base page for the person.
func (p PersonRecord) URL() string {
	return EntityPageBaseURL + string(p.ID)
}

// BirthSortKey returns the birth year, or 0 when unknown.
func (p PersonRecord) BirthSortKey() int {
	return yearOrZero(p.BirthYear)
}

// DeathSortKey returns the death year, or 0 when unknown.
func (p PersonRecord) DeathSortKey() int {
	return yearOrZero(p.DeathYear)
}

func yearOrZero(y *int) int {
	if y == nil {
		return 0
	}
	return *y
}

// Year is a convenience for building optional years.
func Year(y int) *int {
	return &y
}
