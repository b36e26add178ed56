// Package services contains the domain logic of the notable-people search.
package services

import (
	"fmt"
	"strings"

	"github.com/ersonp/placefolk/internal/domain/entities"
)

// Relation vocabulary of the knowledge base.
const (
	propInstanceOf    = "P31"
	propSubclassOf    = "P279"
	propCountry       = "P17"
	propAdminParent   = "P131"
	propBirthPlace    = "P19"
	propDeathPlace    = "P20"
	propResidence     = "P551"
	propBirthDate     = "P569"
	propDeathDate     = "P570"
	propOccupation    = "P106"
	defaultLanguage   = "en"
	defaultPlaceClass = "Q515"
)

// QueryBuilder renders the pattern queries used by the services. All entity
// ids passed in must satisfy entities.EntityID.Valid.
type QueryBuilder struct {
	Country    entities.EntityID
	Language   string
	PlaceClass entities.EntityID
}

func (b QueryBuilder) language() string {
	if b.Language == "" {
		return defaultLanguage
	}
	return b.Language
}

func (b QueryBuilder) placeClass() entities.EntityID {
	if b.PlaceClass == "" {
		return defaultPlaceClass
	}
	return b.PlaceClass
}

// Containment asks whether id is related to the target country by
// country-of, administrative containment in either direction, or type hierarchy.
func (b QueryBuilder) Containment(id entities.EntityID) string {
	return fmt.Sprintf(`ASK {
  wd:%s (wdt:%s|wdt:%s*|^wdt:%s*|wdt:%s/wdt:%s*) wd:%s.
}`, id, propCountry, propAdminParent, propAdminParent, propInstanceOf, propSubclassOf, b.Country)
}

// SubRegions selects the entities whose immediate administrative parent is id.
// A positive limit caps the number of rows.
func (b QueryBuilder) SubRegions(id entities.EntityID, limit int) string {
	q := fmt.Sprintf(`SELECT ?region WHERE { ?region wdt:%s wd:%s. }`, propAdminParent, id)
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	return q
}

// People selects one page of people born in, died in, or resident in a
// place nested under id, with optional birth year, death year and occupation.
func (b QueryBuilder) People(id entities.EntityID, limit, offset int) string {
	lang := b.language()
	return fmt.Sprintf(`SELECT DISTINCT ?person ?personLabel ?birthYear ?deathYear ?occupationLabel WHERE {
  { ?person wdt:%[1]s ?place. ?place wdt:%[4]s* wd:%[5]s. }
  UNION { ?person wdt:%[2]s ?place. ?place wdt:%[4]s* wd:%[5]s. }
  UNION { ?person wdt:%[3]s ?place. ?place wdt:%[4]s* wd:%[5]s. }
  OPTIONAL { ?person wdt:%[6]s ?birthDate. }
  OPTIONAL { ?person wdt:%[7]s ?deathDate. }
  OPTIONAL { ?person wdt:%[8]s ?occupation.
    ?occupation rdfs:label ?occupationLabel. FILTER(LANG(?occupationLabel) = "%[9]s")
  }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "%[9]s". }
  BIND(IF(BOUND(?birthDate), YEAR(?birthDate), "") AS ?birthYear)
  BIND(IF(BOUND(?deathDate), YEAR(?deathDate), "") AS ?deathYear)
}
LIMIT %[10]d OFFSET %[11]d`,
		propBirthPlace, propDeathPlace, propResidence, propAdminParent, id,
		propBirthDate, propDeathDate, propOccupation, lang, limit, offset)
}

// Suggestions selects populated places of the target country whose label
// contains text, case-insensitively.
func (b QueryBuilder) Suggestions(text string, limit int) string {
	lang := b.language()
	return fmt.Sprintf(`SELECT ?city ?cityLabel WHERE {
  ?city wdt:%s/wdt:%s* wd:%s;
        wdt:%s wd:%s;
        rdfs:label ?cityLabel.
  FILTER(LANG(?cityLabel) = "%s")
  FILTER(CONTAINS(LCASE(?cityLabel), "%s"))
}
LIMIT %d`, propInstanceOf, propSubclassOf, b.placeClass(), propCountry, b.Country,
		lang, escapeLiteral(strings.ToLower(text)), limit)
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// escapeLiteral makes s safe inside a double-quoted SPARQL string literal.
func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}
