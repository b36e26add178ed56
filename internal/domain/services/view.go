package services

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ersonp/placefolk/internal/domain/entities"
)

// View is one projected page of a result set.
type View struct {
	People   []entities.PersonRecord `json:"people"`
	State    entities.ViewState      `json:"state"`
	PageSize int                     `json:"page_size"`
	// Matched is the number of records that passed the filter.
	Matched int  `json:"matched"`
	HasMore bool `json:"has_more"`
}

// ViewService derives filtered, sorted and paginated views of an in-memory
// result set without touching the network.
type ViewService struct {
	pageSize int
	tag      language.Tag
}

// NewViewService creates a view service. lang is a BCP 47 tag used for
// label ordering; an unknown tag falls back to English.
func NewViewService(pageSize int, lang string) *ViewService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &ViewService{
		pageSize: pageSize,
		tag:      tag,
	}
}

// PageSize returns the number of records per page.
func (s *ViewService) PageSize() int {
	return s.pageSize
}

// Project filters, sorts and paginates people according to state.
// The input slice is never modified.
func (s *ViewService) Project(people []entities.PersonRecord, state entities.ViewState) View {
	if state.Page < 1 {
		state.Page = 1
	}

	filtered := make([]entities.PersonRecord, 0, len(people))
	for _, p := range people {
		if state.Profession != "" && !strings.EqualFold(p.Occupation, state.Profession) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch state.Sort {
	case entities.SortName:
		// collate.Collator is not safe for concurrent use.
		c := collate.New(s.tag)
		slices.SortStableFunc(filtered, func(a, b entities.PersonRecord) int {
			return c.CompareString(a.Label, b.Label)
		})
	case entities.SortBirth:
		slices.SortStableFunc(filtered, func(a, b entities.PersonRecord) int {
			return a.BirthSortKey() - b.BirthSortKey()
		})
	case entities.SortDeath:
		slices.SortStableFunc(filtered, func(a, b entities.PersonRecord) int {
			return a.DeathSortKey() - b.DeathSortKey()
		})
	}

	start := (state.Page - 1) * s.pageSize
	end := state.Page * s.pageSize
	page := []entities.PersonRecord{}
	if start < len(filtered) {
		page = filtered[start:min(end, len(filtered))]
	}

	return View{
		People:   page,
		State:    state,
		PageSize: s.pageSize,
		Matched:  len(filtered),
		HasMore:  len(filtered) > end,
	}
}

// Occupations returns the distinct non-empty occupations of people in
// ascending locale order, for populating a profession filter.
func (s *ViewService) Occupations(people []entities.PersonRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range people {
		if p.Occupation == "" {
			continue
		}
		if _, ok := seen[p.Occupation]; ok {
			continue
		}
		seen[p.Occupation] = struct{}{}
		out = append(out, p.Occupation)
	}
	collate.New(s.tag).SortStrings(out)
	return out
}
