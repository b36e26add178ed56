package entities

import (
	"fmt"
	"strings"
)

// SortKey selects the ordering of a projected result set.
type SortKey string

// Supported sort keys.
const (
	SortNone  SortKey = ""
	SortName  SortKey = "name"
	SortBirth SortKey = "birth"
	SortDeath SortKey = "death"
)

// ParseSortKey parses user input into a SortKey. "none" and "default" map to SortNone.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "default":
		return SortNone, nil
	case "name":
		return SortName, nil
	case "birth":
		return SortBirth, nil
	case "death":
		return SortDeath, nil
	default:
		return SortNone, fmt.Errorf("invalid sort key %q (valid: none, name, birth, death)", s)
	}
}

// ViewState describes how a result set is displayed.
type ViewState struct {
	Sort       SortKey `json:"sort"`
	Profession string  `json:"profession,omitempty"`
	Page       int     `json:"page"`
}

// NewViewState returns the default view: no sort, no filter, first page.
func NewViewState() ViewState {
	return ViewState{Page: 1}
}

// WithSort changes the sort key and returns to the first page.
func (v ViewState) WithSort(key SortKey) ViewState {
	v.Sort = key
	v.Page = 1
	return v
}

// WithProfession changes the profession filter and returns to the first page.
func (v ViewState) WithProfession(profession string) ViewState {
	v.Profession = strings.TrimSpace(profession)
	v.Page = 1
	return v
}

// NextPage advances one page.
func (v ViewState) NextPage() ViewState {
	if v.Page < 1 {
		v.Page = 1
	}
	v.Page++
	return v
}
