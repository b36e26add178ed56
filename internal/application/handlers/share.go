package handlers

import (
	"fmt"
	"net/url"
	"strings"
)

// SearchParam is the URL query parameter carrying a shared search.
const SearchParam = "search"

// ShareLink returns baseURL with its search parameter set to term.
func ShareLink(baseURL, term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", ErrEmptyQuery
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	q := u.Query()
	q.Set(SearchParam, term)
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// InitialSearch extracts the shared search text from a page URL.
func InitialSearch(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	term := strings.TrimSpace(u.Query().Get(SearchParam))
	return term, term != ""
}
