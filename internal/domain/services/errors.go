package services

import "errors"

// ErrNoEntityFound means the free text did not resolve to an in-scope place.
var ErrNoEntityFound = errors.New("no entity found")

// ErrNoResultsFound means a place resolved but has no associated people.
var ErrNoResultsFound = errors.New("no results found")
