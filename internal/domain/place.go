package domain

import "strings"

// A place name as entered by the caller, paired with the normalized
// form used as the coordinate cache key. Immutable once created.
type Place struct {
	Raw        string
	Normalized string
}

// NewPlace trims and case-folds the raw name into the cache key.
// Two inputs that differ only in surrounding whitespace or letter case
// share a cache entry.
func NewPlace(raw string) Place {
	return Place{
		Raw:        raw,
		Normalized: strings.ToLower(strings.TrimSpace(raw)),
	}
}

// NewPlaces converts a list of names, dropping entries that are empty
// after trimming.
func NewPlaces(names []string) []Place {
	places := make([]Place, 0, len(names))
	for _, name := range names {
		p := NewPlace(name)
		if p.Normalized == "" {
			continue
		}
		places = append(places, p)
	}
	return places
}
