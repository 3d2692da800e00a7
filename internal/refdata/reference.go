// Package refdata provides the static city/state reference set used by the
// enrichment stage. The set is immutable once loaded: lookups never mutate
// it, and the loader rejects conflicting duplicate entries rather than
// picking a precedence.
package refdata

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"martforge/internal/common"
	"martforge/pkg/errors"
)

// Entry maps a city name to its canonical state and state code.
type Entry struct {
	City      string `yaml:"city"`
	State     string `yaml:"state"`
	StateCode string `yaml:"state_code"`
}

// Set is an immutable city → canonical (state, state code) lookup.
type Set struct {
	entries map[string]Entry
}

// defaultEntries is the built-in correction set covering the cities that
// appear in the sample extraction feeds.
var defaultEntries = []Entry{
	{City: "New York", State: "New York", StateCode: "NY"},
	{City: "Los Angeles", State: "California", StateCode: "CA"},
	{City: "Chicago", State: "Illinois", StateCode: "IL"},
	{City: "Houston", State: "Texas", StateCode: "TX"},
	{City: "Phoenix", State: "Arizona", StateCode: "AZ"},
	{City: "Philadelphia", State: "Pennsylvania", StateCode: "PA"},
	{City: "San Antonio", State: "Texas", StateCode: "TX"},
	{City: "San Diego", State: "California", StateCode: "CA"},
	{City: "Dallas", State: "Texas", StateCode: "TX"},
	{City: "San Jose", State: "California", StateCode: "CA"},
	{City: "Austin", State: "Texas", StateCode: "TX"},
	{City: "Jacksonville", State: "Florida", StateCode: "FL"},
	{City: "Fort Worth", State: "Texas", StateCode: "TX"},
	{City: "Columbus", State: "Ohio", StateCode: "OH"},
	{City: "Charlotte", State: "North Carolina", StateCode: "NC"},
	{City: "San Francisco", State: "California", StateCode: "CA"},
	{City: "Indianapolis", State: "Indiana", StateCode: "IN"},
	{City: "Seattle", State: "Washington", StateCode: "WA"},
	{City: "Denver", State: "Colorado", StateCode: "CO"},
	{City: "Washington", State: "District of Columbia", StateCode: "DC"},
	{City: "Boston", State: "Massachusetts", StateCode: "MA"},
	{City: "Nashville", State: "Tennessee", StateCode: "TN"},
	{City: "Portland", State: "Oregon", StateCode: "OR"},
	{City: "Las Vegas", State: "Nevada", StateCode: "NV"},
	{City: "Detroit", State: "Michigan", StateCode: "MI"},
	{City: "Memphis", State: "Tennessee", StateCode: "TN"},
	{City: "Louisville", State: "Kentucky", StateCode: "KY"},
	{City: "Baltimore", State: "Maryland", StateCode: "MD"},
	{City: "Milwaukee", State: "Wisconsin", StateCode: "WI"},
	{City: "Albuquerque", State: "New Mexico", StateCode: "NM"},
	{City: "Tucson", State: "Arizona", StateCode: "AZ"},
	{City: "Fresno", State: "California", StateCode: "CA"},
	{City: "Sacramento", State: "California", StateCode: "CA"},
	{City: "Kansas City", State: "Missouri", StateCode: "MO"},
	{City: "Atlanta", State: "Georgia", StateCode: "GA"},
	{City: "Miami", State: "Florida", StateCode: "FL"},
	{City: "New Orleans", State: "Louisiana", StateCode: "LA"},
	{City: "Cleveland", State: "Ohio", StateCode: "OH"},
	{City: "Minneapolis", State: "Minnesota", StateCode: "MN"},
	{City: "Pittsburgh", State: "Pennsylvania", StateCode: "PA"},
}

// NewSet builds a Set from entries, asserting city uniqueness. Duplicate
// entries with identical canonical values are de-duplicated; duplicates
// that disagree are a load error.
func NewSet(entries []Entry) (*Set, error) {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if e.City == "" {
			return nil, errors.New(errors.ErrCodeReferenceFormat, "Reference entry with empty city name").
				WithContext("state", e.State)
		}
		if existing, ok := m[e.City]; ok {
			if existing.State == e.State && existing.StateCode == e.StateCode {
				continue
			}
			return nil, errors.New(errors.ErrCodeReferenceDuplicate,
				"Duplicate city with conflicting canonical state in reference set").
				WithContext("city", e.City).
				WithContext("state_a", existing.State).
				WithContext("state_b", e.State).
				WithSuggestions(
					"Remove one of the conflicting entries",
					"Qualify ambiguous city names in the reference file",
				)
		}
		m[e.City] = e
	}
	return &Set{entries: m}, nil
}

// Default returns the built-in correction set.
func Default() *Set {
	set, err := NewSet(defaultEntries)
	if err != nil {
		// The built-in set is validated by tests; a conflict here is a bug.
		panic(err)
	}
	return set
}

// LoadFile reads a YAML reference file and merges it over the built-in
// set. File entries may add new cities but must not conflict with each
// other or with the defaults.
func LoadFile(path string) (*Set, error) {
	cleaned, err := common.CleanPath(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReferenceFormat, "Invalid reference file path")
	}

	data, err := os.ReadFile(cleaned) // #nosec G304 - path is validated
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeReferenceNotFound, "Reference file not found").
				WithContext("path", cleaned)
		}
		return nil, errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to read reference file")
	}

	var file struct {
		Corrections []Entry `yaml:"corrections"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReferenceFormat, "Failed to parse reference file").
			WithContext("path", cleaned)
	}

	merged := make([]Entry, 0, len(defaultEntries)+len(file.Corrections))
	merged = append(merged, defaultEntries...)
	merged = append(merged, file.Corrections...)
	return NewSet(merged)
}

// Lookup returns the canonical entry for a city, if present.
func (s *Set) Lookup(city string) (Entry, bool) {
	e, ok := s.entries[city]
	return e, ok
}

// Len returns the number of cities in the set.
func (s *Set) Len() int {
	return len(s.entries)
}

// Cities returns the city names in the set, sorted for deterministic
// reporting.
func (s *Set) Cities() []string {
	cities := make([]string, 0, len(s.entries))
	for city := range s.entries {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}
