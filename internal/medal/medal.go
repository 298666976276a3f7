package medal

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Record holds the medal counts of one country. Counts are never negative.
type Record struct {
	Gold   int
	Silver int
	Bronze int
}

// Total returns the number of medals of all types.
func (r Record) Total() int {
	return r.Gold + r.Silver + r.Bronze
}

// Table maps a normalized country name to its medal counts. A Table is built
// in one go by the extractor and replaced wholesale, never patched.
type Table map[string]Record

// RankedEntry is one row of a top-N ranking.
type RankedEntry struct {
	Country string
	Gold    int
	Silver  int
	Bronze  int
	Total   int
}

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("country not found")

// NotFoundError reports a country that is absent from the current table.
type NotFoundError struct {
	Country string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("country %q not found in medal table", e.Country)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NormalizeCountry trims s, collapses internal whitespace runs into a single
// space and upper-cases the result. Applying it twice yields the same string.
func NormalizeCountry(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	// Casers keep state between calls; one per call keeps this goroutine-safe.
	return cases.Upper(language.Und).String(collapsed)
}

// Countries returns the keys of t sorted case-insensitively ascending.
func Countries(t Table) []string {
	out := make([]string, 0, len(t))
	for name := range t {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		ui, uj := strings.ToUpper(out[i]), strings.ToUpper(out[j])
		if ui != uj {
			return ui < uj
		}
		return out[i] < out[j]
	})
	return out
}

// Lookup returns the record stored for name after normalizing it. A missing
// country is reported as *NotFoundError, never as a zero Record.
func Lookup(t Table, name string) (Record, error) {
	key := NormalizeCountry(name)
	rec, ok := t[key]
	if !ok {
		return Record{}, &NotFoundError{Country: key}
	}
	return rec, nil
}
