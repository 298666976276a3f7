package aggregate

import (
	"sort"

	"github.com/hyperifyio/medalboard/internal/medal"
)

// DefaultTopN is the size of the top-N analytics view.
const DefaultTopN = 10

// RankTop ranks countries by total medals, highest first, and keeps the first
// n. Countries with equal totals are ordered by name ascending. A non-positive
// n means DefaultTopN. An empty table yields an empty slice.
func RankTop(t medal.Table, n int) []medal.RankedEntry {
	if n <= 0 {
		n = DefaultTopN
	}
	entries := make([]medal.RankedEntry, 0, len(t))
	for country, rec := range t {
		entries = append(entries, medal.RankedEntry{
			Country: country,
			Gold:    rec.Gold,
			Silver:  rec.Silver,
			Bronze:  rec.Bronze,
			Total:   rec.Total(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].Country < entries[j].Country
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Breakdown holds the series behind the top-N charts. All slices are parallel
// and follow the ranking order.
type Breakdown struct {
	Countries []string
	Gold      []int
	Silver    []int
	Bronze    []int
	Total     []int
}

// Len returns the number of ranked countries.
func (b Breakdown) Len() int { return len(b.Countries) }

// Analytics splits ranked entries into per-medal series.
func Analytics(entries []medal.RankedEntry) Breakdown {
	b := Breakdown{
		Countries: make([]string, 0, len(entries)),
		Gold:      make([]int, 0, len(entries)),
		Silver:    make([]int, 0, len(entries)),
		Bronze:    make([]int, 0, len(entries)),
		Total:     make([]int, 0, len(entries)),
	}
	for _, e := range entries {
		b.Countries = append(b.Countries, e.Country)
		b.Gold = append(b.Gold, e.Gold)
		b.Silver = append(b.Silver, e.Silver)
		b.Bronze = append(b.Bronze, e.Bronze)
		b.Total = append(b.Total, e.Total)
	}
	return b
}

// Shares returns each value as a percentage of the series sum. A series that
// sums to zero yields all zeros.
func Shares(values []int) []float64 {
	out := make([]float64, len(values))
	sum := 0
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		return out
	}
	for i, v := range values {
		out[i] = float64(v) * 100 / float64(sum)
	}
	return out
}
