package aggregate

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/hyperifyio/medalboard/internal/medal"
)

func TestRankTop_TotalsThenNameTieBreak(t *testing.T) {
	tbl := medal.Table{
		"B": {Gold: 3, Silver: 2, Bronze: 1},
		"A": {Gold: 3, Silver: 2, Bronze: 1},
		"C": {Gold: 5},
	}
	got := RankTop(tbl, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	order := []string{got[0].Country, got[1].Country, got[2].Country}
	if !reflect.DeepEqual(order, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected order: %v", order)
	}
	if got[0].Total != 6 || got[2].Total != 5 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestRankTop_Truncates(t *testing.T) {
	tbl := medal.Table{}
	for i := 0; i < 15; i++ {
		tbl[fmt.Sprintf("COUNTRY %02d", i)] = medal.Record{Gold: i}
	}
	got := RankTop(tbl, 0)
	if len(got) != DefaultTopN {
		t.Fatalf("expected default of %d entries, got %d", DefaultTopN, len(got))
	}
	if got[0].Country != "COUNTRY 14" || got[9].Country != "COUNTRY 05" {
		t.Fatalf("unexpected head/tail: %s .. %s", got[0].Country, got[9].Country)
	}
	if n := len(RankTop(tbl, 3)); n != 3 {
		t.Fatalf("expected 3 entries, got %d", n)
	}
}

func TestRankTop_Empty(t *testing.T) {
	got := RankTop(medal.Table{}, 10)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestAnalytics_ParallelSeries(t *testing.T) {
	entries := RankTop(medal.Table{
		"UNITED STATES": {Gold: 40, Silver: 44, Bronze: 42},
		"CHINA":         {Gold: 40, Silver: 27, Bronze: 24},
	}, 10)
	b := Analytics(entries)
	if b.Len() != 2 {
		t.Fatalf("expected 2 countries, got %d", b.Len())
	}
	if !reflect.DeepEqual(b.Countries, []string{"UNITED STATES", "CHINA"}) {
		t.Fatalf("unexpected countries: %v", b.Countries)
	}
	if !reflect.DeepEqual(b.Gold, []int{40, 40}) || !reflect.DeepEqual(b.Silver, []int{44, 27}) ||
		!reflect.DeepEqual(b.Bronze, []int{42, 24}) || !reflect.DeepEqual(b.Total, []int{126, 91}) {
		t.Fatalf("series misaligned: %+v", b)
	}
}

func TestShares(t *testing.T) {
	got := Shares([]int{1, 1, 2})
	want := []float64{25, 25, 50}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("share %d: got %v, want %v", i, got[i], want[i])
		}
	}
	zero := Shares([]int{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Fatalf("expected zeros, got %v", zero)
	}
}
