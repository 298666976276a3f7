package extract

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/hyperifyio/medalboard/internal/medal"
)

func TestExtract_RankColumnLayout(t *testing.T) {
	page := `<!doctype html>
    <html>
      <head><title>Paris 2024 medal table</title></head>
      <body>
        <table>
          <thead><tr><th>Rank</th><th>Nation</th><th>Gold</th><th>Silver</th><th>Bronze</th><th>Total</th></tr></thead>
          <tbody>
            <tr><td>1</td><td><abbr>USA</abbr> <span>United States</span></td><td>40</td><td>44</td><td>42</td><td>126</td></tr>
            <tr><td>2</td><td><abbr>CHN</abbr><span>China</span></td><td>40</td><td>27</td><td>24</td><td>91</td></tr>
            <tr><td>3</td><td>JPN   Japan</td><td>20</td><td>12</td><td>13</td><td>45</td></tr>
          </tbody>
        </table>
      </body>
    </html>`

	tbl, err := Extract([]byte(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := medal.Table{
		"UNITED STATES": {Gold: 40, Silver: 44, Bronze: 42},
		"CHINA":         {Gold: 40, Silver: 27, Bronze: 24},
		"JAPAN":         {Gold: 20, Silver: 12, Bronze: 13},
	}
	if len(tbl) != len(want) {
		t.Fatalf("expected %d countries, got %d: %v", len(want), len(tbl), tbl)
	}
	for k, v := range want {
		if tbl[k] != v {
			t.Fatalf("%s: got %+v, want %+v", k, tbl[k], v)
		}
	}
}

func TestExtract_CountryFirstLayout(t *testing.T) {
	page := `<table>
      <tr><td>Great Britain</td><td>14</td><td>22</td><td>29</td><td>65</td></tr>
      <tr><td>TEAM CANADA</td><td>9</td><td>7</td><td>11</td><td>27</td></tr>
      <tr><td>CHN</td><td>40</td><td>27</td><td>24</td><td>91</td></tr>
    </table>`

	tbl, err := Extract([]byte(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl["GREAT BRITAIN"]; got != (medal.Record{Gold: 14, Silver: 22, Bronze: 29}) {
		t.Fatalf("GREAT BRITAIN: got %+v", got)
	}
	if got := tbl["TEAM CANADA"]; got != (medal.Record{Gold: 9, Silver: 7, Bronze: 11}) {
		t.Fatalf("TEAM CANADA: got %+v", got)
	}
	if _, ok := tbl["CHN"]; !ok {
		t.Fatalf("single-token country should be kept as is; got %v", tbl)
	}
}

func TestExtract_OffsetDecidedPerRow(t *testing.T) {
	page := `<table>
      <tr><td>1</td><td>NED Netherlands</td><td>15</td><td>7</td><td>12</td></tr>
      <tr><td>Germany</td><td>12</td><td>13</td><td>8</td><td>33</td></tr>
    </table>`

	tbl, err := Extract([]byte(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl["NETHERLANDS"]; got != (medal.Record{Gold: 15, Silver: 7, Bronze: 12}) {
		t.Fatalf("NETHERLANDS: got %+v", got)
	}
	if got := tbl["GERMANY"]; got != (medal.Record{Gold: 12, Silver: 13, Bronze: 8}) {
		t.Fatalf("GERMANY: got %+v", got)
	}
}

func TestExtract_SkipsShortAndEmptyRows(t *testing.T) {
	page := `<table>
      <tr><td colspan="5">Updated daily</td></tr>
      <tr><td>Italy</td><td>12</td><td>13</td><td>15</td></tr>
      <tr><td>1</td><td>   </td><td>1</td><td>1</td><td>1</td></tr>
      <tr><td>Kenya</td><td>4</td><td>2</td><td>5</td><td>11</td></tr>
    </table>`

	tbl, err := Extract([]byte(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl) != 1 {
		t.Fatalf("expected only KENYA, got %v", tbl)
	}
	if _, ok := tbl["ITALY"]; ok {
		t.Fatalf("row with four cells must be excluded")
	}
}

func TestExtract_UnparsableCountsBecomeZero(t *testing.T) {
	page := `<table>
      <tr><td>2</td><td>Brazil</td><td>three</td><td>-1</td><td> 10 </td></tr>
    </table>`

	tbl, err := Extract([]byte(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl["BRAZIL"]; got != (medal.Record{Gold: 0, Silver: 0, Bronze: 10}) {
		t.Fatalf("BRAZIL: got %+v", got)
	}
}

func TestExtract_LastDuplicateWins(t *testing.T) {
	page := `<table>
      <tr><td>Spain</td><td>1</td><td>1</td><td>1</td><td>3</td></tr>
      <tr><td>ESP  spain </td><td>5</td><td>4</td><td>9</td><td>18</td></tr>
    </table>`

	tbl, err := Extract([]byte(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl["SPAIN"]; got != (medal.Record{Gold: 5, Silver: 4, Bronze: 9}) {
		t.Fatalf("expected last row to win, got %+v", got)
	}
}

func TestExtract_OnlyFirstTable(t *testing.T) {
	page := `<table><tr><td>Schedule</td><td>Mon</td></tr></table>
    <table><tr><td>Kenya</td><td>4</td><td>2</td><td>5</td><td>11</td></tr></table>`

	_, err := Extract([]byte(page))
	if !errors.Is(err, ErrNoUsableTable) {
		t.Fatalf("expected ErrNoUsableTable when first table has no rows, got %v", err)
	}
}

func TestExtract_NoTable(t *testing.T) {
	_, err := Extract([]byte(`<html><body><p>Medals coming soon</p></body></html>`))
	if err == nil {
		t.Fatalf("expected error for page without table")
	}
	var xe *Error
	if !errors.As(err, &xe) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !strings.Contains(err.Error(), "no usable table found") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestExtract_MalformedMarkupDoesNotPanic(t *testing.T) {
	_, err := Extract([]byte("<table><tr><td>1<td><<<>>>"))
	if !errors.Is(err, ErrNoUsableTable) {
		t.Fatalf("expected ErrNoUsableTable, got %v", err)
	}
}

func TestExtractReader_ReadFailure(t *testing.T) {
	readErr := errors.New("connection reset")
	_, err := ExtractReader(iotest.ErrReader(readErr))
	if !errors.Is(err, ErrNoUsableTable) {
		t.Fatalf("expected ErrNoUsableTable, got %v", err)
	}
	if !errors.Is(err, readErr) {
		t.Fatalf("expected the read error to be wrapped, got %v", err)
	}
}

func TestIsRankCell(t *testing.T) {
	cases := map[string]bool{
		"1":   true,
		"42":  true,
		"":    false,
		"1.":  false,
		"=3":  false,
		"USA": false,
		" 7":  false,
		"12a": false,
		"007": true,
	}
	for in, want := range cases {
		if got := IsRankCell(in); got != want {
			t.Fatalf("IsRankCell(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestStripCountryCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"USA UNITED STATES", "UNITED STATES"},
		{"TEAM CANADA", "TEAM CANADA"},
		{"CHN", "CHN"},
		{"GBR  Great Britain", "Great Britain"},
		{"Great Britain", "Great Britain"},
		// Any 3-character first word is taken for a code.
		{"New Zealand", "Zealand"},
		{"KOR Republic of Korea", "Republic of Korea"},
	}
	for _, c := range cases {
		if got := StripCountryCode(c.in); got != c.want {
			t.Fatalf("StripCountryCode(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseCount(t *testing.T) {
	cases := map[string]int{
		"12":    12,
		" 3 ":   3,
		"":      0,
		"-":     0,
		"-4":    0,
		"1,234": 0,
		"x":     0,
	}
	for in, want := range cases {
		if got := ParseCount(in); got != want {
			t.Fatalf("ParseCount(%q)=%d, want %d", in, got, want)
		}
	}
}
