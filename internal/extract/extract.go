package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/hyperifyio/medalboard/internal/medal"
)

// minCells is the smallest number of <td> cells a data row can have.
// Anything shorter is a header, footer or spacer row.
const minCells = 5

// ErrNoUsableTable matches every *Error via errors.Is.
var ErrNoUsableTable = errors.New("no usable table found")

// Error reports that a page did not yield a medal table.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return ErrNoUsableTable.Error()
	}
	return ErrNoUsableTable.Error() + ": " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrNoUsableTable }

// Extract parses a medal table out of an HTML page. Only the first <table> in
// document order is considered. Rows that are too short or have no country
// are skipped; unparsable counts become 0.
func Extract(input []byte) (medal.Table, error) {
	return ExtractReader(bytes.NewReader(input))
}

// ExtractReader is Extract for a streamed document.
func ExtractReader(r io.Reader) (tbl medal.Table, err error) {
	defer func() {
		if p := recover(); p != nil {
			tbl = nil
			err = &Error{Reason: fmt.Sprintf("walk document: %v", p)}
		}
	}()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &Error{Reason: "parse html", Err: err}
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &Error{Reason: "page has no <table>"}
	}

	out := medal.Table{}
	skipped := 0
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := rowCells(tr)
		country, rec, ok := parseRow(cells)
		if !ok {
			skipped++
			return
		}
		out[country] = rec
	})
	log.Debug().Int("countries", len(out)).Int("skipped", skipped).Msg("medal table extracted")

	if len(out) == 0 {
		return nil, &Error{Reason: "first table has no medal rows"}
	}
	return out, nil
}

func rowCells(tr *goquery.Selection) []string {
	tds := tr.Find("td")
	cells := make([]string, 0, tds.Length())
	tds.Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, cellText(td.Get(0)))
	})
	return cells
}

// parseRow maps the cell texts of one row to a country and its counts. The
// column layout is decided per row: a leading all-digit cell is a rank column.
func parseRow(cells []string) (string, medal.Record, bool) {
	if len(cells) < minCells {
		return "", medal.Record{}, false
	}
	offset := 0
	if IsRankCell(cells[0]) {
		offset = 1
	}
	raw := strings.TrimSpace(cells[offset])
	if raw == "" {
		return "", medal.Record{}, false
	}
	country := medal.NormalizeCountry(StripCountryCode(raw))
	if country == "" {
		return "", medal.Record{}, false
	}
	rec := medal.Record{
		Gold:   ParseCount(cells[offset+1]),
		Silver: ParseCount(cells[offset+2]),
		Bronze: ParseCount(cells[offset+3]),
	}
	return country, rec, true
}

// IsRankCell reports whether s is a non-empty run of decimal digits.
func IsRankCell(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// StripCountryCode drops a leading 3-character token such as an IOC code:
// "USA UNITED STATES" becomes "UNITED STATES". Any other text is returned
// unchanged. This is a heuristic and will also strip e.g. "THE".
func StripCountryCode(s string) string {
	s = strings.TrimSpace(s)
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s
	}
	head := s[:idx]
	rest := strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
	if rest == "" || utf8.RuneCountInString(head) != 3 {
		return s
	}
	return rest
}

// ParseCount parses a medal count. Anything that is not a non-negative
// integer counts as 0.
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// cellText joins the trimmed text fragments below n with single spaces, so
// "<span>USA</span><span>United States</span>" reads "USA United States".
func cellText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.ElementNode {
			switch strings.ToLower(cur.Data) {
			case "script", "style", "noscript":
				return
			}
		}
		if cur.Type == html.TextNode {
			if t := collapseSpaces(strings.TrimSpace(cur.Data)); t != "" {
				parts = append(parts, t)
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
