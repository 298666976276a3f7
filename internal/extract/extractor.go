package extract

import "github.com/hyperifyio/medalboard/internal/medal"

// Extractor turns a downloaded page into a medal table.
type Extractor interface {
	Extract(input []byte) (medal.Table, error)
}

// TableExtractor reads the first <table> of the page with the row heuristics
// of Extract.
type TableExtractor struct{}

func (TableExtractor) Extract(input []byte) (medal.Table, error) {
	return Extract(input)
}
