package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/medalboard/internal/aggregate"
	"github.com/hyperifyio/medalboard/internal/extract"
	"github.com/hyperifyio/medalboard/internal/fetch"
	"github.com/hyperifyio/medalboard/internal/medal"
)

// ErrNoData is returned by views that need a medal table before the first
// successful Refresh.
var ErrNoData = errors.New("no medal data loaded")

// Fetcher downloads a page. *fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// LoadTable downloads url and extracts its medal table. It holds no state.
func LoadTable(ctx context.Context, f Fetcher, x extract.Extractor, url string) (medal.Table, error) {
	body, err := f.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("load medals: %w", err)
	}
	tbl, err := x.Extract(body)
	if err != nil {
		return nil, fmt.Errorf("load medals from %s: %w", url, err)
	}
	return tbl, nil
}

// Session owns the medal table currently shown to the user. The table is
// replaced as a whole on each successful Refresh. A Session is not safe for
// concurrent use; callers serialize access.
type Session struct {
	cfg       Config
	fetcher   Fetcher
	extractor extract.Extractor
	table     medal.Table
}

// New returns a Session that downloads with a fetch.Client built from cfg.
func New(cfg Config) *Session {
	return NewWithFetcher(cfg, &fetch.Client{
		HTTPClient: newHTTPClient(cfg.Timeout),
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.Timeout,
	})
}

// NewWithFetcher returns a Session that downloads through f.
func NewWithFetcher(cfg Config, f Fetcher) *Session {
	return &Session{cfg: cfg, fetcher: f, extractor: extract.TableExtractor{}}
}

// Refresh downloads the configured page and replaces the held table. On
// failure the previous table is kept.
func (s *Session) Refresh(ctx context.Context) error {
	tbl, err := LoadTable(ctx, s.fetcher, s.extractor, s.cfg.URL)
	if err != nil {
		log.Warn().Err(err).Str("url", s.cfg.URL).Msg("refresh failed; keeping previous table")
		return err
	}
	s.table = tbl
	log.Info().Str("url", s.cfg.URL).Int("countries", len(tbl)).Msg("medal table loaded")
	return nil
}

// Table returns the held table, or nil before the first successful Refresh.
func (s *Session) Table() medal.Table { return s.table }

// Countries lists the held countries sorted for display.
func (s *Session) Countries() []string { return medal.Countries(s.table) }

// Country returns the medal counts of one country.
func (s *Session) Country(name string) (medal.Record, error) {
	if len(s.table) == 0 {
		return medal.Record{}, ErrNoData
	}
	return medal.Lookup(s.table, name)
}

// Top ranks the held table. A non-positive n means the configured TopN, and
// failing that aggregate.DefaultTopN.
func (s *Session) Top(n int) ([]medal.RankedEntry, error) {
	if len(s.table) == 0 {
		return nil, ErrNoData
	}
	if n <= 0 {
		n = s.cfg.TopN
	}
	return aggregate.RankTop(s.table, n), nil
}
