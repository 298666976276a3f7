package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/medalboard/internal/aggregate"
	"github.com/hyperifyio/medalboard/internal/medal"
	"github.com/hyperifyio/medalboard/internal/report"
)

// WriteCountryPDF renders the bar chart of one country to outPath.
func (s *Session) WriteCountryPDF(name string, outPath string) error {
	rec, err := s.Country(name)
	if err != nil {
		return err
	}
	return writeFile(outPath, func(f *os.File) error {
		return report.WriteCountryChart(f, medal.NormalizeCountry(name), rec)
	})
}

// WriteTopPDF renders the top-n dashboard to outPath.
func (s *Session) WriteTopPDF(n int, outPath string) error {
	entries, err := s.Top(n)
	if err != nil {
		return err
	}
	return writeFile(outPath, func(f *os.File) error {
		return report.WriteTopAnalytics(f, aggregate.Analytics(entries))
	})
}

func writeFile(outPath string, render func(*os.File) error) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := render(f); err != nil {
		f.Close()
		_ = os.Remove(outPath)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", outPath).Msg("chart written")
	return nil
}
