package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/medalboard/internal/aggregate"
	"github.com/hyperifyio/medalboard/internal/app"
	"github.com/hyperifyio/medalboard/internal/extract"
	"github.com/hyperifyio/medalboard/internal/fetch"
	"github.com/hyperifyio/medalboard/internal/medal"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath  string
		envFile     string
		url         string
		userAgent   string
		timeout     time.Duration
		list        bool
		country     string
		topN        int
		countryPDF  string
		topPDF      string
		verbose     bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&envFile, "env", ".env", "Dotenv file to load before reading the environment")
	flag.StringVar(&url, "url", app.DefaultURL, "Medal table page URL")
	flag.StringVar(&userAgent, "ua", app.DefaultUserAgent, "User-Agent header for the page request")
	flag.DurationVar(&timeout, "timeout", fetch.DefaultTimeout, "Request timeout")
	flag.BoolVar(&list, "list", false, "Print the sorted country list")
	flag.StringVar(&country, "country", "", "Print the medal counts of one country")
	flag.IntVar(&topN, "top", 0, "Print the top N countries by total medals (0 skips unless -top.pdf is set)")
	flag.StringVar(&countryPDF, "country.pdf", "", "Write the selected country's bar chart to this PDF")
	flag.StringVar(&topPDF, "top.pdf", "", "Write the top-N analytics dashboard to this PDF")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("medalboard %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return
	}

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Warn().Err(err).Str("path", envFile).Msg("dotenv load failed")
	}

	// Flags not given on the command line are left empty so that file and env
	// values can fill them in.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := app.Config{
		List:           list,
		Country:        country,
		TopN:           topN,
		CountryPDFPath: countryPDF,
		TopPDFPath:     topPDF,
		Verbose:        verbose,
	}
	if set["url"] {
		cfg.URL = url
	}
	if set["ua"] {
		cfg.UserAgent = userAgent
	}
	if set["timeout"] {
		cfg.Timeout = timeout
	}

	// Precedence: flags > env > file > defaults
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		flagged := cfg
		app.ApplyFileConfig(&cfg, fc)
		app.ApplyEnvOverrides(&cfg)
		restoreFlags(&cfg, flagged, set)
	} else {
		app.ApplyEnvToConfig(&cfg)
	}
	applyDefaults(&cfg, url, userAgent, timeout)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// restoreFlags puts explicitly passed flag values back after file and env
// overlays.
func restoreFlags(cfg *app.Config, flagged app.Config, set map[string]bool) {
	if set["url"] {
		cfg.URL = flagged.URL
	}
	if set["ua"] {
		cfg.UserAgent = flagged.UserAgent
	}
	if set["timeout"] {
		cfg.Timeout = flagged.Timeout
	}
	if set["top"] {
		cfg.TopN = flagged.TopN
	}
	if set["v"] {
		cfg.Verbose = flagged.Verbose
	}
}

func applyDefaults(cfg *app.Config, url, userAgent string, timeout time.Duration) {
	if cfg.URL == "" {
		cfg.URL = url
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = userAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = timeout
	}
}

func run(ctx context.Context, cfg app.Config, out io.Writer) error {
	s := app.New(cfg)
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	showTop := cfg.TopN > 0 || cfg.TopPDFPath != ""
	if !cfg.List && cfg.Country == "" && !showTop {
		cfg.List = true
	}

	if cfg.List {
		printCountries(out, s.Countries())
	}
	if cfg.Country != "" {
		rec, err := s.Country(cfg.Country)
		if err != nil {
			return err
		}
		printCountry(out, medal.NormalizeCountry(cfg.Country), rec)
		if cfg.CountryPDFPath != "" {
			if err := s.WriteCountryPDF(cfg.Country, cfg.CountryPDFPath); err != nil {
				return err
			}
		}
	}
	if showTop {
		entries, err := s.Top(cfg.TopN)
		if err != nil {
			return err
		}
		printTop(out, entries)
		if cfg.TopPDFPath != "" {
			if err := s.WriteTopPDF(cfg.TopN, cfg.TopPDFPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func printCountries(out io.Writer, countries []string) {
	color.New(color.FgCyan, color.Bold).Fprintf(out, "Countries (%d)\n", len(countries))
	for _, c := range countries {
		fmt.Fprintln(out, c)
	}
}

func printCountry(out io.Writer, name string, rec medal.Record) {
	color.New(color.FgYellow).Fprintf(out, "\nMedals Count for %s\n", name)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Gold", "Silver", "Bronze", "Total"})
	table.Append([]string{
		strconv.Itoa(rec.Gold),
		strconv.Itoa(rec.Silver),
		strconv.Itoa(rec.Bronze),
		strconv.Itoa(rec.Total()),
	})
	table.Render()
}

func printTop(out io.Writer, entries []medal.RankedEntry) {
	b := aggregate.Analytics(entries)
	gold, silver, bronze := aggregate.Shares(b.Gold), aggregate.Shares(b.Silver), aggregate.Shares(b.Bronze)

	color.New(color.FgYellow).Fprintf(out, "\nTop %d performing countries\n", len(entries))
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Rank", "Country", "Gold", "Silver", "Bronze", "Total"})
	for i, e := range entries {
		table.Append([]string{
			strconv.Itoa(i + 1),
			e.Country,
			fmt.Sprintf("%d (%.1f%%)", e.Gold, gold[i]),
			fmt.Sprintf("%d (%.1f%%)", e.Silver, silver[i]),
			fmt.Sprintf("%d (%.1f%%)", e.Bronze, bronze[i]),
			strconv.Itoa(e.Total),
		})
	}
	table.Render()
}

// exitCode maps the error taxonomy to process exit codes: 2 for a page
// without a usable table, 3 for download failures, 4 for an unknown country.
func exitCode(err error) int {
	switch {
	case errors.Is(err, extract.ErrNoUsableTable):
		return 2
	case errors.Is(err, fetch.ErrFetch):
		return 3
	case errors.Is(err, medal.ErrNotFound):
		return 4
	default:
		return 1
	}
}
