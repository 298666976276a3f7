package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/medalboard/internal/fetch"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	URL       string   `yaml:"url" json:"url"`
	UserAgent string   `yaml:"userAgent" json:"userAgent"`
	Timeout   Duration `yaml:"timeout" json:"timeout"`
	List      bool     `yaml:"list" json:"list"`
	Country   string   `yaml:"country" json:"country"`
	TopN      int      `yaml:"topN" json:"topN"`
	Verbose   bool     `yaml:"verbose" json:"verbose"`

	Output struct {
		CountryPDF string `yaml:"countryPDF" json:"countryPDF"`
		TopPDF     string `yaml:"topPDF" json:"topPDF"`
	} `yaml:"output" json:"output"`
}

// Duration is a config-file timeout written either as a Go duration ("30s")
// or as a bare number of milliseconds (1500).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	return d.set(n.Value)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	v, ok := parseDuration(s)
	if !ok {
		return fmt.Errorf("invalid duration %q: want e.g. 30s or milliseconds", s)
	}
	*d = Duration(v)
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for any fields that are
// still unset or at their flag default, so explicit flags keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if (cfg.URL == "" || cfg.URL == DefaultURL) && fc.URL != "" {
		cfg.URL = fc.URL
	}
	if (cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent) && fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if (cfg.Timeout == 0 || cfg.Timeout == fetch.DefaultTimeout) && fc.Timeout > 0 {
		cfg.Timeout = time.Duration(fc.Timeout)
	}
	if !cfg.List && fc.List {
		cfg.List = true
	}
	if cfg.Country == "" && fc.Country != "" {
		cfg.Country = fc.Country
	}
	if cfg.TopN == 0 && fc.TopN > 0 {
		cfg.TopN = fc.TopN
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	if cfg.CountryPDFPath == "" && fc.Output.CountryPDF != "" {
		cfg.CountryPDFPath = fc.Output.CountryPDF
	}
	if cfg.TopPDFPath == "" && fc.Output.TopPDF != "" {
		cfg.TopPDFPath = fc.Output.TopPDF
	}
}

// ValidateConfig performs minimal validation of required settings.
func ValidateConfig(cfg Config) error {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return errors.New("config: url is required (or set MEDALS_URL)")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("config: url must be an absolute http(s) URL: %q", raw)
	}
	if cfg.TopN < 0 {
		return errors.New("config: topN must not be negative")
	}
	if cfg.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	return nil
}
