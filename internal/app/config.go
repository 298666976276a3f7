package app

import "time"

// DefaultURL is the medal table fetched when nothing else is configured.
const DefaultURL = "https://www.bbc.com/sport/olympics/paris-2024/medals"

// DefaultUserAgent identifies medalboard to the remote site.
const DefaultUserAgent = "medalboard/1.0 (+https://github.com/hyperifyio/medalboard)"

// Config holds runtime configuration for the application.
type Config struct {
	URL       string
	UserAgent string
	Timeout   time.Duration

	// Views
	List    bool
	Country string
	TopN    int

	// Chart output; empty paths skip the PDF.
	CountryPDFPath string
	TopPDFPath     string

	Verbose bool
}
