package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/medalboard/internal/app"
	"github.com/hyperifyio/medalboard/internal/extract"
	"github.com/hyperifyio/medalboard/internal/fetch"
	"github.com/hyperifyio/medalboard/internal/medal"
)

const page = `<html><body><table>
<tr><td>1</td><td>USA United States</td><td>40</td><td>44</td><td>42</td><td>126</td></tr>
<tr><td>2</td><td>CHN China</td><td>40</td><td>27</td><td>24</td><td>91</td></tr>
<tr><td>Kenya</td><td>4</td><td>2</td><td>5</td><td>11</td></tr>
</table></body></html>`

func serve(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// With no view selected, run prints the country list.
func TestRun_DefaultsToList(t *testing.T) {
	var out bytes.Buffer
	cfg := app.Config{URL: serve(t, page), Timeout: 2 * time.Second}
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run error: %v", err)
	}
	s := out.String()
	iChina, iKenya, iUSA := strings.Index(s, "CHINA"), strings.Index(s, "KENYA"), strings.Index(s, "UNITED STATES")
	if iChina < 0 || iKenya < iChina || iUSA < iKenya {
		t.Fatalf("expected sorted list, got:\n%s", s)
	}
}

func TestRun_CountryAndTopWithPDFs(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cfg := app.Config{
		URL:            serve(t, page),
		Timeout:        2 * time.Second,
		Country:        "kenya",
		TopN:           2,
		CountryPDFPath: filepath.Join(dir, "kenya.pdf"),
		TopPDFPath:     filepath.Join(dir, "top.pdf"),
	}
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run error: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "Medals Count for KENYA") {
		t.Fatalf("missing country view:\n%s", s)
	}
	if !strings.Contains(s, "Top 2 performing countries") || !strings.Contains(s, "UNITED STATES") || strings.Count(s, "KENYA") != 1 {
		t.Fatalf("unexpected top view:\n%s", s)
	}
	for _, p := range []string{cfg.CountryPDFPath, cfg.TopPDFPath} {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Fatalf("expected chart at %s, err=%v", p, err)
		}
	}
}

func TestRun_UnknownCountry(t *testing.T) {
	var out bytes.Buffer
	cfg := app.Config{URL: serve(t, page), Timeout: 2 * time.Second, Country: "Atlantis"}
	err := run(context.Background(), cfg, &out)
	if !errors.Is(err, medal.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if exitCode(err) != 4 {
		t.Fatalf("expected exit code 4, got %d", exitCode(err))
	}
}

func TestRun_PageWithoutTable(t *testing.T) {
	var out bytes.Buffer
	cfg := app.Config{URL: serve(t, "<p>nothing here</p>"), Timeout: 2 * time.Second}
	err := run(context.Background(), cfg, &out)
	if exitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got %d (%v)", exitCode(err), err)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load: %w", &extract.Error{Reason: "x"}), 2},
		{fmt.Errorf("load: %w", &fetch.Error{URL: "u", StatusCode: 500}), 3},
		{&medal.NotFoundError{Country: "X"}, 4},
		{app.ErrNoData, 1},
	}
	for _, c := range cases {
		if got := exitCode(c.err); got != c.want {
			t.Fatalf("exitCode(%v)=%d, want %d", c.err, got, c.want)
		}
	}
}
