package records

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Source fetches the published spreadsheet export over HTTPS. The export is
// tab-separated text; some publish configurations return an HTML table
// instead, which the fetch handles as a fallback format.
type Source struct {
	url    string
	client *http.Client
}

func NewSource(url string, timeout time.Duration) *Source {
	return &Source{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and parses the record set. A non-2xx response, an
// unreachable host, or a payload with zero valid rows all return an error;
// the caller decides the fallback.
func (s *Source) Fetch(ctx context.Context) ([]ObjectiveRecord, error) {
	if strings.TrimSpace(s.url) == "" {
		return nil, fmt.Errorf("sheet url not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sheet body: %w", err)
	}

	raw := string(body)
	parsed := ParseTSV(raw)
	if len(parsed) == 0 && strings.Contains(strings.ToLower(raw), "<table") {
		parsed = ParseHTMLTable(raw)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("sheet contained no valid rows")
	}
	return parsed, nil
}
