package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// FPLFetcher implements Fetcher against the public fantasy API.
type FPLFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFPLFetcher creates a fetcher with optional proxy support.
func NewFPLFetcher(baseURL, proxyURL string) *FPLFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FPLFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FPLFetcher) Name() string { return "fpl" }

func (f *FPLFetcher) get(path string, out interface{}) error {
	req, err := http.NewRequest("GET", f.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fpl fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fpl read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fpl %s: status %d, body: %s", path, resp.StatusCode, truncate(body, 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("fpl decode %s: %w", path, err)
	}
	return nil
}

func (f *FPLFetcher) FetchBootstrap() (*Bootstrap, error) {
	var bs Bootstrap
	if err := f.get("/bootstrap-static/", &bs); err != nil {
		return nil, err
	}
	if len(bs.Elements) == 0 {
		return nil, fmt.Errorf("fpl: empty bootstrap payload")
	}
	return &bs, nil
}

func (f *FPLFetcher) FetchFixtures() ([]RawFixture, error) {
	var fixtures []RawFixture
	if err := f.get("/fixtures/", &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
