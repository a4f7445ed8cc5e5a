package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gyarumi/internal/domain"
)

const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// Client queries the Google Programmable Search JSON API.
type Client struct {
	baseURL string
	apiKey  string
	cx      string
	limit   int
	http    *http.Client
}

func NewClient(baseURL, apiKey, cx string, limit int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if limit <= 0 || limit > 10 {
		limit = 3
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		cx:      strings.TrimSpace(cx),
		limit:   limit,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != "" && c.cx != ""
}

// Search returns ranked hits. A disabled client or an empty query yields no
// results and no error.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if !c.Enabled() || query == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("cx", c.cx)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(c.limit))
	q.Set("lr", "lang_ja")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// The key stays out of the URL so transport errors never carry it.
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	results := make([]domain.SearchResult, 0, len(out.Items))
	for _, it := range out.Items {
		results = append(results, domain.SearchResult{
			Title:   strings.TrimSpace(it.Title),
			URL:     strings.TrimSpace(it.Link),
			Snippet: strings.TrimSpace(strings.ReplaceAll(it.Snippet, "\n", " ")),
		})
	}
	return results, nil
}
