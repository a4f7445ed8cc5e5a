package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gyarumi/internal/domain"
)

const classifyPath = "/v1/intent/classify"

var ErrNoServer = errors.New("intent: no classify server configured")

// Client asks a running mood-server for intent flags so a CLI sees the
// same keyword tables as the deployed service.
type Client struct {
	endpoint string
	hc       *http.Client
}

func NewClient(server string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 1500 * time.Millisecond
	}
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	c := &Client{hc: &http.Client{Timeout: timeout}}
	if server != "" {
		c.endpoint = server + classifyPath
	}
	return c
}

func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != ""
}

type classifyPayload struct {
	Text string `json:"text"`
}

type serverError struct {
	Error string `json:"error"`
}

func (c *Client) Classify(ctx context.Context, text string) (domain.IntentFlags, error) {
	var flags domain.IntentFlags
	if !c.Enabled() {
		return flags, ErrNoServer
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(classifyPayload{Text: text}); err != nil {
		return flags, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return flags, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return flags, fmt.Errorf("intent: classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var se serverError
		if json.NewDecoder(resp.Body).Decode(&se) == nil && se.Error != "" {
			return flags, fmt.Errorf("intent: server rejected text (%d): %s", resp.StatusCode, se.Error)
		}
		return flags, fmt.Errorf("intent: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&flags); err != nil {
		return flags, fmt.Errorf("intent: decode flags: %w", err)
	}
	return flags, nil
}
