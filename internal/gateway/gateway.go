// Package gateway implements the OpenAI-compatible chat-completions
// client for the model gateway, including token acquisition and
// custom trust-bundle support.
package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jalajpachoulydell/smart-code-review/internal/backend"
	"github.com/jalajpachoulydell/smart-code-review/internal/config"
)

// Client talks to an OpenAI-compatible model gateway. One request
// per backend call; the HTTP timeout is the only cancellation the
// pipeline relies on, so it must always be set.
type Client struct {
	baseURL       string
	token         string
	correlationID string
	httpCli       *http.Client
}

// NewClient builds a gateway client from config: resolves the access
// token for the configured token mode and wires the optional extra
// CA bundle into the transport.
func NewClient(cfg *config.Config) (*Client, error) {
	base := strings.TrimRight(cfg.GatewayBase, "/")
	if base == "" {
		return nil, fmt.Errorf("gateway_base is not configured")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	transport, err := NewTransport(cfg.ExtraCABundle)
	if err != nil {
		return nil, err
	}
	httpCli := &http.Client{Timeout: timeout, Transport: transport}

	token, err := resolveToken(cfg, httpCli)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:       base,
		token:         token,
		correlationID: cfg.CorrelationID,
		httpCli:       httpCli,
	}, nil
}

// NewTransport returns an http.Transport trusting the system roots
// plus the PEM bundle at caPath, if given. Shared with the GitHub
// client so enterprise hosts behind a private CA work for both.
func NewTransport(caPath string) (*http.Transport, error) {
	if caPath == "" {
		return http.DefaultTransport.(*http.Transport).Clone(), nil
	}

	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("read extra CA bundle: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", caPath)
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{RootCAs: pool}
	return tr, nil
}

// resolveToken returns a bearer token per the configured token mode.
func resolveToken(cfg *config.Config, httpCli *http.Client) (string, error) {
	switch strings.ToLower(cfg.TokenMode) {
	case config.TokenModePreissued, "":
		tok := strings.TrimSpace(cfg.AccessToken)
		if tok == "" {
			return "", fmt.Errorf(
				"token_mode is %q but access_token is empty",
				config.TokenModePreissued)
		}
		return tok, nil

	case config.TokenModeClientCredentials:
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return "", fmt.Errorf(
				"client_id and client_secret are required in %q mode",
				config.TokenModeClientCredentials)
		}
		if cfg.TokenURL == "" {
			return "", fmt.Errorf("token_url is required in %q mode",
				config.TokenModeClientCredentials)
		}
		return fetchClientCredentialsToken(httpCli, cfg)

	default:
		return "", fmt.Errorf("unknown token_mode: %s", cfg.TokenMode)
	}
}

func fetchClientCredentialsToken(httpCli *http.Client, cfg *config.Config) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
	}

	resp, err := httpCli.PostForm(cfg.TokenURL, form)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d: %s",
			resp.StatusCode, body)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access_token")
	}
	return tok.AccessToken, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate runs one chat completion against the given model. No
// retry on failure: a bad response surfaces to the orchestrator,
// which records it against this backend and moves on.
func (c *Client) Generate(ctx context.Context, model string, req backend.Request) (string, error) {
	messages := make([]chatMessage, 0, len(req.User)+1)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	for _, u := range req.User {
		messages = append(messages, chatMessage{Role: "user", Content: u})
	}

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Stream:      false,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	correlation := req.CorrelationID
	if correlation == "" {
		correlation = c.correlationID
	}
	if correlation != "" {
		httpReq.Header.Set("x-correlation-id", correlation)
	}

	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("gateway auth failed (%d): %s",
			resp.StatusCode, truncateBody(body))
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("gateway rate limit hit (429)")
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("gateway error (%d): %s",
			resp.StatusCode, truncateBody(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("gateway returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Invoker adapts the client to the orchestrator's invoker shape.
func (c *Client) Invoker() backend.Invoker {
	return func(ctx context.Context, backendID string, req backend.Request) (string, error) {
		return c.Generate(ctx, backendID, req)
	}
}

func truncateBody(body []byte) string {
	const max = 400
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
