package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// Remote calls an external tagging service over HTTP.
//
// Request:  POST <url> {"tokens": ["Dr", "Smith"]}
// Response: {"tags": [["Dr", "NNP"], ["Smith", "NNP"]]}
//
// Every failure (transport, status, decoding, length mismatch, rate-limit
// wait aborted) is reported as internalerr.ErrTaggingUnavailable.
type Remote struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

// NewRemote creates a remote tagger. requestsPerSecond <= 0 disables rate
// limiting. A nil client uses a client with a 10s timeout.
func NewRemote(url string, requestsPerSecond float64, burst int, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Remote{
		url:     url,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}
}

type remoteRequest struct {
	Tokens []string `json:"tokens"`
}

type remoteResponse struct {
	Tags [][2]string `json:"tags"`
}

// Tag implements Tagger.
func (r *Remote) Tag(ctx context.Context, tokens []string) ([]Pair, error) {
	if len(tokens) == 0 {
		return []Pair{}, nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, unavailable("rate limit wait", err)
	}

	body, err := json.Marshal(remoteRequest{Tokens: tokens})
	if err != nil {
		return nil, unavailable("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, unavailable("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, unavailable("request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("%w: status %d: %s", internalerr.ErrTaggingUnavailable, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var decoded remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, unavailable("decode response", err)
	}
	if len(decoded.Tags) != len(tokens) {
		return nil, fmt.Errorf("%w: sent %d tokens, got %d tags", internalerr.ErrTaggingUnavailable, len(tokens), len(decoded.Tags))
	}

	pairs := make([]Pair, len(tokens))
	for i, tok := range tokens {
		// Keep the lexeme as given; the service may normalise its echo.
		pairs[i] = Pair{Token: tok, Tag: decoded.Tags[i][1]}
	}
	return pairs, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", internalerr.ErrTaggingUnavailable, op, err)
}
