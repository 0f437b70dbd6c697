// Package narration provides Narrator implementations: an HTTP client
// for an external prose service and a deterministic template fallback.
package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
)

// ClientConfig tunes the HTTP narrator.
type ClientConfig struct {
	Endpoint       string
	APIKey         string
	RequestTimeout time.Duration
	MaxElapsedTime time.Duration
}

// HTTPClient calls a narration service over HTTP. Transient failures
// retry with exponential backoff until MaxElapsedTime; the caller's
// context bounds the whole exchange.
type HTTPClient struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPClient(cfg ClientConfig, logger *zap.Logger) (*HTTPClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("narration endpoint is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.MaxElapsedTime <= 0 {
		cfg.MaxElapsedTime = 30 * time.Second
	}
	return &HTTPClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.Named("narration.http"),
	}, nil
}

func (c *HTTPClient) Narrate(ctx context.Context, nc ports.NarrationContext) (ports.NarrationResult, error) {
	body, err := json.Marshal(nc)
	if err != nil {
		return ports.NarrationResult{}, fmt.Errorf("marshal narration context: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.cfg.MaxElapsedTime

	var result ports.NarrationResult

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewBuffer(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create narration request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("narration request failed, retrying", zap.Error(err))
			return fmt.Errorf("execute narration request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read narration response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return c.handleStatus(resp.StatusCode, respBody)
		}

		if err := json.Unmarshal(respBody, &result); err != nil {
			return backoff.Permanent(fmt.Errorf("decode narration response: %w", err))
		}
		if result.Text == "" {
			return backoff.Permanent(ports.ErrResolutionIncomplete)
		}

		c.logger.Debug("narration complete",
			zap.String("session_id", nc.SessionID),
			zap.Int("round", nc.Round),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return ports.NarrationResult{}, err
	}
	return result, nil
}

func (c *HTTPClient) handleStatus(statusCode int, body []byte) error {
	err := fmt.Errorf("narration service status %d: %s", statusCode, string(body))
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusInternalServerError:
		return err
	default:
		return backoff.Permanent(err)
	}
}
