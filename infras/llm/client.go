package llm

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"hotelops/infras/metrics"
	"hotelops/infras/otel"
	"hotelops/shared/constant"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	maxAttempts         = 4
	metricsService      = "llm"
	endpointCompletions = "/chat/completions"
	defaultTemperature  = 0.3
	maxErrorBody        = 4096
)

var (
	ErrDisabled     = errors.New("llm: no api key configured")
	ErrUnauthorized = errors.New("llm: unauthorized")
	ErrEmptyReply   = errors.New("llm: empty completion")
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// client talks to an OpenAI compatible chat completions endpoint.
type client struct {
	baseURL string
	apiKey  string
	model   string
	hc      *http.Client
	rl      *rate.Limiter
	otel    otel.Otel
}

func newClient(baseURL, apiKey, model string, rps, timeoutSeconds int, otl otel.Otel) *client {
	if rps <= 0 {
		rps = 5
	}

	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		hc:      &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		otel:    otl,
	}
}

// complete sends one system+user exchange and returns the assistant reply.
// 429 and transient 5xx replies are retried honoring Retry-After.
func (c *client) complete(ctx context.Context, system, user string) (reply string, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelLLMScopeName, constant.OtelLLMScopeName+".complete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if c.apiKey == "" {
		return "", ErrDisabled
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    defaultTemperature,
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	if err = c.rl.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	var lastErr error

	for attempt := range maxAttempts {
		status, payload, wait, err := c.do(ctx, body)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}

			lastErr = err
			wait = backoff(attempt)
		}

		switch {
		case err != nil:
		case status == http.StatusOK:
			return decodeReply(payload)
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return "", ErrUnauthorized
		case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
			lastErr = fmt.Errorf("llm: remote %d", status)
			if wait == 0 {
				wait = backoff(attempt)
			}
		default:
			return "", fmt.Errorf("llm: bad status %d: %s", status, strings.TrimSpace(string(payload)))
		}

		if attempt == maxAttempts-1 || !sleepCtx(ctx, wait) {
			break
		}

		log.Warn().Err(lastErr).Int("attempt", attempt+1).Msg("retrying llm completion")
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	return "", lastErr
}

func (c *client) do(ctx context.Context, body []byte) (status int, payload []byte, retryWait time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpointCompletions, bytes.NewReader(body))
	if err != nil {
		return 0, nil, 0, fmt.Errorf("failed to build completion request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set(constant.RequestHeaderContentType, "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()

	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.ObserveExternal(metricsService, endpointCompletions, 0, time.Since(start))

		return 0, nil, 0, fmt.Errorf("failed to call llm: %w", err)
	}
	defer resp.Body.Close()

	metrics.ObserveExternal(metricsService, endpointCompletions, resp.StatusCode, time.Since(start))

	limit := int64(maxErrorBody)
	if resp.StatusCode == http.StatusOK {
		limit = 1 << 20
	}

	payload, err = io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return 0, nil, 0, fmt.Errorf("failed to read llm response: %w", err)
	}

	return resp.StatusCode, payload, retryAfter(resp), nil
}

func decodeReply(payload []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", fmt.Errorf("failed to decode completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyReply
	}

	return resp.Choices[0].Message.Content, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter reads Retry-After as seconds or an HTTP date, 0 when absent.
func retryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}

	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}

	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}

// backoff doubles from 200ms with up to 50% jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<attempt) * 200 * time.Millisecond

	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}

	return base + time.Duration(0.5*float64(b[0])/255.0*float64(base))
}
