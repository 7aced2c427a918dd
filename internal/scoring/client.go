package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/intent-score/internal/domain"
	"github.com/spec-kit/intent-score/internal/observability"
)

// ScorePath is the remote scoring endpoint relative to the base URL.
const ScorePath = "/api/score-lead"

const maxResponseBytes = 1 << 20

var errRemoteDisabled = errors.New("remote scoring disabled")

// Outcome is a scoring result tagged with the path that produced it.
// Both sources are successful from the caller's point of view.
type Outcome struct {
	Source domain.ScoreSource
	Result domain.ScoreResult
	// Reason explains why the fallback path ran; empty for remote results.
	Reason string
}

// Remote reports whether the score came from the remote endpoint.
func (o Outcome) Remote() bool {
	return o.Source == domain.ScoreSourceRemote
}

// ClientConfig configures the remote scoring client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Client scores leads remotely and falls back to the local engine on any failure.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	engine     *Engine
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a client. An empty base URL disables the remote call.
func NewClient(cfg ClientConfig, engine *Engine, logger *zap.Logger, opts ...ClientOption) *Client {
	if engine == nil {
		engine = NewEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		engine:     engine,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit scores attrs. It never fails: remote errors are logged and the
// local engine's result is returned with a fallback source.
func (c *Client) Submit(ctx context.Context, attrs domain.LeadAttributes) Outcome {
	result, err := c.scoreRemote(ctx, attrs)
	if err == nil {
		c.metrics.RecordScore(string(domain.ScoreSourceRemote))
		return Outcome{Source: domain.ScoreSourceRemote, Result: result}
	}

	c.logger.Warn("remote scoring failed; using local engine",
		zap.String("endpoint", c.baseURL+ScorePath),
		zap.Error(err),
	)
	c.metrics.RecordScore(string(domain.ScoreSourceFallback))
	return Outcome{
		Source: domain.ScoreSourceFallback,
		Result: c.engine.Score(attrs),
		Reason: err.Error(),
	}
}

func (c *Client) scoreRemote(ctx context.Context, attrs domain.LeadAttributes) (domain.ScoreResult, error) {
	if c.baseURL == "" {
		return domain.ScoreResult{}, errRemoteDisabled
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(attrs)
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ScorePath, bytes.NewReader(body))
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("call scorer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return domain.ScoreResult{}, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return decodeScore(io.LimitReader(resp.Body, maxResponseBytes))
}

type remoteScore struct {
	InitialScore  *float64           `json:"initialScore"`
	RerankedScore *float64           `json:"rerankedScore"`
	Factors       map[string]float64 `json:"factors"`
}

func decodeScore(r io.Reader) (domain.ScoreResult, error) {
	var payload remoteScore
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return domain.ScoreResult{}, fmt.Errorf("decode response: %w", err)
	}
	initial, err := boundedScore("initialScore", payload.InitialScore)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	reranked, err := boundedScore("rerankedScore", payload.RerankedScore)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	return domain.ScoreResult{
		InitialScore:  initial,
		RerankedScore: reranked,
		Factors:       payload.Factors,
	}, nil
}

func boundedScore(field string, v *float64) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("malformed response: %s missing", field)
	}
	if math.IsNaN(*v) || *v < minScore || *v > maxScore {
		return 0, fmt.Errorf("malformed response: %s out of range (%v)", field, *v)
	}
	return int(math.Round(*v)), nil
}
