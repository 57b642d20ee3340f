// Package client is the HTTP client the dashboard uses to talk to the backend.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// StatusError is a non-2xx response without a decodable body
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client calls the heatmap and analysis endpoints
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for baseURL; token is sent as a bearer token when set
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type pointsEnvelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    models.HeatmapResponse `json:"data"`
}

// FetchPoints reads the heatmap points matching f
func (c *Client) FetchPoints(ctx context.Context, f models.HeatmapFilters) ([]models.HeatmapPoint, error) {
	q := url.Values{}
	if len(f.Keywords) > 0 {
		q.Set("keywords", strings.Join(f.Keywords, ","))
	}
	q.Set("start", f.StartKey())
	q.Set("end", f.EndKey())
	q.Set("min_sentiment", strconv.FormatFloat(f.MinSentiment, 'f', -1, 64))
	q.Set("max_sentiment", strconv.FormatFloat(f.MaxSentiment, 'f', -1, 64))
	q.Set("min_engagement", strconv.FormatFloat(f.MinEngagement, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/heatmap/points?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{StatusCode: status, Body: string(body)}
	}

	var env pointsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode heatmap points: %w", err)
	}
	if env.Data.Points == nil {
		return []models.HeatmapPoint{}, nil
	}
	return env.Data.Points, nil
}

// TriggerAnalysis posts an analysis action. Error envelopes are returned as
// values; only transport failures and undecodable responses are errors.
func (c *Client) TriggerAnalysis(ctx context.Context, action models.AnalysisAction, batchSize int) (*models.AnalysisEnvelope, error) {
	payload, err := json.Marshal(models.AnalysisRequest{Action: action, BatchSize: batchSize})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/v1/analyze-linkedin", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var env models.AnalysisEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &StatusError{StatusCode: status, Body: string(body)}
	}
	if !env.Success && env.Error == "" {
		env.Error = fmt.Sprintf("analysis failed with status %d", status)
	}
	return &env, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
