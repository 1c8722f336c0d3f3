// Package scoring provides a client for a remote model scoring service.
// The service hosts the fitted regressor and exposes it over HTTP, which lets
// the estimator run without a local model artifact.
//
// Calls are never retried: a failed prediction is deterministic for its input
// and is surfaced to the caller as models.ErrPredictionFailure.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rewired-gh/ppsf/internal/models"
)

// Client calls a remote scoring service. It implements model.Model.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ModelInfo describes the model the service is serving.
type ModelInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	FeatureNames []string `json:"feature_names"`
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Prediction *float64 `json:"prediction"`
	Error      string   `json:"error,omitempty"`
}

// NewClient creates a new scoring client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict sends one feature row to POST /predict and returns the raw prediction.
func (c *Client) Predict(ctx context.Context, features []float64) (float64, error) {
	body, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("%w: failed to encode request: %v", models.ErrPredictionFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrPredictionFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: scoring request failed: %v", models.ErrPredictionFailure, err)
	}
	defer resp.Body.Close()

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode < 300 {
		return 0, fmt.Errorf("%w: failed to decode prediction: %v", models.ErrPredictionFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != "" {
			return 0, fmt.Errorf("%w: scoring service returned %d: %s", models.ErrPredictionFailure, resp.StatusCode, out.Error)
		}
		return 0, fmt.Errorf("%w: scoring service returned %d", models.ErrPredictionFailure, resp.StatusCode)
	}
	if out.Prediction == nil {
		return 0, fmt.Errorf("%w: response has no prediction", models.ErrPredictionFailure)
	}

	return *out.Prediction, nil
}

// FetchModelInfo retrieves GET /model.
func (c *Client) FetchModelInfo(ctx context.Context) (*ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/model", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("model info returned status %d", resp.StatusCode)
	}

	var info ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode model info: %w", err)
	}
	return &info, nil
}

// CheckFeatures confirms the remote model expects exactly featureNames.
// Failures are reported as models.ErrModelUnavailable.
func (c *Client) CheckFeatures(ctx context.Context, featureNames []string) (*ModelInfo, error) {
	info, err := c.FetchModelInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}

	if len(info.FeatureNames) != len(featureNames) {
		return nil, fmt.Errorf("%w: remote model expects %d features, builder produces %d",
			models.ErrModelUnavailable, len(info.FeatureNames), len(featureNames))
	}
	for i, name := range featureNames {
		if info.FeatureNames[i] != name {
			return nil, fmt.Errorf("%w: schema mismatch at feature %d: remote %q, local %q",
				models.ErrModelUnavailable, i, info.FeatureNames[i], name)
		}
	}
	return info, nil
}
