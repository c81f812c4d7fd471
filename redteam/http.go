package redteam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPSubmitterOptions configure NewHTTPSubmitter().
type HTTPSubmitterOptions struct {
	// HTTPClient performs the request. Defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// HTTPSubmitter posts scans to the red teaming REST surface at the project
// endpoint. There is no SDK for this surface.
type HTTPSubmitter struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var _ Submitter = (*HTTPSubmitter)(nil)

// NewHTTPSubmitter creates a Submitter for the given project endpoint.
func NewHTTPSubmitter(endpoint, apiKey string, optFns ...func(o *HTTPSubmitterOptions)) *HTTPSubmitter {
	opts := HTTPSubmitterOptions{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &HTTPSubmitter{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: opts.HTTPClient,
	}
}

type scanRequest struct {
	DisplayName      string   `json:"displayName"`
	TargetDeployment string   `json:"targetDeployment"`
	AttackStrategies []string `json:"attackStrategies"`
	RiskCategories   []string `json:"riskCategories"`
}

type scanResponse struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Submit implements Submitter.
func (s *HTTPSubmitter) Submit(ctx context.Context, scan Scan) (string, error) {
	body := scanRequest{
		DisplayName:      scan.DisplayName,
		TargetDeployment: scan.TargetDeployment,
	}
	for _, st := range scan.Strategies {
		body.AttackStrategies = append(body.AttackStrategies, string(st))
	}
	for _, rc := range scan.Categories {
		body.RiskCategories = append(body.RiskCategories, string(rc))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode scan: %w", err)
	}

	u, err := url.JoinPath(s.endpoint, "redTeams", "runs:run")
	if err != nil {
		return "", fmt.Errorf("build scan url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("red team service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode scan response: %w", err)
	}
	if out.Name != "" {
		return out.Name, nil
	}
	return out.ID, nil
}
