package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"funcplane/pkg/api"
)

// APIClient handles calls to the funcplane daemon.
type APIClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewAPIClient creates a new client with the given base URL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		// Runs block for the whole subprocess lifetime, so the client
		// timeout has to cover a full entrypoint execution.
		HTTPClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// APIError represents an error response from the daemon.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

func (c *APIClient) do(method, endpoint string, reqBody, respBody interface{}) error {
	var body io.Reader
	if reqBody != nil {
		bodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequest(method, c.BaseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Add("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
	}

	if respBody != nil {
		if err := json.Unmarshal(raw, respBody); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// RegisterFunction sends POST /functions to register a function definition.
func (c *APIClient) RegisterFunction(req api.RegisterFunctionRequest) (*api.RegisterFunctionResponse, error) {
	var result api.RegisterFunctionResponse
	if err := c.do(http.MethodPost, "/functions", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListFunctions sends GET /functions.
func (c *APIClient) ListFunctions() (*api.ListFunctionsResponse, error) {
	var result api.ListFunctionsResponse
	if err := c.do(http.MethodGet, "/functions", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFunction sends GET /functions/{title}.
func (c *APIClient) GetFunction(title string) (*api.FunctionResponse, error) {
	var result api.FunctionResponse
	if err := c.do(http.MethodGet, "/functions/"+url.PathEscape(title), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RunFunction sends POST /functions/{title}/run and blocks until the run
// finishes.
func (c *APIClient) RunFunction(title string, req api.RunFunctionRequest) (*api.RunFunctionResponse, error) {
	var result api.RunFunctionResponse
	if err := c.do(http.MethodPost, "/functions/"+url.PathEscape(title)+"/run", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListJobs sends GET /jobs.
func (c *APIClient) ListJobs() (*api.ListJobsResponse, error) {
	var result api.ListJobsResponse
	if err := c.do(http.MethodGet, "/jobs", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetJob sends GET /jobs/{id}.
func (c *APIClient) GetJob(jobID string) (*api.JobResponse, error) {
	var result api.JobResponse
	if err := c.do(http.MethodGet, "/jobs/"+url.PathEscape(jobID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLogs sends GET /jobs/{id}/logs.
func (c *APIClient) GetLogs(jobID string) (*api.GetLogsResponse, error) {
	var result api.GetLogsResponse
	if err := c.do(http.MethodGet, "/jobs/"+url.PathEscape(jobID)+"/logs", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StopJob sends POST /jobs/{id}/stop.
func (c *APIClient) StopJob(jobID string) (*api.StopJobResponse, error) {
	var result api.StopJobResponse
	if err := c.do(http.MethodPost, "/jobs/"+url.PathEscape(jobID)+"/stop", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
