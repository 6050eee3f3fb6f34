package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alfredjeanlab/glossary/internal/model"
)

// HTTPClient implements GlossaryClient against the glossary service's
// HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:5000"). A zero timeout means no client-side limit.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Reads ---

func (c *HTTPClient) GetAllTerms(ctx context.Context) ([]*model.Term, error) {
	var resp struct {
		Terms []*model.Term `json:"terms"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/terms", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Terms == nil {
		resp.Terms = []*model.Term{}
	}
	return resp.Terms, nil
}

func (c *HTTPClient) GetGraph(ctx context.Context) (*model.Graph, error) {
	var graph model.Graph
	if err := c.doJSON(ctx, http.MethodGet, "/v1/graph", nil, &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}

func (c *HTTPClient) GetTermByName(ctx context.Context, name string) (*model.Term, error) {
	var term model.Term
	if err := c.doJSON(ctx, http.MethodGet, "/v1/terms/"+url.PathEscape(name), nil, &term); err != nil {
		return nil, err
	}
	return &term, nil
}

// --- Writes ---

func (c *HTTPClient) AddTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error) {
	return c.doWrite(ctx, http.MethodPost, "/v1/terms", term)
}

func (c *HTTPClient) UpdateTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error) {
	return c.doWrite(ctx, http.MethodPut, "/v1/terms/"+url.PathEscape(term.Name), term)
}

func (c *HTTPClient) DeleteTerm(ctx context.Context, name string) (*model.WriteResult, error) {
	return c.doWrite(ctx, http.MethodDelete, "/v1/terms/"+url.PathEscape(name), nil)
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Is makes a 404 APIError match model.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == model.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// doWrite performs a mutating request. A 4xx answer is the service refusing
// the write, so it is folded into an unsuccessful WriteResult; 5xx and
// transport failures stay errors.
func (c *HTTPClient) doWrite(ctx context.Context, method, path string, body any) (*model.WriteResult, error) {
	var result model.WriteResult
	err := c.doJSON(ctx, method, path, body, &result)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return &model.WriteResult{Success: false, Message: apiErr.Message}, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		if wr, ok := result.(*model.WriteResult); ok {
			wr.Success = true
		}
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &errResp) == nil {
			if errResp.Error != "" {
				return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
			}
			if errResp.Message != "" {
				return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if len(respBody) == 0 {
		if wr, ok := result.(*model.WriteResult); ok {
			wr.Success = true
		}
		return nil
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
