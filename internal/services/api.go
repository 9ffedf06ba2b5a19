package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/statsdash/internal/shared"
	"golang.org/x/oauth2"
)

// APIService provides methods for making HTTP requests to the analytics backend.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the analytics backend.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// Get performs an unauthenticated GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.get(ctx, a.httpClient, path)
}

// GetBearer performs a GET request with credential sent as a bearer token.
func (a *APIService) GetBearer(ctx context.Context, path, credential string) (*APIResponse, error) {
	if credential == "" {
		return nil, fmt.Errorf("%w: bearer credential is empty", shared.ErrAuthMissing)
	}

	// A copy of the base client keeps its Timeout, Jar and CheckRedirect; only the transport is wrapped.
	client := *a.httpClient
	client.Transport = &oauth2.Transport{
		Base:   a.httpClient.Transport,
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential, TokenType: "Bearer"}),
	}

	return a.get(ctx, &client, path)
}

func (a *APIService) get(ctx context.Context, client *http.Client, path string) (*APIResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
