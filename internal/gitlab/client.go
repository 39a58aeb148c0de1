package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is used when neither --gitlab-url nor GITLAB_URL is set
	DefaultBaseURL = "https://gitlab.com"

	tokenHeader = "PRIVATE-TOKEN"
	perPage     = 100
)

// Client is a read-only client for the GitLab REST v4 API
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a new GitLab API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates a new GitLab API client with a custom HTTP client
func NewClientWithHTTPClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: httpClient,
	}
}

// GetRawFile returns the raw content of filePath in project at ref
func (c *Client) GetRawFile(ctx context.Context, project, filePath, ref string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/repository/files/%s/raw", c.projectURL(project), url.PathEscape(filePath))
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	return data, nil
}

// GetProject returns project metadata. A 404 yields ErrProjectNotFound.
func (c *Client) GetProject(ctx context.Context, project string) (*Project, error) {
	resp, err := c.get(ctx, c.projectURL(project))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrProjectNotFound, project, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	var p Project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &p, nil
}

// ListTree lists every entry of the repository recursively, following pagination
func (c *Client) ListTree(ctx context.Context, project, ref string) ([]TreeEntry, error) {
	var entries []TreeEntry

	page := "1"
	for page != "" {
		q := url.Values{}
		q.Set("recursive", "true")
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", page)
		if ref != "" {
			q.Set("ref", ref)
		}

		resp, err := c.get(ctx, c.projectURL(project)+"/repository/tree?"+q.Encode())
		if err != nil {
			return nil, err
		}

		var batch []TreeEntry
		err = json.NewDecoder(resp.Body).Decode(&batch)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		entries = append(entries, batch...)
		page = resp.Header.Get("X-Next-Page")
	}

	return entries, nil
}

func (c *Client) projectURL(project string) string {
	return fmt.Sprintf("%s/api/v4/projects/%s", c.BaseURL, url.PathEscape(project))
}

// get performs an authenticated GET and turns non-2xx responses into *APIError
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set(tokenHeader, c.Token)
	}

	slog.Debug("gitlab request", "method", req.Method, "url", endpoint)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	slog.Debug("gitlab response", "url", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &APIError{
			Method:     req.Method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return resp, nil
}
