package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"primordia/config"
	"primordia/model"
	"strings"
	"time"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "primordia-console/1.0"
)

// Client talks to the Primordia orchestration REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type response struct {
	status      int
	contentType string
	body        []byte
}

func (r *response) isJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.contentType)
	if err != nil {
		return strings.Contains(r.contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// do performs one round trip. Status checking is left to the caller.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Gateway] %s %s failed after %v: %v", method, path, time.Since(start), err)
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Gateway] %s %s -> %d (%d bytes, %v)", method, path, resp.StatusCode, len(data), time.Since(start))
	}

	return &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
	}, nil
}

// expectOK turns any non-2xx response into an *HTTPError.
func expectOK(resp *response) error {
	if resp.status < 200 || resp.status > 299 {
		return &HTTPError{StatusCode: resp.status, Body: string(resp.body)}
	}
	return nil
}

func decodeInto(resp *response, v any) error {
	if err := json.Unmarshal(resp.body, v); err != nil {
		return fmt.Errorf("unexpected response body: %w", err)
	}
	return nil
}

// decodeLoose returns decoded JSON for JSON responses and the raw text otherwise.
func decodeLoose(resp *response) (any, error) {
	if !resp.isJSON() {
		return string(resp.body), nil
	}
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(resp.body, &v); err != nil {
		return nil, fmt.Errorf("unexpected response body: %w", err)
	}
	return v, nil
}

func (c *Client) ListFiles(ctx context.Context) (FileList, error) {
	resp, err := c.do(ctx, http.MethodGet, "/files", nil, nil)
	if err != nil {
		return FileList{}, err
	}
	if err := expectOK(resp); err != nil {
		return FileList{}, err
	}

	var raw struct {
		Files *[]string `json:"files"`
	}
	if err := decodeInto(resp, &raw); err != nil {
		return FileList{}, err
	}
	if raw.Files == nil {
		return FileList{}, fmt.Errorf("unexpected response body: missing files")
	}
	return FileList{Files: *raw.Files}, nil
}

// ReadFile returns the file content exactly as stored, whatever content type
// the backend labels it with.
func (c *Client) ReadFile(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/file", url.Values{"path": {path}}, nil)
	if err != nil {
		return "", err
	}
	if err := expectOK(resp); err != nil {
		return "", err
	}
	return string(resp.body), nil
}

func (c *Client) WriteFile(ctx context.Context, path, content string) (WriteResult, error) {
	resp, err := c.do(ctx, http.MethodPost, "/file", nil, writeFileRequest{Path: path, Content: content})
	if err != nil {
		return WriteResult{}, err
	}
	if err := expectOK(resp); err != nil {
		return WriteResult{}, err
	}

	var result WriteResult
	if !resp.isJSON() {
		return WriteResult{Success: true, Message: string(resp.body)}, nil
	}
	if err := decodeInto(resp, &result); err != nil {
		return WriteResult{}, err
	}
	return result, nil
}

// SubmitWorkspaceJob queues a blueprint job. Only 202 Accepted counts as success.
func (c *Client) SubmitWorkspaceJob(ctx context.Context, jobType, name string) (JobAccepted, error) {
	resp, err := c.do(ctx, http.MethodPost, "/workspace", nil, submitJobRequest{Type: jobType, Name: name})
	if err != nil {
		return JobAccepted{}, err
	}
	if resp.status != http.StatusAccepted {
		return JobAccepted{}, &HTTPError{
			StatusCode: resp.status,
			Expected:   http.StatusAccepted,
			Body:       string(resp.body),
		}
	}

	var accepted JobAccepted
	if err := decodeInto(resp, &accepted); err != nil {
		return JobAccepted{}, err
	}
	if accepted.JobID == "" {
		return JobAccepted{}, fmt.Errorf("unexpected response body: missing jobId")
	}
	return accepted, nil
}

func (c *Client) GetWorkspaceJobStatus(ctx context.Context, jobID string) (model.JobDocument, error) {
	resp, err := c.do(ctx, http.MethodGet, "/workspace/status/"+url.PathEscape(jobID), nil, nil)
	if err != nil {
		return model.JobDocument{}, err
	}
	if err := expectOK(resp); err != nil {
		return model.JobDocument{}, err
	}

	var doc model.JobDocument
	if err := decodeInto(resp, &doc); err != nil {
		return model.JobDocument{}, err
	}
	if doc.JobID == "" {
		return model.JobDocument{}, fmt.Errorf("unexpected response body: missing jobId")
	}
	if !doc.Status.Valid() {
		return model.JobDocument{}, fmt.Errorf("unexpected job status %q", doc.Status)
	}
	return doc, nil
}

// ProxyRequest forwards a request to a deployed service. The result is the
// decoded JSON body, or the raw text when the service does not answer JSON.
func (c *Client) ProxyRequest(ctx context.Context, req ProxyRequest) (any, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = MethodGet
	}
	if !proxyMethods[method] {
		return nil, fmt.Errorf("unsupported proxy method %q", req.Method)
	}
	if req.URL == "" {
		return nil, fmt.Errorf("proxy url is required")
	}
	req.Method = method

	resp, err := c.do(ctx, http.MethodPost, "/workspace/proxy", nil, req)
	if err != nil {
		return nil, err
	}
	if err := expectOK(resp); err != nil {
		return nil, err
	}
	return decodeLoose(resp)
}
