package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultTimeout for API requests (analysis of long files can take time)
	DefaultTimeout = 10 * time.Minute

	// MaxUploadSize is the maximum media file size accepted by the service (2GB)
	MaxUploadSize = 2 * 1024 * 1024 * 1024
)

// uploadExtensions lists the media types the service accepts.
var uploadExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".wav": true, ".flac": true, ".ogg": true,
	".mp4": true, ".mkv": true, ".mov": true, ".avi": true, ".webm": true,
}

// Client talks to the ClipDeck service over JSON/REST.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	debug      bool
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithDebug enables request/response logging
func WithDebug(debug bool) ClientOption {
	return func(c *Client) {
		c.debug = debug
	}
}

// NewClient creates a new ClipDeck API client.
func NewClient(baseURL, token string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewClientFromEnv creates a client using the CLIPDECK_SERVER and
// CLIPDECK_TOKEN environment variables.
func NewClientFromEnv(opts ...ClientOption) (*Client, error) {
	server := os.Getenv("CLIPDECK_SERVER")
	if server == "" {
		return nil, fmt.Errorf("CLIPDECK_SERVER environment variable not set")
	}
	return NewClient(server, os.Getenv("CLIPDECK_TOKEN"), opts...)
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Upload sends a media file to the service and returns the created task's
// identity. The file is validated locally before any bytes move.
func (c *Client) Upload(ctx context.Context, path string) (*UploadResponse, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxUploadSize {
		return nil, fmt.Errorf("file size %d exceeds maximum %d bytes (2GB)", info.Size(), MaxUploadSize)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !uploadExtensions[ext] {
		return nil, fmt.Errorf("unsupported media type %q", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file to form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/upload", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(httpReq)

	var result UploadResponse
	if err := c.do(httpReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TaskStatus fetches the latest task record. Callers keep their existing
// task on error; this method never returns a partial record.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID is required")
	}

	var result Task
	if err := c.getJSON(ctx, "/api/tasks/"+taskID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Analyze triggers transcription and segmentation of an uploaded task.
func (c *Client) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	if req.TaskID == "" {
		return nil, fmt.Errorf("task ID is required")
	}
	if req.MinSegmentLength > 0 && req.MaxSegmentLength > 0 && req.MinSegmentLength >= req.MaxSegmentLength {
		return nil, fmt.Errorf("min segment length %.1f must be below max %.1f", req.MinSegmentLength, req.MaxSegmentLength)
	}

	var result AnalyzeResponse
	if err := c.postJSON(ctx, "/api/analyze", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Split produces one output file per requested segment.
func (c *Client) Split(ctx context.Context, req *SplitRequest) (*SplitResponse, error) {
	if req.TaskID == "" {
		return nil, fmt.Errorf("task ID is required")
	}
	if len(req.Segments) == 0 {
		return nil, fmt.Errorf("at least one segment is required")
	}

	var result SplitResponse
	if err := c.postJSON(ctx, "/api/split", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Cleanup releases server-side data for a task.
func (c *Client) Cleanup(ctx context.Context, taskID string) (*CleanupResponse, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID is required")
	}

	var result CleanupResponse
	if err := c.postJSON(ctx, "/api/tasks/"+taskID+"/cleanup", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Download fetches one output file into dir and returns the local path.
func (c *Client) Download(ctx context.Context, file OutputFile, dir string) (string, error) {
	if file.DownloadURL == "" {
		return "", fmt.Errorf("file %s has no download URL", file.ID)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	url := file.DownloadURL
	if strings.HasPrefix(url, "/") {
		url = c.baseURL + url
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", c.decodeError(resp.StatusCode, body)
	}

	name := file.Name
	if name == "" {
		name = file.ID
	}
	dest := filepath.Join(dir, filepath.Base(name))

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return dest, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.debug {
		fmt.Printf("[DEBUG] %s %s\n", req.Method, req.URL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		fmt.Printf("[DEBUG] Response status: %d\n", resp.StatusCode)
		if len(respBody) < 2000 {
			fmt.Printf("[DEBUG] Response body: %s\n", string(respBody))
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(status int, body []byte) error {
	if status == http.StatusPaymentRequired {
		var be BalanceError
		if err := json.Unmarshal(body, &be); err == nil {
			return &be
		}
	}

	var ae Error
	if err := json.Unmarshal(body, &ae); err != nil || (ae.Message == "" && ae.Code == "") {
		return &Error{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}
	ae.StatusCode = status
	return &ae
}
