//go:build realtime

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ProgressClient subscribes to live task status updates over a WebSocket,
// as an alternative to interval polling. Updates carry the same Task record
// as a REST refresh and obey the same last-write-wins rule.
type ProgressClient struct {
	baseURL   string
	token     string
	config    *ProgressConfig
	conn      *websocket.Conn
	mu        sync.Mutex
	connected bool
	closed    bool
	debug     bool
}

type progressResponse struct {
	Type    string `json:"type"`
	Task    *Task  `json:"task,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type subscribeMessage struct {
	Type   string `json:"type"`
	TaskID string `json:"task_id"`
}

// NewProgressClient creates a progress subscriber for one task.
func NewProgressClient(baseURL, token string, config *ProgressConfig, debug bool) (*ProgressClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if config == nil || config.TaskID == "" {
		return nil, fmt.Errorf("task ID is required")
	}

	return &ProgressClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		config:  config,
		debug:   debug,
	}, nil
}

// Connect establishes the WebSocket connection and subscribes to the task.
func (c *ProgressClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return fmt.Errorf("already connected")
	}

	url := wsURL(c.baseURL) + "/api/progress"
	if c.debug {
		fmt.Printf("[DEBUG] Connecting to WebSocket: %s\n", url)
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("WebSocket connection failed (status %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("WebSocket connection failed: %w", err)
	}

	c.conn = conn
	c.connected = true

	if err := conn.WriteJSON(subscribeMessage{Type: "subscribe", TaskID: c.config.TaskID}); err != nil {
		c.closeLocked()
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.readResponses()
	return nil
}

func (c *ProgressClient) readResponses() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		c.mu.Lock()
		conn := c.conn
		closed := c.closed
		c.mu.Unlock()

		if closed || conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			isClosed := c.closed
			onError := c.config.OnError
			c.mu.Unlock()

			if onError != nil && !isClosed {
				onError(fmt.Errorf("progress stream read error: %w", err))
			}
			return
		}

		if c.debug {
			fmt.Printf("[DEBUG] Received: %s\n", string(message))
		}

		var resp progressResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			if c.config.OnError != nil {
				c.config.OnError(fmt.Errorf("failed to parse progress message: %w", err))
			}
			continue
		}

		switch resp.Type {
		case "task":
			if c.config.OnTask != nil && resp.Task != nil {
				c.config.OnTask(resp.Task)
			}
		case "error":
			if c.config.OnError != nil && resp.Error != nil {
				c.config.OnError(resp.Error)
			}
		case "subscribed":
			if c.debug {
				fmt.Println("[DEBUG] Progress subscription confirmed")
			}
		}
	}
}

// Close closes the WebSocket connection.
func (c *ProgressClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *ProgressClient) closeLocked() error {
	c.closed = true
	c.connected = false

	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// IsConnected returns whether the client is connected.
func (c *ProgressClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base
}
