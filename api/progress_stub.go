//go:build !realtime

package api

import (
	"context"
	"fmt"
)

// ProgressClient subscribes to live task status updates over a WebSocket.
// Note: This is a stub. Build with -tags=realtime to enable the live feed;
// without it the console falls back to interval polling.
type ProgressClient struct {
	baseURL string
	token   string
	config  *ProgressConfig
	debug   bool
}

// ErrRealtimeNotAvailable is returned when the live progress feed is used
// without the realtime build tag.
var ErrRealtimeNotAvailable = fmt.Errorf("live progress feed not available: build with -tags=realtime")

// NewProgressClient creates a progress subscriber for one task.
// Note: This is a stub. Build with -tags=realtime to enable.
func NewProgressClient(baseURL, token string, config *ProgressConfig, debug bool) (*ProgressClient, error) {
	return nil, ErrRealtimeNotAvailable
}

// Connect establishes the WebSocket connection and subscribes to the task.
func (c *ProgressClient) Connect(ctx context.Context) error {
	return ErrRealtimeNotAvailable
}

// Close closes the WebSocket connection.
func (c *ProgressClient) Close() error {
	return nil
}

// IsConnected returns whether the client is connected.
func (c *ProgressClient) IsConnected() bool {
	return false
}
