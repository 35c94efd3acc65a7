package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an error response from the ClipDeck API.
type Error struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error (status %d)", e.StatusCode)
}

// BalanceError is returned when the account balance cannot cover the
// requested operation (HTTP 402).
type BalanceError struct {
	Current  float64 `json:"current_balance"`
	Required float64 `json:"required_amount"`
	Message  string  `json:"message"`
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %.2f, need %.2f", e.Current, e.Required)
}

// AsBalanceError unwraps err into a *BalanceError if it is one.
func AsBalanceError(err error) (*BalanceError, bool) {
	var be *BalanceError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsInvalidTask reports whether err means the task is unknown or expired on
// the server (HTTP 400).
func IsInvalidTask(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.StatusCode == http.StatusBadRequest
}

// IsTransport reports whether err is a network-level failure rather than a
// server-issued error. Transport errors are retry-eligible.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var ae *Error
	var be *BalanceError
	return !errors.As(err, &ae) && !errors.As(err, &be)
}
