// Package provider abstracts the completion backend that turns a
// natural-language request plus the current catalog into layout JSON.
package provider

import (
	"context"
	"fmt"
)

// Options tune one completion call.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// CompletionProvider is the backend surface the plugin layer consumes.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// ErrorKind classifies provider failures for the retry policy.
type ErrorKind string

const (
	KindNetwork         ErrorKind = "network"
	KindRateLimit       ErrorKind = "rate-limit"
	KindServer          ErrorKind = "server"
	KindAuth            ErrorKind = "auth"
	KindContentFiltered ErrorKind = "content-filtered"
	KindInvalid         ErrorKind = "invalid"
)

// Error is a classified provider failure. Network, rate-limit and
// server errors are retryable; auth and content-filter errors are not.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s error: %s", e.Kind, e.Message)
}

// Retryable reports whether the retry/backoff loop should try again.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindRateLimit, KindServer:
		return true
	}
	return false
}
