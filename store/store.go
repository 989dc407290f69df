// Package store persists a log of responses the mock server has served, so
// e2e suites can assert on what a run actually drew from the trajectory.
package store

import (
	"context"
	"time"
)

// ServedResponse is one replayed model turn as recorded by the server.
type ServedResponse struct {
	ID           string    `json:"id"`
	CompletionID string    `json:"completion_id"`
	EventKind    string    `json:"event_kind"`
	Streamed     bool      `json:"streamed"`
	FinishReason string    `json:"finish_reason"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReplayLog records and lists served responses.
type ReplayLog interface {
	RecordServed(ctx context.Context, served *ServedResponse) error
	ListServed(ctx context.Context) ([]*ServedResponse, error)
	Close() error
}
