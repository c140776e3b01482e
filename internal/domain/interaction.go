package domain

import (
	"context"
	"time"
)

// SelectionEvent records one applied change to a session's selection.
type SelectionEvent struct {
	SessionID  string    `json:"session_id"`
	Field      Field     `json:"field"`
	Value      string    `json:"value"`
	Selection  Selection `json:"selection"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewSelectionEvent stamps a change with the current time.
func NewSelectionEvent(sessionID string, field Field, value string, sel Selection) SelectionEvent {
	return SelectionEvent{
		SessionID:  sessionID,
		Field:      field,
		Value:      value,
		Selection:  sel,
		OccurredAt: clock.Now().UTC(),
	}
}

// InteractionRecorder receives selection events, e.g. for an analytics stream.
type InteractionRecorder interface {
	Record(ctx context.Context, event SelectionEvent) error
}
