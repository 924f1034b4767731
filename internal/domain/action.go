package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActionTrigger is the cross-process message that lets a later, possibly
// out-of-process, user interaction invoke the dispatcher.
type ActionTrigger struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Data      string    `json:"data"`
	SourceRef SourceRef `json:"source_ref"`
	CreatedAt time.Time `json:"created_at"`
}

// NewActionTrigger serializes the result fields into a trigger payload.
func NewActionTrigger(result ClassificationResult, source SourceRef, now time.Time) (ActionTrigger, error) {
	data, err := json.Marshal(result.Fields)
	if err != nil {
		return ActionTrigger{}, fmt.Errorf("encode trigger data: %w", err)
	}
	return ActionTrigger{
		Category:  result.Category,
		Data:      string(data),
		SourceRef: source,
		CreatedAt: now,
	}, nil
}

// DecodeFields parses the serialized data payload.
func (t ActionTrigger) DecodeFields() (Fields, error) {
	var f Fields
	if t.Data == "" {
		return NewFields(), nil
	}
	if err := json.Unmarshal([]byte(t.Data), &f); err != nil {
		return Fields{}, fmt.Errorf("decode trigger data: %w", err)
	}
	return f, nil
}

// Outcome is what a handler reports after a successful side effect.
type Outcome struct {
	Message string
}
