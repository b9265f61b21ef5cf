package domain

import (
	"encoding/json"
	"time"
)

// UsageEvent types recorded by the generation flow.
const (
	UsageEventGeneration = "generation"
	UsageEventBonusClaim = "bonus_claim"
)

// UsageEvent is one row of the usage log.
type UsageEvent struct {
	ID         string          `json:"id,omitempty"`
	UserID     string          `json:"user_id"`
	RequestID  string          `json:"request_id,omitempty"`
	EventType  string          `json:"event_type"`
	Success    bool            `json:"success"`
	LatencyMS  int             `json:"latency_ms"`
	Properties json.RawMessage `json:"properties,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
