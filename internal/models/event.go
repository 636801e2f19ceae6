package models

import "time"

// Ticker event types
const (
	EventTickerCompleted = "TICKER_COMPLETED"
	EventTickerFailed    = "TICKER_FAILED"
)

// TickerEvent represents a Kafka event emitted after a ticker was processed
type TickerEvent struct {
	EventType string        `json:"event_type"`
	Ticker    string        `json:"ticker"`
	Status    TrackerStatus `json:"status"`
	NewsCount int           `json:"news_count"`
	Float     string        `json:"float,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
