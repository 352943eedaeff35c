package storage

import "time"

// Mode records which relay path produced a reply.
type Mode string

const (
	ModeStream   Mode = "stream"
	ModeBuffered Mode = "buffered"
	ModeMock     Mode = "mock"
)

// TranscriptRecord is one completed negotiation exchange.
type TranscriptRecord struct {
	ID              string // UUID, assigned on insert when empty
	RequestID       string // HTTP request ID, may be empty
	ProductID       string
	ProductName     string
	ListPrice       float64
	Mode            Mode
	CustomerMessage string // Latest user message of the request
	Reply           string // Full assistant reply as sent to the client
	CreatedAt       time.Time
}
