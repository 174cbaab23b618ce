package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestType identifies the type of request in the queue
type RequestType string

const (
	// RequestTypeEndPhase asks a worker to simulate the current phase.
	RequestTypeEndPhase RequestType = "end_phase"
)

// Request is one unit of work on the shared requests list.
type Request struct {
	RequestID   string      `json:"request_id"`
	Type        RequestType `json:"type"`
	GameStateID uuid.UUID   `json:"game_state_id"`

	// Day and Phase identify the phase being closed, so a stale request
	// left over from an earlier phase can be recognised and dropped.
	Day   int    `json:"day"`
	Phase string `json:"phase"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewEndPhaseRequest stamps a fresh request id.
func NewEndPhaseRequest(gameID uuid.UUID, day int, phase string) *Request {
	return &Request{
		RequestID:   uuid.New().String(),
		Type:        RequestTypeEndPhase,
		GameStateID: gameID,
		Day:         day,
		Phase:       phase,
		EnqueuedAt:  time.Now().UTC(),
	}
}

// MarshalJSON serializes the request to JSON for Redis storage
func (r *Request) MarshalJSON() ([]byte, error) {
	type Alias Request
	return json.Marshal(&struct {
		GameStateID string `json:"game_state_id"`
		*Alias
	}{
		GameStateID: r.GameStateID.String(),
		Alias:       (*Alias)(r),
	})
}

// UnmarshalJSON deserializes the request from JSON in Redis
func (r *Request) UnmarshalJSON(data []byte) error {
	type Alias Request
	aux := &struct {
		GameStateID string `json:"game_state_id"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	gameStateID, err := uuid.Parse(aux.GameStateID)
	if err != nil {
		return fmt.Errorf("invalid game_state_id: %w", err)
	}
	r.GameStateID = gameStateID
	return nil
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
