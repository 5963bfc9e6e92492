package core

import "github.com/google/uuid"

// Query is the immutable input of one task: free text plus the session id the
// caller supplied. SessionID is only used for log correlation.
type Query struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
}

// NewID returns a random UUID string used for message and artifact ids.
func NewID() string { return uuid.NewString() }
