package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewRequestID generates an id for correlating log lines of one request
func NewRequestID() string {
	return uuid.NewString()
}

// NewTrackingToken generates a short upper-case token customers can quote,
// e.g. "TRK-9F1C2A7B3D4E"
func NewTrackingToken() string {
	return "TRK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
}
