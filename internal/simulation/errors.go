package simulation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoProgress is returned when a run uses up its step budget before
// reaching the end of the span
var ErrNoProgress = errors.New("simulation made no progress")

// StarvationError reports the moment the crew could no longer be fed
type StarvationError struct {
	At       float64 // Seconds from run start
	Crew     int
	Limiting []string
}

func (e *StarvationError) Error() string {
	msg := fmt.Sprintf("crew of %d cannot be fed after %.0f seconds", e.Crew, e.At)
	if len(e.Limiting) > 0 {
		msg += " (limited by " + strings.Join(e.Limiting, ", ") + ")"
	}
	return msg
}
