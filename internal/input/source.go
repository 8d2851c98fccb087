package input

import "time"

type Control uint8

const (
	None Control = iota
	Quit
	Faster
	Slower
)

// Event is a lane press or release, or a control key when Control is
// set, in which case Lane is meaningless.
type Event struct {
	Lane    int
	Pressed bool
	Control Control
}

// Source delivers the key events that happened since the last poll.
type Source interface {
	Poll(now time.Time) []Event
	Close() error
}
