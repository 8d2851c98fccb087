package game

import (
	"math"

	"git.lost.host/meutraa/eotw/internal/queue"
)

// Segment is an interval over which track time advances linearly
// with the playback clock.
type Segment struct {
	Second   float64 // Playback second the segment starts at
	Track    float64 // Track time at Second
	Velocity float64 // Track units per second
	BPM      float64
}

// At projects a playback second into track time.
func (s *Segment) At(second float64) float64 {
	return s.Track + (second-s.Second)*s.Velocity
}

type Timeline struct {
	queue.Queue[Segment]
}

// Terminate appends the +Inf sentinel segment.
func (t *Timeline) Terminate() {
	t.Push(Segment{Second: math.Inf(1)})
}

// Forward advances to the segment active at second. Seconds must not
// decrease between calls, the cursor never moves backward.
func (t *Timeline) Forward(second float64) *Segment {
	for t.At(1).Second <= second {
		t.Shift()
	}
	return t.At(0)
}

// Locate returns the last segment starting at or before second without
// moving the cursor. Lookups may come in any order.
func (t *Timeline) Locate(second float64) *Segment {
	found := t.At(0)
	for i := 1; i < t.Len(); i++ {
		s := t.At(i)
		if s.Second > second {
			break
		}
		found = s
	}
	return found
}
