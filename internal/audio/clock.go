package audio

import "time"

// Clock supplies the playback second. Readings never decrease.
type Clock interface {
	Second() float64
}

// WallClock counts from a start instant, negative before it. It drives
// autoplay sessions that have no audio.
type WallClock struct {
	start time.Time
	now   func() time.Time
}

func NewWallClock(delay time.Duration) *WallClock {
	return &WallClock{start: time.Now().Add(delay), now: time.Now}
}

func (c *WallClock) Second() float64 {
	return c.now().Sub(c.start).Seconds()
}

// Offset shifts another clock by a fixed duration.
type Offset struct {
	Clock
	By time.Duration
}

func (c Offset) Second() float64 {
	return c.Clock.Second() + c.By.Seconds()
}
