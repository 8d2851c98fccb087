package game

import "math"

// NLanes is the number of input lanes of every chart.
const NLanes = 8

type Note struct {
	Time      float64 // Track time the note should be hit
	Release   float64 // Track time a hold note should be let go, 0 for taps
	Lifetime  float64 // Track time span the note is visible before Time
	JudgeGate float64 // Track time after Time before the tick loop judges it
}

// Sentinel terminates every lane so head lookups never run off the end.
var Sentinel = Note{Time: math.Inf(1)}

func (n *Note) Timestamp() float64 {
	return math.Max(n.Time, n.Release)
}

func (n *Note) IsHold() bool {
	return n.Release != 0
}
