package game

import "math"

type Judge uint8

// Bad doubles as "no judgement" where only hits can be stored,
// such as a pending hold.
const (
	Bad Judge = iota
	Cool
	Great
	Good
)

const (
	CoolWindow  = 0.025
	GreatWindow = 0.050
	GoodWindow  = 0.100
)

var judgeNames = [...]string{"BAD", "COOL", "GREAT", "GOOD"}

func (j Judge) String() string {
	if int(j) < len(judgeNames) {
		return judgeNames[j]
	}
	return "UNKNOWN"
}

// Classify maps a timing error inside the good window to a hit.
// ok is false when no window matches.
func Classify(offset float64) (j Judge, ok bool) {
	d := math.Abs(offset)
	switch {
	case d < CoolWindow:
		return Cool, true
	case d < GreatWindow:
		return Great, true
	case d < GoodWindow:
		return Good, true
	}
	return Bad, false
}

// Input is a recorded key event.
type Input struct {
	Lane    int     `json:"l"`
	Second  float64 `json:"s"`
	Pressed bool    `json:"p"`
}
