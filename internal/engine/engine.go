package engine

import (
	"math"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/monitoring"
	"git.lost.host/meutraa/eotw/internal/score"
)

// Hooks notify the presentation side. Every hook is optional.
type Hooks struct {
	// Judged fires after a note is finalised or missed.
	Judged func(lane int, j game.Judge, s *score.Score)
	// Holding fires while a hold note waits for its release point.
	Holding func(lane int)
	// Checkpoint fires after a checkpoint flushed the combo.
	Checkpoint func(s *score.Score)
}

// PlayerState is the mutable side of a play attempt. Pending holds the
// onset judgement of a hold note per lane, game.Bad when none.
type PlayerState struct {
	TrackTime float64
	Pending   [game.NLanes]game.Judge
	Held      [game.NLanes]bool
	Latest    game.Judge
	Score     score.Score
	GameOver  bool

	// Offsets are the onset timing errors of hit notes in seconds,
	// positive when early.
	Offsets []float64
}

// Engine judges a chart against a playback clock. It is driven by Tick
// and the key events, and never runs on its own.
type Engine struct {
	chart    *game.Chart
	autoplay bool
	hooks    Hooks

	state   PlayerState
	second  float64
	segment *game.Segment
	inputs  []game.Input
}

// New rewinds the chart and starts a fresh attempt on it.
func New(chart *game.Chart, autoplay bool, hooks Hooks) *Engine {
	chart.Rewind()
	e := &Engine{
		chart:    chart,
		autoplay: autoplay,
		hooks:    hooks,
		second:   math.Inf(-1),
		segment:  chart.Timeline.At(0),
		inputs:   []game.Input{},
	}
	e.state.Score = score.New(chart.TotalNotes)
	e.state.TrackTime = math.Inf(-1)
	return e
}

// Tick advances to the playback second. A second earlier than the last
// one is clamped to it, the timeline cannot move backward.
func (e *Engine) Tick(second float64) {
	if second < e.second {
		monitoring.Logf("clock regressed from %.4fs to %.4fs, clamping", e.second, second)
		second = e.second
	}
	e.second = second
	e.segment = e.chart.Timeline.Forward(second)
	e.state.TrackTime = e.segment.At(second)

	gate := 1.0
	if e.autoplay {
		gate = 0
	}

	for i, lane := range e.chart.Lanes {
		released := false
		for {
			head := lane.At(0)
			if e.state.TrackTime < head.Time+head.JudgeGate*gate {
				break
			}
			if e.state.Pending[i] != game.Bad {
				e.judgeRelease(i)
				released = true
				break
			}
			if e.autoplay {
				if !e.judge(i) {
					break
				}
			} else if !e.expire(i) {
				break
			}
		}
		// A held note is checked every tick, even before its gate.
		if !released && e.state.Pending[i] != game.Bad {
			e.judgeRelease(i)
		}
	}

	if e.state.TrackTime >= e.chart.Checkpoints.At(0).Time {
		e.state.Score.Flush()
		e.chart.Checkpoints.Shift()
		if nil != e.hooks.Checkpoint {
			e.hooks.Checkpoint(&e.state.Score)
		}
	}
}

// KeyDown marks the lane held and judges its head note right away.
func (e *Engine) KeyDown(lane int) {
	if e.autoplay || lane < 0 || lane >= game.NLanes {
		return
	}
	e.inputs = append(e.inputs, game.Input{Lane: lane, Second: e.second, Pressed: true})
	e.state.Held[lane] = true
	e.judge(lane)
}

func (e *Engine) KeyUp(lane int) {
	if e.autoplay || lane < 0 || lane >= game.NLanes {
		return
	}
	e.inputs = append(e.inputs, game.Input{Lane: lane, Second: e.second})
	e.state.Held[lane] = false
}

// Finish marks the end of playback.
func (e *Engine) Finish() {
	e.state.GameOver = true
}

// judge performs the onset judgement of the head note of a lane. It
// reports whether the lane made progress.
func (e *Engine) judge(lane int) bool {
	if e.state.Pending[lane] != game.Bad {
		e.judgeRelease(lane)
		return true
	}

	l := e.chart.Lanes[lane]
	head := l.At(0)
	offset := e.chart.Offset.JudgeOffset(head.Time, e.state.TrackTime, e.segment)
	if offset >= game.GoodWindow {
		return false
	}
	if offset <= -game.GoodWindow {
		e.miss(lane)
		l.Shift()
		return true
	}

	j, ok := game.Classify(offset)
	if !ok {
		return false
	}
	e.state.Offsets = append(e.state.Offsets, offset)
	if head.IsHold() {
		e.state.Pending[lane] = j
		return true
	}
	e.hit(lane, j)
	l.Shift()
	return true
}

// expire misses the head note of a lane once it is past the good
// window. Only a key press classifies a hit, whatever the gate spans at
// the current scroll speed.
func (e *Engine) expire(lane int) bool {
	l := e.chart.Lanes[lane]
	offset := e.chart.Offset.JudgeOffset(l.At(0).Time, e.state.TrackTime, e.segment)
	if offset > -game.GoodWindow {
		return false
	}
	e.miss(lane)
	l.Shift()
	return true
}

func (e *Engine) judgeRelease(lane int) {
	l := e.chart.Lanes[lane]
	if !e.autoplay && !e.state.Held[lane] {
		e.miss(lane)
		e.state.Pending[lane] = game.Bad
		l.Shift()
		return
	}

	head := l.At(0)
	if e.chart.Offset.JudgeOffset(head.Release, e.state.TrackTime, e.segment) > 0 {
		if nil != e.hooks.Holding {
			e.hooks.Holding(lane)
		}
		return
	}

	e.hit(lane, e.state.Pending[lane])
	e.state.Pending[lane] = game.Bad
	l.Shift()
}

func (e *Engine) hit(lane int, j game.Judge) {
	e.state.Score.Hit(j)
	e.state.Latest = j
	if nil != e.hooks.Judged {
		e.hooks.Judged(lane, j, &e.state.Score)
	}
}

func (e *Engine) miss(lane int) {
	e.state.Score.Miss()
	e.state.Latest = game.Bad
	if nil != e.hooks.Judged {
		e.hooks.Judged(lane, game.Bad, &e.state.Score)
	}
}

func (e *Engine) State() *PlayerState {
	return &e.state
}

// Second is the playback second of the last tick.
func (e *Engine) Second() float64 {
	return e.second
}

func (e *Engine) TrackTime() float64 {
	return e.state.TrackTime
}

func (e *Engine) Score() score.Score {
	return e.state.Score
}

// Latest returns the most recent judgement and the running combo.
func (e *Engine) Latest() (game.Judge, int) {
	return e.state.Latest, e.state.Score.Combo
}

func (e *Engine) GameOver() bool {
	return e.state.GameOver
}

// Lane exposes the live notes of a lane for drawing. The last element
// is the sentinel.
func (e *Engine) Lane(i int) *game.Lane {
	return e.chart.Lanes[i]
}

func (e *Engine) Chart() *game.Chart {
	return e.chart
}

func (e *Engine) Autoplay() bool {
	return e.autoplay
}

// Inputs returns the key events accepted so far, stamped with the
// second of the tick they followed.
func (e *Engine) Inputs() []game.Input {
	return e.inputs
}
