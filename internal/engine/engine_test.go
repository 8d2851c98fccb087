package engine

import (
	"math"
	"testing"

	"git.lost.host/meutraa/eotw/internal/charttest"
	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/monitoring"
	"git.lost.host/meutraa/eotw/internal/parser"
	"git.lost.host/meutraa/eotw/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t testing.TB, p parser.Parser, text string) *game.Chart {
	t.Helper()
	chart, err := parser.Load(p, text)
	require.NoError(t, err)
	return chart
}

func measure(t testing.TB, text string) *game.Chart {
	return load(t, &parser.MeasureParser{}, text)
}

// tickBetween ticks every centisecond from first through last.
func tickBetween(e *Engine, first, last float64) {
	for i := int(math.Round(first * 100)); float64(i)/100 <= last; i++ {
		e.Tick(float64(i) / 100)
	}
}

func tickUntil(e *Engine, last float64) {
	tickBetween(e, -1, last)
}

// The single note sits at 1s and a beat is a second, so the timing
// error equals 1 - second.
var windowTests = []struct {
	second  float64
	judge   game.Judge
	judged  bool
	dequeue bool
}{
	{0.976, game.Cool, true, true},
	{0.951, game.Great, true, true},
	{0.901, game.Good, true, true},
	{0.899, game.Bad, false, false},
	{1.101, game.Bad, true, true},
}

func TestOnsetWindows(t *testing.T) {
	for _, test := range windowTests {
		chart := measure(t, charttest.Single)
		e := New(chart, false, Hooks{})
		e.Tick(test.second)
		e.KeyDown(0)

		s := e.Score()
		total := s.Judges[0] + s.Judges[1] + s.Judges[2] + s.Judges[3]
		if !test.judged {
			assert.Equal(t, 0, total, "second %v", test.second)
		} else {
			assert.Equal(t, 1, s.Judges[test.judge], "second %v", test.second)
			assert.Equal(t, 1, total, "second %v", test.second)
		}
		assert.Equal(t, test.dequeue, math.IsInf(e.Lane(0).At(0).Time, 1), "second %v", test.second)
	}
}

func TestMissResetsCombo(t *testing.T) {
	e := New(measure(t, charttest.Single), false, Hooks{})
	e.State().Score.Combo = 3
	e.Tick(1.101)
	e.KeyDown(0)

	judge, combo := e.Latest()
	assert.Equal(t, game.Bad, judge)
	assert.Equal(t, 0, combo)
	assert.Equal(t, 3, e.Score().MaxCombo)
	assert.Equal(t, 1, e.Score().Judges[game.Bad])
}

func TestHitUpdatesLatest(t *testing.T) {
	var judged []game.Judge
	e := New(measure(t, charttest.Single), false, Hooks{
		Judged: func(lane int, j game.Judge, s *score.Score) { judged = append(judged, j) },
	})
	e.Tick(0.96)
	e.KeyDown(0)

	judge, combo := e.Latest()
	assert.Equal(t, game.Great, judge)
	assert.Equal(t, 1, combo)
	assert.Equal(t, []game.Judge{game.Great}, judged)
	assert.InDeltaSlice(t, []float64{0.04}, e.State().Offsets, 1e-9)
}

// Without autoplay the tick loop waits for the gate, one beat, so a
// note nobody pressed is always missed.
func TestUnpressedNoteIsMissedAfterGate(t *testing.T) {
	e := New(measure(t, charttest.Single), false, Hooks{})
	e.Tick(1.0)
	e.Tick(1.99)
	assert.Equal(t, 1.0, e.Lane(0).At(0).Time)

	e.Tick(2.0)
	assert.Equal(t, 1, e.Score().Judges[game.Bad])
	assert.True(t, math.IsInf(e.Lane(0).At(0).Time, 1))
}

// At ten times scroll speed the frame gate is shorter than the good
// window, the note must still wait for a press.
func TestFastScrollUnpressedNoteIsMissed(t *testing.T) {
	e := New(load(t, &parser.FrameParser{}, "&left_data=60&speed_change=0,10&"), false, Hooks{})
	tickUntil(e, 3)

	s := e.Score()
	assert.Equal(t, [4]int{game.Bad: 1}, s.Judges)
	assert.True(t, math.IsInf(e.Lane(0).At(0).Time, 1))
}

func TestFastScrollPressIsJudged(t *testing.T) {
	e := New(load(t, &parser.FrameParser{}, "&left_data=60&speed_change=0,10&"), false, Hooks{})
	tickUntil(e, 0.99)
	e.KeyDown(0)

	assert.Equal(t, 1, e.Score().Judges[game.Cool])
}

func TestEarlyPressLeavesNote(t *testing.T) {
	e := New(measure(t, charttest.Single), false, Hooks{})
	e.Tick(0.5)
	e.KeyDown(0)
	e.KeyUp(0)
	assert.Equal(t, 1.0, e.Lane(0).At(0).Time)
	assert.Equal(t, score.New(1), e.Score())
}

func TestAutoplayHitsOnTime(t *testing.T) {
	e := New(measure(t, charttest.Single), true, Hooks{})
	tickUntil(e, 1.5)

	s := e.Score()
	assert.Equal(t, 1, s.Judges[game.Cool])
	assert.Equal(t, 1, s.Combo)

	// Input is ignored entirely.
	e.KeyDown(0)
	assert.Empty(t, e.Inputs())
	assert.False(t, e.State().Held[0])
}

func TestHoldRoundTrip(t *testing.T) {
	holding := 0
	e := New(measure(t, charttest.Hold), false, Hooks{
		Holding: func(lane int) { holding++ },
	})

	e.Tick(1.0)
	e.KeyDown(0)
	assert.Equal(t, game.Cool, e.State().Pending[0])
	assert.Equal(t, 1.0, e.Lane(0).At(0).Time)
	assert.Equal(t, 0, e.Score().Judges[game.Cool])

	e.Tick(1.5)
	e.Tick(1.999)
	assert.Equal(t, game.Cool, e.State().Pending[0])
	assert.Equal(t, 0, e.Score().Combo)
	assert.Equal(t, 2, holding)

	e.Tick(2.0)
	assert.Equal(t, game.Bad, e.State().Pending[0])
	assert.Equal(t, 1, e.Score().Judges[game.Cool])
	assert.Equal(t, 1, e.Score().Combo)
	assert.True(t, math.IsInf(e.Lane(0).At(0).Time, 1))
}

func TestHoldEarlyRelease(t *testing.T) {
	e := New(measure(t, charttest.Hold), false, Hooks{})
	e.Tick(1.0)
	e.KeyDown(0)
	e.Tick(1.2)
	e.KeyUp(0)
	e.Tick(1.3)

	assert.Equal(t, game.Bad, e.State().Pending[0])
	assert.Equal(t, 1, e.Score().Judges[game.Bad])
	assert.Equal(t, 0, e.Score().Judges[game.Cool])
	assert.True(t, math.IsInf(e.Lane(0).At(0).Time, 1))
}

// A second press during a hold goes to the release check and leaves
// the onset judgement alone.
func TestRepressWhileHoldingKeepsPending(t *testing.T) {
	e := New(measure(t, charttest.Hold), false, Hooks{})
	e.Tick(0.99)
	e.KeyDown(0)
	e.Tick(1.5)
	e.KeyDown(0)
	assert.Equal(t, game.Cool, e.State().Pending[0])
	assert.Equal(t, score.New(1), e.Score())

	e.Tick(2.0)
	assert.Equal(t, 1, e.Score().Judges[game.Cool])
	assert.Equal(t, 0, e.Score().Judges[game.Bad])
}

func TestHoldAutoplay(t *testing.T) {
	e := New(measure(t, charttest.Hold), true, Hooks{})
	tickUntil(e, 1.5)
	assert.Equal(t, game.Cool, e.State().Pending[0])

	tickBetween(e, 1.51, 2.5)
	assert.Equal(t, 1, e.Score().Judges[game.Cool])
}

// Crossing a checkpoint resets the combo even when nothing was missed.
func TestCheckpointFlushesComboWithoutMiss(t *testing.T) {
	crossed := 0
	chart := measure(t, charttest.Measure)
	e := New(chart, true, Hooks{
		Checkpoint: func(s *score.Score) { crossed++ },
	})

	// The last note is beat 14 at 9.5s, the checkpoint beat 15 at 10.5s.
	tickUntil(e, 10.4)
	assert.Equal(t, 6, e.Score().Combo)
	assert.Equal(t, 0, e.Score().MaxCombo)
	assert.Equal(t, 0, crossed)

	tickBetween(e, 10.41, 12)
	s := e.Score()
	assert.Equal(t, 0, s.Combo)
	assert.Equal(t, 6, s.MaxCombo)
	assert.Equal(t, 0, s.Judges[game.Bad])
	assert.Equal(t, 6, s.Judges[game.Cool])
	assert.Equal(t, 100000, s.Point())
	assert.Equal(t, 1, crossed)
}

func TestFrameAutoplay(t *testing.T) {
	e := New(load(t, &parser.FrameParser{}, charttest.Frame), true, Hooks{})
	tickUntil(e, 10)

	s := e.Score()
	assert.Equal(t, 4, s.Judges[game.Cool])
	assert.Equal(t, 4, s.MaxCombo)
	assert.Equal(t, 100000, s.Point())
}

// A stopped scroll never brings its notes due.
func TestFrameStoppedScroll(t *testing.T) {
	e := New(load(t, &parser.FrameParser{}, "&left_data=60&speed_change=30,0&"), true, Hooks{})
	tickUntil(e, 5)

	assert.Equal(t, 30.0, e.TrackTime())
	assert.Equal(t, 30.0, e.Lane(0).At(0).Time)
	assert.Equal(t, score.New(1), e.Score())
}

func TestTickClampsRegression(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()
	logged := 0
	monitoring.SetLogger(func(string, ...interface{}) { logged++ })

	e := New(measure(t, charttest.Single), false, Hooks{})
	e.Tick(1.5)
	e.Tick(0.5)
	assert.Equal(t, 1.5, e.TrackTime())
	assert.Equal(t, 1, logged)
}

func TestNewRewindsChart(t *testing.T) {
	chart := measure(t, charttest.Single)
	e := New(chart, true, Hooks{})
	tickUntil(e, 3)
	require.True(t, math.IsInf(chart.Lanes[0].At(0).Time, 1))

	e = New(chart, true, Hooks{})
	assert.Equal(t, 1.0, e.Lane(0).At(0).Time)
	tickUntil(e, 3)
	assert.Equal(t, 1, e.Score().MaxCombo)
}

func TestFinish(t *testing.T) {
	e := New(measure(t, charttest.Empty), false, Hooks{})
	assert.False(t, e.GameOver())
	e.Finish()
	assert.True(t, e.GameOver())
	assert.Equal(t, 0, e.Score().Point())
}

func BenchmarkTick(b *testing.B) {
	chart := measure(b, charttest.Measure)
	e := New(chart, true, Hooks{})
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		e.Tick(float64(n%1200) / 100)
		if n%1200 == 1199 {
			e = New(chart, true, Hooks{})
		}
	}
}
