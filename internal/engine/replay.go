package engine

import (
	"math"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/score"
)

// Replay plays recorded inputs back against a rewound chart and returns
// the resulting score. Ticks come every step seconds, plus one at the
// second of each input right before it is delivered, as recorded.
func Replay(chart *game.Chart, inputs []game.Input, end, step float64) score.Score {
	e := New(chart, false, Hooks{})
	second := math.Inf(-1)

	tickTo := func(target float64) {
		if math.IsInf(target, 0) || target < second {
			return
		}
		if !math.IsInf(second, -1) {
			for second+step < target {
				second += step
				e.Tick(second)
			}
		}
		second = target
		e.Tick(second)
	}

	for _, in := range inputs {
		if in.Second != second {
			tickTo(in.Second)
		}
		if in.Pressed {
			e.KeyDown(in.Lane)
		} else {
			e.KeyUp(in.Lane)
		}
	}
	tickTo(end)
	e.Finish()
	return e.Score()
}
