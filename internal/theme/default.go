package theme

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/eotw/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(lane int) string {
	return paint(t.LaneColor(lane), noteSym)
}

func (t *DefaultTheme) RenderHold(lane int) string {
	return paint(t.LaneColor(lane), holdSym)
}

func (t *DefaultTheme) RenderHitField(lane int) string {
	if lane < 0 || lane >= len(barSyms) {
		return barSyms[0]
	}
	return barSyms[lane]
}

func (t *DefaultTheme) LaneColor(lane int) color.RGBA {
	if lane < 0 || lane >= len(laneColors) {
		return white
	}
	return laneColors[lane]
}

func (t *DefaultTheme) JudgeColor(j game.Judge) color.RGBA {
	col, ok := judgeColors[j]
	if !ok {
		return white
	}
	return col
}

// RenderJudge pads to the longest judgement name so a shorter one
// overwrites it completely.
func (t *DefaultTheme) RenderJudge(j game.Judge) string {
	return paint(t.JudgeColor(j), fmt.Sprintf("%-5v", j))
}

func paint(c color.RGBA, sym string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, sym)
}

const (
	noteSym = "⬤"
	holdSym = "┃"
)

var (
	white   = color.RGBA{255, 255, 255, 255}
	barSyms = [game.NLanes]string{"-", "-", "-", "-", "-", "-", "-", "-"}

	// outer lanes mirror each other
	laneColors = [game.NLanes]color.RGBA{
		{236, 30, 0, 255},  // red
		{0, 118, 236, 255}, // blue
		{236, 195, 0, 255}, // yellow
		{106, 0, 236, 255}, // purple
		{106, 0, 236, 255}, // purple
		{236, 195, 0, 255}, // yellow
		{0, 118, 236, 255}, // blue
		{236, 30, 0, 255},  // red
	}

	judgeColors = map[game.Judge]color.RGBA{
		game.Cool:  {0, 236, 128, 255},
		game.Great: {173, 236, 236, 255},
		game.Good:  {236, 128, 0, 255},
		game.Bad:   {106, 106, 106, 255},
	}
)
