package theme

import (
	"image/color"

	"git.lost.host/meutraa/eotw/internal/game"
)

type Theme interface {
	RenderNote(lane int) string
	RenderHold(lane int) string
	RenderHitField(lane int) string
	LaneColor(lane int) color.RGBA
	JudgeColor(j game.Judge) color.RGBA
	RenderJudge(j game.Judge) string
}
