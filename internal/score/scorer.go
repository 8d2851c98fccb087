package score

import (
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
)

type Scorer interface {
	Init(path string) error
	Deinit()

	// Save the result and inputs of an attempt
	Save(chart *game.Chart, attempt *Attempt) error

	// Load previous attempts at the chart, oldest first
	Load(chart *game.Chart) ([]Attempt, error)
}

type Attempt struct {
	ID       string
	Sum      string
	Autoplay bool
	Score    Score
	Inputs   []game.Input
	Length   float64 // Playback second the attempt ended at
	PlayedAt time.Time
}
