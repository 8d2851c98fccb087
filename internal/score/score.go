package score

import "git.lost.host/meutraa/eotw/internal/game"

type Score struct {
	Judges     [4]int // Indexed by game.Judge
	Combo      int
	MaxCombo   int
	TotalNotes int
}

func New(totalNotes int) Score {
	return Score{TotalNotes: totalNotes}
}

func (s *Score) Hit(j game.Judge) {
	s.Judges[j]++
	s.Combo++
}

func (s *Score) Miss() {
	s.Judges[game.Bad]++
	s.Flush()
}

// Flush folds the running combo into the max combo and restarts it.
func (s *Score) Flush() {
	if s.Combo > s.MaxCombo {
		s.MaxCombo = s.Combo
	}
	s.Combo = 0
}

// Point is floor((cool*3 + great*2 + maxcombo) / (total*4) * 100000),
// and 0 for a chart without notes.
func (s Score) Point() int {
	if s.TotalNotes <= 0 {
		return 0
	}
	n := s.Judges[game.Cool]*3 + s.Judges[game.Great]*2 + s.MaxCombo
	return n * 100000 / (s.TotalNotes * 4)
}
