package score

import (
	"testing"

	"git.lost.host/meutraa/eotw/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestPoint(t *testing.T) {
	s := New(10)
	s.Judges[game.Cool] = 8
	s.Judges[game.Great] = 2
	s.MaxCombo = 10
	assert.Equal(t, 95000, s.Point())
}

func TestPointTruncates(t *testing.T) {
	s := New(3)
	s.Judges[game.Good] = 1
	s.MaxCombo = 1
	// 1 / 12 * 100000 = 8333.33
	assert.Equal(t, 8333, s.Point())
}

func TestPointWithoutNotes(t *testing.T) {
	s := New(0)
	s.MaxCombo = 4
	assert.Equal(t, 0, s.Point())
}

func TestPerfectPoint(t *testing.T) {
	s := New(4)
	for i := 0; i < 4; i++ {
		s.Hit(game.Cool)
	}
	s.Flush()
	assert.Equal(t, 100000, s.Point())
}

func TestMissFlushesCombo(t *testing.T) {
	s := New(5)
	s.Hit(game.Cool)
	s.Hit(game.Great)
	s.Miss()
	s.Hit(game.Good)

	assert.Equal(t, 1, s.Combo)
	assert.Equal(t, 2, s.MaxCombo)
	assert.Equal(t, [4]int{1, 1, 1, 1}, s.Judges)
}
