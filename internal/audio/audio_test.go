package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := &WallClock{start: time.Unix(101, 0), now: func() time.Time { return now }}
	assert.Equal(t, -1.0, c.Second())

	now = now.Add(2500 * time.Millisecond)
	assert.Equal(t, 1.5, c.Second())

	shifted := Offset{Clock: c, By: -500 * time.Millisecond}
	assert.Equal(t, 1.0, shifted.Second())
}

func silence(t *testing.T) *Player {
	t.Helper()
	file := filepath.Join(t.TempDir(), "silence.wav")
	f, err := os.Create(file)
	require.NoError(t, err)

	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Take(44100*2, beep.Silence(-1)), format))
	require.NoError(t, f.Close())

	p, err := Open(file)
	require.NoError(t, err)
	return p
}

func TestOpenWav(t *testing.T) {
	p := silence(t)
	defer p.Close()

	assert.Equal(t, 2*time.Second, p.Length())
	select {
	case <-p.Done():
		t.Fatal("done before playing")
	default:
	}
}

func TestCloseDuringDelayNeverPlays(t *testing.T) {
	p := silence(t)
	played := make(chan struct{}, 1)
	p.play = func(s ...beep.Streamer) { played <- struct{}{} }

	p.schedule(20 * time.Millisecond)
	require.NoError(t, p.Close())

	select {
	case <-played:
		t.Fatal("closed player started playing")
	case <-time.After(100 * time.Millisecond):
	}
	assert.False(t, p.started.Load())
}

func TestScheduledPlayStarts(t *testing.T) {
	p := silence(t)
	defer p.streamer.Close()
	played := make(chan struct{}, 1)
	p.play = func(s ...beep.Streamer) { played <- struct{}{} }

	p.schedule(time.Millisecond)
	select {
	case <-played:
	case <-time.After(time.Second):
		t.Fatal("player never started")
	}
	assert.True(t, p.started.Load())
}

func TestOpenUnsupported(t *testing.T) {
	file := filepath.Join(t.TempDir(), "song.flac")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err := Open(file)
	assert.Error(t, err)
}
