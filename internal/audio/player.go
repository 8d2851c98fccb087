package audio

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// Player plays a song and reports its position as the playback clock.
type Player struct {
	streamer beep.StreamSeekCloser
	format   beep.Format

	start    time.Time
	started  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once

	mu     sync.Mutex
	closed bool
	timer  *time.Timer
	play   func(s ...beep.Streamer)
}

// Extensions lists the audio files Open can decode.
var Extensions = []string{".ogg", ".mp3", ".wav"}

func Open(file string) (*Player, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open audio")
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(file)) {
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, errors.Errorf("unsupported audio file %s", file)
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "unable to decode %s", file)
	}

	return &Player{
		streamer: streamer,
		format:   format,
		done:     make(chan struct{}),
		play:     speaker.Play,
	}, nil
}

func (p *Player) Length() time.Duration {
	return p.format.SampleRate.D(p.streamer.Len())
}

// Play starts the song after delay. The clock counts up to zero during
// the delay.
func (p *Player) Play(delay time.Duration) error {
	if err := speaker.Init(p.format.SampleRate, p.format.SampleRate.N(time.Second/60)); nil != err {
		return errors.Wrap(err, "unable to open speaker")
	}
	p.schedule(delay)
	return nil
}

func (p *Player) schedule(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = time.Now().Add(delay)
	p.timer = time.AfterFunc(delay, p.begin)
}

// begin does nothing once the player is closed, the streamer is gone.
func (p *Player) begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.started.Store(true)
	p.play(beep.Seq(p.streamer, beep.Callback(p.finish)))
}

func (p *Player) finish() {
	p.doneOnce.Do(func() { close(p.done) })
}

// Done is closed when the song has played out.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

func (p *Player) Second() float64 {
	if !p.started.Load() {
		s := time.Since(p.start).Seconds()
		if s > 0 {
			return 0
		}
		return s
	}
	speaker.Lock()
	position := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(position).Seconds()
}

func (p *Player) Close() error {
	p.mu.Lock()
	p.closed = true
	if nil != p.timer {
		p.timer.Stop()
	}
	started := p.started.Load()
	p.mu.Unlock()

	if started {
		speaker.Clear()
	}
	return p.streamer.Close()
}
