package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/eotw/internal/audio"
	"git.lost.host/meutraa/eotw/internal/config"
	"git.lost.host/meutraa/eotw/internal/engine"
	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/input"
	"git.lost.host/meutraa/eotw/internal/monitoring"
	"git.lost.host/meutraa/eotw/internal/parser"
	"git.lost.host/meutraa/eotw/internal/render"
	"git.lost.host/meutraa/eotw/internal/score"
	"git.lost.host/meutraa/eotw/internal/theme"
)

const (
	columnSpacing = 4
	judgeFrames   = 60
	resultLinger  = 3 * time.Second
	replayStep    = 1.0 / 240
)

type Program struct {
	Options  *config.Options
	Scorer   score.Scorer
	Theme    theme.Theme
	Renderer render.Renderer

	audioFile, chartFile string
	chart                *game.Chart

	speed           float64
	rows            int
	hitRow, sideCol int
	laneCols        [game.NLanes]int
}

func (p *Program) Init() error {
	// Ensure our Default implementations are used as interfaces
	p.Scorer = &score.DefaultScorer{}
	p.Theme = &theme.DefaultTheme{}
	p.Renderer = &render.DefaultRenderer{}
	p.speed = p.Options.Speed

	if err := filepath.Walk(p.Options.Directory, func(path string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		ext := strings.ToLower(filepath.Ext(info.Name()))
		switch {
		case contains(audio.Extensions, ext):
			p.audioFile = path
		case contains(parser.Extensions, ext) && p.chartFile == "":
			p.chartFile = path
		}
		return nil
	}); nil != err {
		return fmt.Errorf("unable to walk song directory: %w", err)
	}

	if p.chartFile == "" {
		return errors.New("unable to find a chart in given directory")
	}
	if p.audioFile == "" && p.Options.Command == config.PlayCommand && !p.Options.Autoplay {
		return errors.New("unable to find .ogg/.mp3/.wav file in given directory")
	}
	log.Printf("Opening %v (%v)\n", p.chartFile, p.audioFile)

	var err error
	p.chart, err = parser.Parse(p.chartFile)
	if nil != err {
		return fmt.Errorf("unable to parse %s: %w", p.chartFile, err)
	}
	log.Printf("Loaded %v chart with %v notes\n", p.chart.Format, p.chart.TotalNotes)

	if err := p.Scorer.Init(p.Options.Database); nil != err {
		return err
	}
	return nil
}

func (p *Program) Deinit() {
	p.Scorer.Deinit()
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

func (p *Program) layout() {
	cols, rows := p.Renderer.Size()
	p.rows = rows
	p.hitRow = rows - int(p.Options.BarRow)
	if p.hitRow < 2 {
		p.hitRow = rows
	}
	mid := cols / 2
	for i := range p.laneCols {
		p.laneCols[i] = mid + (2*i-game.NLanes+1)*columnSpacing/2
	}
	p.sideCol = p.laneCols[0] - 28
	if p.sideCol < 2 {
		p.sideCol = 2
	}
}

func (p *Program) clock() (audio.Clock, *audio.Player, error) {
	if p.audioFile == "" {
		return audio.Offset{Clock: audio.NewWallClock(p.Options.Delay), By: p.Options.Offset}, nil, nil
	}
	player, err := audio.Open(p.audioFile)
	if nil != err {
		return nil, nil, err
	}
	if err := player.Play(p.Options.Delay); nil != err {
		player.Close()
		return nil, nil, err
	}
	return audio.Offset{Clock: player, By: p.Options.Offset}, player, nil
}

func (p *Program) source() (input.Source, error) {
	if p.Options.Device != "" {
		return input.OpenDevice(p.Options.Device, p.Options.Keys)
	}
	return input.OpenTerminal(p.Options.Keys, p.Options.HoldTimeout)
}

func (p *Program) Play() error {
	src, err := p.source()
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := src.Close(); nil != err {
			log.Printf("unable to close keyboard: %v", err)
		}
	}()

	// The terminal belongs to the renderer until Deinit, hold log lines
	// until then.
	held := []string{}
	monitoring.SetLogger(func(format string, v ...interface{}) {
		held = append(held, fmt.Sprintf(format, v...))
	})
	defer func() {
		monitoring.SetLogger(log.Printf)
		for _, line := range held {
			log.Println(line)
		}
	}()

	if err := p.Renderer.Init(); nil != err {
		return fmt.Errorf("unable to prepare terminal: %w", err)
	}
	p.layout()

	clock, player, err := p.clock()
	if nil != err {
		p.Renderer.Deinit()
		return err
	}
	var done <-chan struct{}
	if nil != player {
		defer player.Close()
		done = player.Done()
	}

	e := engine.New(p.chart, p.Options.Autoplay, engine.Hooks{
		Judged:     p.judged,
		Checkpoint: p.checkpoint,
	})

	var over time.Time
	p.Renderer.RenderLoop(p.Options.FramePeriod, func(now time.Time) bool {
		select {
		case <-done:
			e.Finish()
		default:
		}

		e.Tick(clock.Second())
		p.apply(e, src.Poll(now))

		if over.IsZero() && (e.GameOver() || e.TrackTime() >= e.Chart().End()) {
			over = now
		}
		p.draw(e)
		return over.IsZero() || (!e.GameOver() && now.Sub(over) < resultLinger)
	})

	if err := p.Renderer.Deinit(); nil != err {
		log.Printf("unable to restore terminal: %v", err)
	}
	p.report(os.Stdout, e.Score())

	if p.Options.NoSave {
		return nil
	}
	attempt := &score.Attempt{
		Autoplay: e.Autoplay(),
		Score:    e.Score(),
		Inputs:   e.Inputs(),
		Length:   e.Second(),
	}
	if err := p.Scorer.Save(p.chart, attempt); nil != err {
		log.Printf("unable to save attempt: %v", err)
	}
	return nil
}

func (p *Program) apply(e *engine.Engine, events []input.Event) {
	for _, ev := range events {
		switch ev.Control {
		case input.Quit:
			e.Finish()
		case input.Faster:
			p.speed = config.ClampSpeed(p.speed + 0.25)
		case input.Slower:
			p.speed = config.ClampSpeed(p.speed - 0.25)
		default:
			if ev.Pressed {
				e.KeyDown(ev.Lane)
			} else {
				e.KeyUp(ev.Lane)
			}
		}
	}
}

// row maps a track position onto the console, the hit bar at trackTime.
func (p *Program) row(position, trackTime, lifetime float64) int {
	return p.hitRow - int(math.Round((position-trackTime)/lifetime*float64(p.hitRow)*p.speed))
}

func (p *Program) visible(row int) bool {
	return row >= 1 && row <= p.rows
}

func (p *Program) draw(e *engine.Engine) {
	r := p.Renderer
	track := e.TrackTime()
	state := e.State()

	for i := 0; i < game.NLanes; i++ {
		col := uint16(p.laneCols[i])
		r.Fill(uint16(p.hitRow), col, p.Theme.RenderHitField(i))

		lane := e.Lane(i)
		for n := 0; n < lane.Len()-1; n++ {
			note := lane.At(n)
			head := p.row(note.Time, track, note.Lifetime)
			if n == 0 && state.Pending[i] != game.Bad {
				head = p.hitRow
			}
			if note.IsHold() {
				tail := p.row(note.Release, track, note.Lifetime)
				for y := tail + 1; y < head; y++ {
					if p.visible(y) {
						r.Fill(uint16(y), col, p.Theme.RenderHold(i))
					}
				}
			}
			if p.visible(head) {
				r.Fill(uint16(head), col, p.Theme.RenderNote(i))
			}
		}
	}

	sc := state.Score
	side := uint16(p.sideCol)
	r.Fill(10, side, fmt.Sprintf("      Combo:  %6v", sc.Combo))
	r.Fill(11, side, fmt.Sprintf("      Point:  %6v", sc.Point()))
	r.Fill(12, side, fmt.Sprintf("      Speed:  %6.2f", p.speed))
	r.Fill(13, side, fmt.Sprintf("      Total:  %6v", sc.TotalNotes))
	mean, stdev := score.Spread(state.Offsets)
	r.Fill(20, side, fmt.Sprintf("       Mean:  %6.2f ms", mean*1000))
	r.Fill(21, side, fmt.Sprintf("      Stdev:  %6.2f ms", stdev*1000))
	for i, j := range []game.Judge{game.Cool, game.Great, game.Good, game.Bad} {
		r.FillColor(uint16(15+i), side, p.Theme.JudgeColor(j), fmt.Sprintf("%11v:  %6v", j, sc.Judges[j]))
	}
}

func (p *Program) judged(lane int, j game.Judge, s *score.Score) {
	mid := (p.laneCols[0] + p.laneCols[game.NLanes-1]) / 2
	y := uint16(p.hitRow / 2)
	p.Renderer.AddDecoration(uint16(mid-2), y, p.Theme.RenderJudge(j), judgeFrames)
	if s.Combo > 1 {
		p.Renderer.AddDecoration(uint16(mid-2), y+1, fmt.Sprintf("%-5d", s.Combo), judgeFrames)
	}
}

func (p *Program) checkpoint(s *score.Score) {
	frames := int(resultLinger / p.Options.FramePeriod)
	col := uint16(p.laneCols[0])
	y := uint16(p.hitRow/2 + 3)
	lines := []string{
		fmt.Sprintf("POINT %6d", s.Point()),
		fmt.Sprintf("COMBO %6d", s.MaxCombo),
	}
	for _, j := range []game.Judge{game.Cool, game.Great, game.Good, game.Bad} {
		lines = append(lines, fmt.Sprintf("%-5v %6d", j, s.Judges[j]))
	}
	for i, line := range lines {
		p.Renderer.AddDecoration(col, y+uint16(i), line, frames)
	}
}

func (p *Program) report(w io.Writer, s score.Score) {
	fmt.Fprintf(w, "%v\n", filepath.Base(p.chartFile))
	for _, j := range []game.Judge{game.Cool, game.Great, game.Good, game.Bad} {
		fmt.Fprintf(w, "%5v: %6d\n", j, s.Judges[j])
	}
	fmt.Fprintf(w, "Combo: %6d\nPoint: %6d\n", s.MaxCombo, s.Point())
}

// History prints every stored attempt at the chart. Recorded inputs are
// replayed so the points follow the current judgement rules.
func (p *Program) History(w io.Writer) error {
	attempts, err := p.Scorer.Load(p.chart)
	if nil != err {
		return err
	}
	if title, ok := p.chart.Tags["title"]; ok {
		fmt.Fprintf(w, "%v\n", title)
	}
	fmt.Fprintf(w, "%-19s  %-8s  %6s  %6s  %6s\n", "played", "mode", "stored", "replay", "combo")
	for _, a := range attempts {
		mode, replayed := "play", "-"
		if a.Autoplay {
			mode = "autoplay"
		} else {
			s := engine.Replay(p.chart, a.Inputs, a.Length, replayStep)
			replayed = fmt.Sprint(s.Point())
		}
		fmt.Fprintf(w, "%-19s  %-8s  %6d  %6s  %6d\n",
			a.PlayedAt.Format("2006-01-02 15:04:05"), mode, a.Score.Point(), replayed, a.Score.MaxCombo)
	}
	return nil
}
