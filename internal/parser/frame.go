package parser

import (
	"math"
	"sort"
	"strings"

	"git.lost.host/meutraa/eotw/internal/game"
	"github.com/pkg/errors"
)

// Track units of frame charts are scrolled frames, 60 per second at
// normal speed.
const (
	framesPerSecond = 60.0
	frameLifetime   = 300.0
	frameGate       = 30.0
	frameMargin     = 200.0
)

var frameLanes = [...]string{"left", "leftdia", "down", "space", "up", "rightdia", "right"}

func tapKey(lane string) string {
	return lane + "_data"
}

func holdKey(lane string) string {
	return "frz" + strings.ToUpper(lane[:1]) + lane[1:] + "_data"
}

// FrameParser reads '&' separated "key=v,v,..." charts. Note positions
// are playback frames, and speed_change rescales how far notes scroll.
//
//	&left_data=200,260&frzDown_data=300,420&speed_change=0,1,600,2&
type FrameParser struct{}

func (p *FrameParser) Name() string {
	return "frame"
}

func (p *FrameParser) Tokenize(text string) (Form, error) {
	form := Form{}
	for _, chunk := range strings.Split(strings.ReplaceAll(text, "\r", ""), "&") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		i := strings.IndexByte(chunk, '=')
		if i <= 0 {
			return nil, formatError(chunk, chunk, errors.New("missing '=' delimiter"))
		}
		entry := Entry{Key: strings.TrimSpace(chunk[:i])}
		if raw := strings.TrimSpace(chunk[i+1:]); raw != "" {
			for _, v := range strings.Split(raw, ",") {
				entry.Values = append(entry.Values, []string{strings.TrimSpace(v)})
			}
		}
		form = append(form, entry)
	}
	return form, nil
}

func (p *FrameParser) Lower(form Form) (*game.Chart, error) {
	chart := game.NewChart(p.Name(), p)
	if err := p.lowerTimeline(chart.Timeline, form); nil != err {
		return nil, err
	}

	known := map[string]bool{"speed_change": true}
	for i, name := range frameLanes {
		known[tapKey(name)], known[holdKey(name)] = true, true
		notes, err := p.collectLane(form, name)
		if nil != err {
			return nil, err
		}
		// Positions must be remapped in time order, not file order.
		sort.SliceStable(notes, func(a, b int) bool { return notes[a].Time < notes[b].Time })
		for _, n := range notes {
			n.Time = p.remap(chart.Timeline, n.Time)
			if n.Release != 0 {
				n.Release = p.remap(chart.Timeline, n.Release)
			}
			chart.Lanes[i].Push(n)
		}
	}

	for _, e := range form {
		if !known[e.Key] {
			chart.Tags[strings.ToLower(e.Key)] = e.Text()
		}
	}

	chart.Terminate(frameMargin)
	return chart, nil
}

// Each speed change starts where the previous velocity carried the
// scrolled frame. Speeds may be zero or negative.
func (p *FrameParser) lowerTimeline(timeline *game.Timeline, form Form) error {
	timeline.Push(game.Segment{Velocity: framesPerSecond})

	e, ok := form.Lookup("speed_change")
	if !ok {
		return nil
	}
	values, err := e.Floats()
	if nil != err {
		return err
	}
	if len(values)%2 != 0 {
		return formatError(e.Key, e.Text(), errors.New("expected frame,speed pairs"))
	}

	type change struct{ frame, speed float64 }
	changes := make([]change, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		changes = append(changes, change{values[i], values[i+1]})
	}
	sort.SliceStable(changes, func(a, b int) bool { return changes[a].frame < changes[b].frame })

	for _, c := range changes {
		prev := timeline.At(timeline.Len() - 1)
		second := c.frame / framesPerSecond
		timeline.Push(game.Segment{
			Second:   second,
			Track:    prev.Track + (second-prev.Second)*prev.Velocity,
			Velocity: c.speed * framesPerSecond,
		})
	}
	return nil
}

func (p *FrameParser) collectLane(form Form, name string) ([]game.Note, error) {
	notes := []game.Note{}
	if e, ok := form.Lookup(tapKey(name)); ok {
		frames, err := e.Floats()
		if nil != err {
			return nil, err
		}
		for _, f := range frames {
			notes = append(notes, game.Note{Time: f, Lifetime: frameLifetime, JudgeGate: frameGate})
		}
	}
	if e, ok := form.Lookup(holdKey(name)); ok {
		frames, err := e.Floats()
		if nil != err {
			return nil, err
		}
		if len(frames)%2 != 0 {
			return nil, formatError(e.Key, e.Text(), errors.New("hold without a release"))
		}
		for i := 0; i < len(frames); i += 2 {
			notes = append(notes, game.Note{Time: frames[i], Release: frames[i+1], Lifetime: frameLifetime, JudgeGate: frameGate})
		}
	}
	return notes, nil
}

func (p *FrameParser) remap(timeline *game.Timeline, frame float64) float64 {
	second := frame / framesPerSecond
	return timeline.Locate(second).At(second)
}

// JudgeOffset converts scrolled frames back to seconds. A stopped
// scroll never comes due.
func (p *FrameParser) JudgeOffset(position, trackTime float64, segment *game.Segment) float64 {
	if segment.Velocity == 0 {
		return math.Inf(1)
	}
	return (position - trackTime) / segment.Velocity
}
