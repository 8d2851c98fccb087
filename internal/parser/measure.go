package parser

import (
	"strings"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/monitoring"
	"github.com/pkg/errors"
)

// Track units of measure charts are beats.
const (
	measureLifetime = 5.0
	measureGate     = 1.0
	measureMargin   = 1.0
	beatsPerMeasure = 4.0
)

// MeasureParser reads charts made of ';' terminated "#KEY:values"
// statements, with one note block per measure in #NOTES.
//
//	#OFFSET:0.12;
//	#BPMS:0=150,64=75;
//	#NOTES:
//	1000000000000000,
//	...
//	;
type MeasureParser struct{}

func (p *MeasureParser) Name() string {
	return "measure"
}

func (p *MeasureParser) Tokenize(text string) (Form, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")

	// Lines are joined without separators. The first line is taken
	// verbatim, later commented lines are dropped, except that one
	// holding a measure separator keeps its comma.
	var b strings.Builder
	b.WriteString(lines[0])
	for _, line := range lines[1:] {
		switch {
		case strings.Contains(line, ",  //"):
			b.WriteString(",")
		case strings.Contains(line, "//"):
		default:
			b.WriteString(line)
		}
	}

	form := Form{}
	for _, statement := range strings.Split(b.String(), ";") {
		if strings.TrimSpace(statement) == "" {
			continue
		}
		parts := strings.Split(statement, ":")
		key := strings.TrimSpace(strings.Split(parts[0], ",")[0])
		if len(parts) < 2 {
			return nil, formatError(key, statement, errors.New("missing ':' delimiter"))
		}

		entry := Entry{Key: key}
		for _, v := range strings.Split(parts[1], ",") {
			entry.Values = append(entry.Values, strings.Split(v, "="))
		}
		form = append(form, entry)
	}
	return form, nil
}

func (p *MeasureParser) Lower(form Form) (*game.Chart, error) {
	chart := game.NewChart(p.Name(), p)

	offset := 0.0
	if e, ok := form.Lookup("#OFFSET"); ok {
		var err error
		if offset, err = e.Float(0, 0); nil != err {
			return nil, err
		}
	}

	bpms, ok := form.Lookup("#BPMS")
	if !ok {
		return nil, formatError("#BPMS", "", errors.New("section missing"))
	}
	if err := p.lowerTimeline(chart.Timeline, bpms, offset); nil != err {
		return nil, err
	}

	notes, ok := form.Lookup("#NOTES")
	if !ok {
		return nil, formatError("#NOTES", "", errors.New("section missing"))
	}
	if err := p.lowerLanes(&chart.Lanes, notes); nil != err {
		return nil, err
	}

	for _, e := range form {
		switch e.Key {
		case "#OFFSET", "#BPMS", "#NOTES":
		default:
			if !strings.HasPrefix(e.Key, "#") {
				monitoring.Logf("ignoring chart statement %q", e.Key)
				continue
			}
			chart.Tags[strings.ToLower(strings.TrimPrefix(e.Key, "#"))] = e.Text()
		}
	}

	chart.Terminate(measureMargin)
	return chart, nil
}

// The first breakpoint anchors beat 0 at -offset. Each later one starts
// where the previous tempo reaches its beat.
func (p *MeasureParser) lowerTimeline(timeline *game.Timeline, e Entry, offset float64) error {
	for i, v := range e.Values {
		if len(v) != 2 {
			return formatError(e.Key, strings.Join(v, "="), errors.New("expected beat=bpm"))
		}
		beat, err := e.Float(i, 0)
		if nil != err {
			return err
		}
		bpm, err := e.Float(i, 1)
		if nil != err {
			return err
		}
		if bpm <= 0 {
			return formatError(e.Key, strings.Join(v, "="), errors.New("bpm must be positive"))
		}

		if i == 0 {
			timeline.Push(game.Segment{Second: -offset, Track: 0, Velocity: bpm / 60, BPM: bpm})
			continue
		}
		prev := timeline.At(i - 1)
		second := prev.Second + (beat-prev.Track)*60/prev.BPM
		timeline.Push(game.Segment{Second: second, Track: beat, Velocity: bpm / 60, BPM: bpm})
	}
	if timeline.Len() == 0 {
		return formatError(e.Key, "", errors.New("no tempo"))
	}
	return nil
}

// Measure characters are dealt to lanes by column, rows of NLanes
// characters each. '1' and '2' open a note, '3' sets the release of the
// latest note in its lane.
func (p *MeasureParser) lowerLanes(lanes *[game.NLanes]*game.Lane, e Entry) error {
	for i, v := range e.Values {
		if len(v) != 1 {
			return formatError(e.Key, strings.Join(v, "="), errors.Errorf("unexpected '=' in measure %d", i))
		}
		measure := v[0]
		for j := 0; j < len(measure); j++ {
			lane := j % game.NLanes
			beat := (float64(i) + float64(j-lane)/float64(len(measure))) * beatsPerMeasure

			switch measure[j] {
			case '1', '2':
				lanes[lane].Push(game.Note{Time: beat, Lifetime: measureLifetime, JudgeGate: measureGate})
			case '3':
				l := lanes[lane]
				if l.Len() == 0 {
					return formatError(e.Key, measure, errors.Errorf("release without a note in lane %d", lane))
				}
				l.At(l.Len() - 1).Release = beat
			}
		}
	}
	return nil
}

// JudgeOffset is the error in seconds at the active tempo.
func (p *MeasureParser) JudgeOffset(position, trackTime float64, segment *game.Segment) float64 {
	return (position - trackTime) * 60 / segment.BPM
}
