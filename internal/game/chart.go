package game

import (
	"math"

	"git.lost.host/meutraa/eotw/internal/queue"
)

// Checkpoint marks a track time at which the combo is flushed and
// intermediate results are shown.
type Checkpoint struct {
	Time float64
}

// Offsetter computes the signed timing error in seconds between a note
// position and the current track time. Positive means early.
type Offsetter interface {
	JudgeOffset(position, trackTime float64, segment *Segment) float64
}

type Lane = queue.Queue[Note]

type Chart struct {
	Timeline    *Timeline
	Checkpoints *queue.Queue[Checkpoint]
	Lanes       [NLanes]*Lane
	TotalNotes  int
	Offset      Offsetter
	Format      string
	Tags        map[string]string
	Sum         string // sha256 of the chart text, base64

	end float64
}

func NewChart(format string, offset Offsetter) *Chart {
	c := &Chart{
		Timeline:    &Timeline{},
		Checkpoints: queue.New[Checkpoint](),
		Offset:      offset,
		Format:      format,
		Tags:        map[string]string{},
	}
	for i := range c.Lanes {
		c.Lanes[i] = queue.New[Note]()
	}
	return c
}

// Terminate counts the notes and appends the sentinels of every queue.
// margin is added to the last note timestamp for the final checkpoint.
func (c *Chart) Terminate(margin float64) {
	end := 0.0
	c.TotalNotes = 0
	for _, lane := range c.Lanes {
		if lane.Len() > 0 {
			end = math.Max(end, lane.At(lane.Len()-1).Timestamp())
		}
		c.TotalNotes += lane.Len()
	}
	c.end = end + margin
	c.Checkpoints.Push(Checkpoint{Time: c.end})
	c.Checkpoints.Push(Checkpoint{Time: math.Inf(1)})
	c.Timeline.Terminate()
	for _, lane := range c.Lanes {
		lane.Push(Sentinel)
	}
}

// End is the track time of the final real checkpoint.
func (c *Chart) End() float64 {
	return c.end
}

// Rewind restores every queue so the chart can be replayed.
func (c *Chart) Rewind() {
	c.Timeline.Rewind()
	c.Checkpoints.Rewind()
	for _, lane := range c.Lanes {
		lane.Rewind()
	}
}
