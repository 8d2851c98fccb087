package score

import (
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/monitoring"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type DefaultScorer struct {
	db *sql.DB
}

// InputsCompact holds the key events of one lane.
type InputsCompact struct {
	Lane  int       `json:"l"`
	Downs []float64 `json:"d"`
	Ups   []float64 `json:"u"`
}

func compactInputs(inputs []game.Input) []InputsCompact {
	laneCount := 0
	for _, i := range inputs {
		if i.Lane >= laneCount {
			laneCount = i.Lane + 1
		}
	}
	ins := make([]InputsCompact, laneCount)
	for n := range ins {
		ins[n] = InputsCompact{Lane: n, Downs: []float64{}, Ups: []float64{}}
	}
	for _, i := range inputs {
		if i.Pressed {
			ins[i.Lane].Downs = append(ins[i.Lane].Downs, i.Second)
		} else {
			ins[i.Lane].Ups = append(ins[i.Lane].Ups, i.Second)
		}
	}
	return ins
}

// uncompactInputs restores time order. Equal times keep lane order.
// Presses and releases of one lane alternate, so at an equal time a
// held lane is released before it is pressed again.
func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, in := range inputs {
		held := false
		d, u := 0, 0
		for d < len(in.Downs) || u < len(in.Ups) {
			down := u >= len(in.Ups) ||
				(d < len(in.Downs) && (in.Downs[d] < in.Ups[u] || (in.Downs[d] == in.Ups[u] && !held)))
			if down {
				ins = append(ins, game.Input{Lane: in.Lane, Second: in.Downs[d], Pressed: true})
				d++
			} else {
				ins = append(ins, game.Input{Lane: in.Lane, Second: in.Ups[u]})
				u++
			}
			held = down
		}
	}
	sort.SliceStable(ins, func(a, b int) bool { return ins[a].Second < ins[b].Second })
	return ins
}

func (s *DefaultScorer) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return errors.Wrap(err, "unable to open score database")
	}

	initStatement := `
	create table if not exists attempts
	  (
		  id text not null primary key,
		  sum text not null,
		  autoplay integer not null,
		  cool integer, great integer, good integer, bad integer,
		  max_combo integer,
		  total_notes integer,
		  point integer,
		  inputs blob,
		  length real,
		  played_at integer
	  );
	create index if not exists attempts_sum on attempts(sum);
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return errors.Wrap(err, "unable to create score tables")
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *DefaultScorer) Save(c *game.Chart, a *Attempt) error {
	data, err := json.Marshal(compactInputs(a.Inputs))
	if nil != err {
		return errors.Wrap(err, "unable to marshal inputs")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.PlayedAt.IsZero() {
		a.PlayedAt = time.Now()
	}
	a.Sum = c.Sum

	sc := a.Score
	_, err = s.db.Exec(
		`insert into attempts(id, sum, autoplay, cool, great, good, bad, max_combo, total_notes, point, inputs, length, played_at)
		 values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Sum, a.Autoplay,
		sc.Judges[game.Cool], sc.Judges[game.Great], sc.Judges[game.Good], sc.Judges[game.Bad],
		sc.MaxCombo, sc.TotalNotes, sc.Point(), data, a.Length, a.PlayedAt.UnixNano(),
	)
	return errors.Wrap(err, "unable to save attempt")
}

func (s *DefaultScorer) Load(c *game.Chart) ([]Attempt, error) {
	rows, err := s.db.Query(
		`select id, sum, autoplay, cool, great, good, bad, max_combo, total_notes, inputs, length, played_at
		 from attempts where sum = ? order by played_at`, c.Sum)
	if nil != err {
		return nil, errors.Wrap(err, "unable to load attempts")
	}
	defer rows.Close()

	attempts := []Attempt{}
	for rows.Next() {
		var a Attempt
		var data []byte
		var playedAt int64
		sc := &a.Score
		if err := rows.Scan(&a.ID, &a.Sum, &a.Autoplay,
			&sc.Judges[game.Cool], &sc.Judges[game.Great], &sc.Judges[game.Good], &sc.Judges[game.Bad],
			&sc.MaxCombo, &sc.TotalNotes, &data, &a.Length, &playedAt); nil != err {
			return nil, errors.Wrap(err, "unable to read attempt")
		}
		var ins []InputsCompact
		if err := json.Unmarshal(data, &ins); nil != err {
			monitoring.Logf("unable to unmarshal inputs of attempt %s: %v", a.ID, err)
			continue
		}
		a.Inputs = uncompactInputs(ins)
		a.PlayedAt = time.Unix(0, playedAt)
		attempts = append(attempts, a)
	}
	return attempts, errors.Wrap(rows.Err(), "unable to iterate attempts")
}
