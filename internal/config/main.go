package config

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	PlayCommand    = "play"
	HistoryCommand = "history"
)

type Options struct {
	Command     string
	Directory   string
	Autoplay    bool
	Speed       float64 // Scroll speed multiplier, rendering only
	Keys        []rune  // One per lane
	Device      string  // evdev keyboard, terminal input when empty
	Offset      time.Duration
	Delay       time.Duration
	FramePeriod time.Duration
	HoldTimeout time.Duration
	BarRow      uint
	Database    string
	NoSave      bool
}

func Parse(args []string) (*Options, error) {
	o := &Options{}
	var keys string

	app := kingpin.New("eotw", "Lane based rhythm game for the terminal")
	app.Version("0.3.0")
	app.Flag("db", "Score database").Default("./scores.db").StringVar(&o.Database)

	play := app.Command(PlayCommand, "Play the chart in a song directory").Default()
	play.Arg("directory", "Song/chart directory").Required().ExistingDirVar(&o.Directory)
	play.Flag("autoplay", "Let the game play itself").Short('a').BoolVar(&o.Autoplay)
	play.Flag("speed", "Scroll speed multiplier").Default("1.0").Short('s').Float64Var(&o.Speed)
	play.Flag("keys", "Keys for the 8 lanes").Default("asdfjkl;").Short('k').StringVar(&keys)
	play.Flag("device", "evdev keyboard device, for real key releases").Short('i').StringVar(&o.Device)
	play.Flag("offset", "Global offset added to the playback clock").Default("0ms").Short('o').DurationVar(&o.Offset)
	play.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&o.Delay)
	play.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&o.FramePeriod)
	play.Flag("hold-timeout", "Time without key repeat before a terminal key counts as released, keep above the keyboard repeat delay or use --device for holds").Default("600ms").DurationVar(&o.HoldTimeout)
	play.Flag("bar-row", "Console rows between the hit bar and the bottom").Default("4").UintVar(&o.BarRow)
	play.Flag("no-save", "Do not store the attempt").BoolVar(&o.NoSave)

	history := app.Command(HistoryCommand, "List stored attempts at the chart in a song directory")
	history.Arg("directory", "Song/chart directory").Required().ExistingDirVar(&o.Directory)

	command, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	o.Command = command

	o.Keys = []rune(keys)
	if command == PlayCommand && len(o.Keys) != game.NLanes {
		return nil, fmt.Errorf("expected %d keys, got %q", game.NLanes, keys)
	}
	if command == PlayCommand && o.FramePeriod <= 0 {
		return nil, fmt.Errorf("frame period must be positive, got %v", o.FramePeriod)
	}
	o.Speed = ClampSpeed(o.Speed)
	return o, nil
}

// ClampSpeed keeps the scroll speed within [1, 5].
func ClampSpeed(speed float64) float64 {
	if speed < 1 {
		return 1
	}
	if speed > 5 {
		return 5
	}
	return speed
}
