package input

import (
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
	"github.com/eiannone/keyboard"
)

// Terminal reads keys from the controlling terminal. Terminals report
// presses only, so a lane counts as released once its key has not
// repeated for holdTimeout.
type Terminal struct {
	keys        []rune
	holdTimeout time.Duration
	ch          <-chan keyboard.KeyEvent

	down     [game.NLanes]bool
	lastSeen [game.NLanes]time.Time
}

func OpenTerminal(keys []rune, holdTimeout time.Duration) (*Terminal, error) {
	ch, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, err
	}
	return &Terminal{keys: keys, holdTimeout: holdTimeout, ch: ch}, nil
}

func (t *Terminal) Poll(now time.Time) []Event {
	events := []Event{}
	for i := len(t.ch); i > 0; i-- {
		events = t.feed(events, <-t.ch, now)
	}
	return t.expire(events, now)
}

func (t *Terminal) feed(events []Event, key keyboard.KeyEvent, now time.Time) []Event {
	switch key.Key {
	case keyboard.KeyEsc, keyboard.KeyDelete, keyboard.KeyCtrlC:
		return append(events, Event{Control: Quit})
	case keyboard.KeyTab:
		return append(events, Event{Control: Faster})
	case keyboard.KeyBackspace, keyboard.KeyBackspace2:
		return append(events, Event{Control: Slower})
	}

	for lane, r := range t.keys {
		if r != key.Rune {
			continue
		}
		t.lastSeen[lane] = now
		if !t.down[lane] {
			t.down[lane] = true
			events = append(events, Event{Lane: lane, Pressed: true})
		}
	}
	return events
}

func (t *Terminal) expire(events []Event, now time.Time) []Event {
	for lane := range t.down {
		if t.down[lane] && now.Sub(t.lastSeen[lane]) > t.holdTimeout {
			t.down[lane] = false
			events = append(events, Event{Lane: lane})
		}
	}
	return events
}

func (t *Terminal) Close() error {
	return keyboard.Close()
}
