package input

import (
	"encoding/binary"
	"io"
	"os"
	"syscall"
	"time"

	"git.lost.host/meutraa/eotw/internal/monitoring"
	"github.com/pkg/errors"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey = 0x01

	keyEsc       = 1
	keyBackspace = 14
	keyTab       = 15
	keyDelete    = 111

	released = 0
	pressed  = 1
)

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

var qwertyCodes = map[rune]uint16{
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38, ';': 39, '\'': 40,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ',': 51, '.': 52, '/': 53,
	' ': 57,
}

// Device reads a Linux evdev keyboard, which reports real releases.
// Key bindings are resolved through a qwerty layout.
type Device struct {
	file   io.ReadCloser
	events chan Event
}

func OpenDevice(path string, keys []rune) (*Device, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	d := &Device{file: file, events: make(chan Event, 128)}
	go d.read(laneCodes(keys))
	return d, nil
}

func laneCodes(keys []rune) map[uint16]int {
	codes := map[uint16]int{}
	for lane, r := range keys {
		if code, ok := qwertyCodes[r]; ok {
			codes[code] = lane
		} else {
			monitoring.Logf("no evdev code for key %q", r)
		}
	}
	return codes
}

func (d *Device) read(codes map[uint16]int) {
	defer close(d.events)

	var ev keyEvent
	for {
		if err := binary.Read(d.file, binary.LittleEndian, &ev); nil != err {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				monitoring.Logf("unable to read keyboard input: %v", err)
			}
			return
		}
		if e, ok := translate(ev, codes); ok {
			d.events <- e
		}
	}
}

// translate ignores autorepeat and keys without a binding.
func translate(ev keyEvent, codes map[uint16]int) (Event, bool) {
	if ev.Type != evKey || (ev.Value != pressed && ev.Value != released) {
		return Event{}, false
	}
	if ev.Value == pressed {
		switch ev.Code {
		case keyEsc, keyDelete:
			return Event{Control: Quit}, true
		case keyTab:
			return Event{Control: Faster}, true
		case keyBackspace:
			return Event{Control: Slower}, true
		}
	}
	lane, ok := codes[ev.Code]
	if !ok {
		return Event{}, false
	}
	return Event{Lane: lane, Pressed: ev.Value == pressed}, true
}

func (d *Device) Poll(now time.Time) []Event {
	events := []Event{}
	for i := len(d.events); i > 0; i-- {
		e, ok := <-d.events
		if !ok {
			break
		}
		events = append(events, e)
	}
	return events
}

func (d *Device) Close() error {
	return d.file.Close()
}
