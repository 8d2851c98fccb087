package input

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalEmulatesRelease(t *testing.T) {
	term := &Terminal{keys: []rune("asdfjkl;"), holdTimeout: 100 * time.Millisecond}
	start := time.Unix(0, 0)

	events := term.feed(nil, keyboard.KeyEvent{Rune: 'd'}, start)
	assert.Equal(t, []Event{{Lane: 2, Pressed: true}}, events)

	// Autorepeat keeps the lane held without new presses.
	events = term.feed(nil, keyboard.KeyEvent{Rune: 'd'}, start.Add(80*time.Millisecond))
	assert.Empty(t, events)
	assert.Empty(t, term.expire(nil, start.Add(150*time.Millisecond)))

	events = term.expire(nil, start.Add(200*time.Millisecond))
	assert.Equal(t, []Event{{Lane: 2}}, events)
	assert.False(t, term.down[2])
}

func TestTerminalControls(t *testing.T) {
	term := &Terminal{keys: []rune("asdfjkl;")}
	events := term.feed(nil, keyboard.KeyEvent{Key: keyboard.KeyTab}, time.Now())
	events = term.feed(events, keyboard.KeyEvent{Key: keyboard.KeyEsc}, time.Now())
	events = term.feed(events, keyboard.KeyEvent{Rune: 'x'}, time.Now())
	assert.Equal(t, []Event{{Control: Faster}, {Control: Quit}}, events)
}

func TestTranslate(t *testing.T) {
	codes := laneCodes([]rune("asdfjkl;"))
	require.Len(t, codes, 8)

	tests := []struct {
		ev    keyEvent
		event Event
		ok    bool
	}{
		{keyEvent{Type: evKey, Code: 36, Value: pressed}, Event{Lane: 4, Pressed: true}, true},
		{keyEvent{Type: evKey, Code: 36, Value: released}, Event{Lane: 4}, true},
		{keyEvent{Type: evKey, Code: 36, Value: 2}, Event{}, false},
		{keyEvent{Type: 0x04, Code: 36, Value: pressed}, Event{}, false},
		{keyEvent{Type: evKey, Code: 16, Value: pressed}, Event{}, false},
		{keyEvent{Type: evKey, Code: keyEsc, Value: pressed}, Event{Control: Quit}, true},
	}
	for _, test := range tests {
		event, ok := translate(test.ev, codes)
		assert.Equal(t, test.ok, ok, "%+v", test.ev)
		assert.Equal(t, test.event, event, "%+v", test.ev)
	}
}

func TestDeviceRead(t *testing.T) {
	var buf bytes.Buffer
	for _, ev := range []keyEvent{
		{Type: evKey, Code: 30, Value: pressed},
		{Type: evKey, Code: 30, Value: 2},
		{Type: evKey, Code: 39, Value: pressed},
		{Type: evKey, Code: 30, Value: released},
	} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, ev))
	}

	d := &Device{file: io.NopCloser(&buf), events: make(chan Event, 8)}
	d.read(laneCodes([]rune("asdfjkl;")))

	assert.Equal(t, []Event{
		{Lane: 0, Pressed: true},
		{Lane: 7, Pressed: true},
		{Lane: 0},
	}, d.Poll(time.Now()))
}
