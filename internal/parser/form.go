package parser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Entry is one keyed statement of a chart. Each value is a list because
// a value may itself be split on '='.
type Entry struct {
	Key    string
	Values [][]string
}

type Form []Entry

// Lookup returns the last entry with key, later statements win.
func (f Form) Lookup(key string) (Entry, bool) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i].Key == key {
			return f[i], true
		}
	}
	return Entry{}, false
}

func (e Entry) Float(i, j int) (float64, error) {
	if i >= len(e.Values) || j >= len(e.Values[i]) {
		return 0, formatError(e.Key, "", errors.Errorf("missing value %d.%d", i, j))
	}
	token := strings.TrimSpace(e.Values[i][j])
	f, err := strconv.ParseFloat(token, 64)
	if nil != err {
		return 0, formatError(e.Key, token, errors.Wrap(err, "not a number"))
	}
	return f, nil
}

// Floats flattens the entry into numbers, skipping empty tokens.
func (e Entry) Floats() ([]float64, error) {
	fs := make([]float64, 0, len(e.Values))
	for i, v := range e.Values {
		for j := range v {
			if strings.TrimSpace(v[j]) == "" {
				continue
			}
			f, err := e.Float(i, j)
			if nil != err {
				return nil, err
			}
			fs = append(fs, f)
		}
	}
	return fs, nil
}

// Text rebuilds the raw value of the entry.
func (e Entry) Text() string {
	parts := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		parts = append(parts, strings.Join(v, "="))
	}
	return strings.Join(parts, ",")
}
