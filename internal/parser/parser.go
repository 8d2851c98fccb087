package parser

import (
	"crypto/sha256"
	"encoding/base64"
	"os"

	"git.lost.host/meutraa/eotw/internal/game"
	"github.com/pkg/errors"
)

// Parser turns chart text into a Chart in two steps. The timing error
// formula lives with the grammar since track units differ per format.
type Parser interface {
	game.Offsetter

	Name() string
	Tokenize(text string) (Form, error)
	Lower(form Form) (*game.Chart, error)
}

// Parse reads a chart file and lowers it with the parser that fits it.
func Parse(file string) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, errors.Wrap(err, "unable to read chart")
	}
	p, err := Detect(file, string(data))
	if nil != err {
		return nil, err
	}
	return Load(p, string(data))
}

func Load(p Parser, text string) (*game.Chart, error) {
	form, err := p.Tokenize(text)
	if nil != err {
		return nil, err
	}
	chart, err := p.Lower(form)
	if nil != err {
		return nil, err
	}
	sum := sha256.Sum256([]byte(text))
	chart.Sum = base64.StdEncoding.EncodeToString(sum[:])
	return chart, nil
}
