package parser

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Extensions are the file names considered charts in a song directory.
var Extensions = []string{".sm", ".dos", ".txt"}

// Detect picks the grammar of a chart from its extension, falling back
// to sniffing the text.
func Detect(name, text string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".dos":
		return &FrameParser{}, nil
	case ".sm":
		return &MeasureParser{}, nil
	}

	switch {
	case strings.Contains(text, "#NOTES"):
		return &MeasureParser{}, nil
	case strings.Contains(text, "_data=") || strings.Contains(text, "speed_change="):
		return &FrameParser{}, nil
	}
	return nil, errors.Errorf("unable to recognise chart format of %s", name)
}
