package parser

import "fmt"

// ChartFormatError reports malformed chart text. No partial chart is
// returned alongside it.
type ChartFormatError struct {
	Section string
	Token   string
	Err     error
}

func (e *ChartFormatError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("malformed chart section %q: %v", e.Section, e.Err)
	}
	return fmt.Sprintf("malformed chart section %q at %q: %v", e.Section, e.Token, e.Err)
}

func (e *ChartFormatError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors unwrap to the underlying failure.
func (e *ChartFormatError) Cause() error { return e.Err }

func formatError(section, token string, err error) error {
	return &ChartFormatError{Section: section, Token: token, Err: err}
}
