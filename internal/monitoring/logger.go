package monitoring

import "log"

// Logf is the package-level diagnostic logger. Tests may mute it with
// SetLogger(nil).
var Logf func(format string, v ...interface{}) = log.Printf

func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
