// Package monitoring holds the diagnostic loggers shared by the table builders.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be replaced with SetLogger so tests can capture or mute build output.
var Logf func(format string, v ...interface{}) = log.Printf

// Warnf reports data-quality problems (degenerate regions, uncovered virtual
// coordinates). They never stop a build.
var Warnf func(format string, v ...interface{}) = func(format string, v ...interface{}) {
	log.Printf("warning: "+format, v...)
}

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetWarnLogger replaces Warnf. Passing nil installs a no-op logger.
func SetWarnLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Warnf = func(string, ...interface{}) {}
		return
	}
	Warnf = f
}
