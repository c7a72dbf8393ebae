package library

import (
	"fmt"
	"runtime/debug"

	"github.com/mborders/logmatic"
)

var maxLevel = 4

// SetLogLevel drops every message above level. Fatal and error messages are always printed.
func SetLogLevel(level int) {
	if level < 1 {
		level = 1
	}
	maxLevel = level
}

// Logs to the terminal. Level options are: 0 fatal error (stack dump, exits), 1 serious error (stack dump), 2 warning, 3 debug, 4 info, 5 trace (stack dump).
func LogCLI(message interface{}, level int) {
	if level > maxLevel {
		return
	}
	l := logmatic.NewLogger()
	l.SetLevel(logmatic.TRACE)
	l.ExitOnFatal = true
	message = fmt.Sprint(message)
	switch level {
	case 5:
		debug.PrintStack()
		l.Trace("%v", message)
	case 4:
		l.Info("%v", message)
	case 3:
		l.Debug("%v", message)
	case 2:
		l.Warn("%v", message)
	case 1:
		debug.PrintStack()
		l.Error("%v", message)
	case 0:
		debug.PrintStack()
		l.Fatal("%v", message)
	}
}
