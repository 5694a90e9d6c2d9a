// Package logger provides leveled, colorized console output for the
// launcher. Tools get their output streamed verbatim; these functions are
// for the launcher's own messages.
package logger

import "github.com/fatih/color"

// Printf-style functions per level. Info is green, Warn magenta,
// Error red. Debug is a no-op until Init enables it.
var (
	Info  = color.New(color.FgGreen).PrintfFunc()
	Warn  = color.New(color.FgHiMagenta).PrintfFunc()
	Error = color.New(color.FgRed).PrintfFunc()
	Debug = func(format string, a ...any) {}
)

// Init enables or disables debug output. Safe to call more than once.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
