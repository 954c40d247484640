package config

import (
	"fmt"
	"io"
)

// Exit codes shared by CLI entry points.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// Errorf writes a formatted message line to w and returns code, for use as
// `return config.Errorf(os.Stderr, config.ExitUsage, ...)` in run functions.
func Errorf(w io.Writer, code int, format string, args ...any) int {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
	return code
}
