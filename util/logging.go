package util

import (
	"fmt"
	"io"
	"os"
)

// Debug logging for the language server and web service. Disabled by default
// because LSP clients own stdout; everything goes to stderr when enabled.

var LoggingEnabled = false

var output io.Writer = os.Stderr

func SetOutput(w io.Writer) {
	output = w
}

func LogF(format string, args ...interface{}) {
	if !LoggingEnabled {
		return
	}
	fmt.Fprintf(output, format+"\n", args...)
}
