package errors

import (
	"fmt"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Debug enables reporting of tolerated failures (read-only writes,
	// dead weak targets) and includes stack traces in the output.
	Debug bool
}

// HandleError logs a VarError to stderr. Tolerated kinds are only printed
// in debug mode, matching their debug-level severity.
func (h *LogHandler) HandleError(err *VarError) {
	if err == nil {
		return
	}
	if !h.Debug && (err.Kind == KindReadOnly || err.Kind == KindDeadWeak) {
		return
	}
	fmt.Fprintf(os.Stderr, "[reactive error] %s [%s]: %v\n", err.Op, err.Kind, err.Err)
	if h.Debug && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// HandlePanic logs a PanicError to stderr.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Op != "" {
		fmt.Fprintf(os.Stderr, "[reactive panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(os.Stderr, "[reactive panic] %v\n", err.Value)
	}
	if h.Debug && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}
