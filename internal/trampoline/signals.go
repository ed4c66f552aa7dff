package trampoline

import (
	"os/signal"
	"syscall"
)

// Signals masks interactive signals in the trampoline's own disposition so
// that bookkeeping is never interrupted mid-transition, while the child
// process still receives them through normal process-group delivery. It is
// an interface so the state machine is testable without signal delivery.
type Signals interface {
	Ignore()
}

// OSSignals is the real implementation.
type OSSignals struct{}

// Ignore masks INT, QUIT, TERM and PIPE for this process.
func (OSSignals) Ignore() {
	signal.Ignore(syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGPIPE)
}
