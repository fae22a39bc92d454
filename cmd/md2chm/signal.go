package main

import (
	"context"
	"os/signal"
)

// notifyContext returns a context canceled by the first stop signal.
// Cancellation stops discovery and page conversion; a running help compiler
// is left to finish. Call stop() to restore default signal handling.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, stopSignals...)
}
