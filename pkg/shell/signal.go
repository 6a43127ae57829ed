package shell

import (
	"context"
	"os"
	"os/signal"
)

// Returns a context that is canceled when the process receives an interrupt or
// termination signal, and a function that stops listening. Only the first
// signal is caught; later ones get their default behavior.
func notifySignals(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, stopSignals...)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("stopping on signal", "signal", signalName(sig))
			signal.Stop(sigCh)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
