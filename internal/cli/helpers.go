package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/drovertool/drover/internal/logging"
	"github.com/drovertool/drover/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// Debug mode writes to Stderr (to separate from Stdout progress output)
// and wins over the file log, which exists for after-the-fact reading.
func createLogger(debug bool, logFile string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	if logFile != "" {
		return logging.NewFile(logFile, slog.LevelInfo)
	}
	return logging.NewNop()
}

// reportStepError renders a pipeline failure with its hint, if any.
func reportStepError(term *Terminal, stepErr *domain.StepError) {
	term.Fail("The %s step failed: %s", stepErr.Phase, stepErr.Message)
	if hint, ok := stepErr.Details["hint"]; ok {
		term.Warn("Hint: %s", hint)
	}
}
