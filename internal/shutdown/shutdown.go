package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Handler coordinates graceful termination: callers register cleanup
// functions and block on Wait until SIGINT/SIGTERM arrives.
type Handler struct {
	mu             sync.Mutex
	shutdownFuncs  []func(context.Context) error
	timeout        time.Duration
	signalChan     chan os.Signal
	shutdownChan   chan struct{}
	isShuttingDown bool
}

// New creates a handler that gives cleanup functions at most timeout to
// finish.
func New(timeout time.Duration) *Handler {
	return &Handler{
		shutdownFuncs: make([]func(context.Context) error, 0),
		timeout:       timeout,
		signalChan:    make(chan os.Signal, 1),
		shutdownChan:  make(chan struct{}),
	}
}

// Register queues a cleanup function. Functions run in reverse
// registration order, so dependents register after their dependencies.
func (h *Handler) Register(fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdownFuncs = append(h.shutdownFuncs, fn)
}

// Wait blocks until SIGINT or SIGTERM, then runs Shutdown.
func (h *Handler) Wait() {
	signal.Notify(h.signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-h.signalChan
	h.Shutdown()
}

// Shutdown runs every registered cleanup function under the configured
// timeout. Subsequent calls are no-ops; the first cleanup error (or the
// timeout) is returned.
func (h *Handler) Shutdown() error {
	h.mu.Lock()
	if h.isShuttingDown {
		h.mu.Unlock()
		return nil
	}
	h.isShuttingDown = true
	h.mu.Unlock()

	close(h.shutdownChan)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var wg sync.WaitGroup
	errChan := make(chan error, len(h.shutdownFuncs))

	// Newest registration first.
	for i := len(h.shutdownFuncs) - 1; i >= 0; i-- {
		fn := h.shutdownFuncs[i]
		wg.Add(1)

		go func(cleanup func(context.Context) error) {
			defer wg.Done()
			if err := cleanup(ctx); err != nil {
				errChan <- err
			}
		}(fn)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		close(errChan)
		for err := range errChan {
			return err
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsShuttingDown reports whether shutdown has started.
func (h *Handler) IsShuttingDown() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.isShuttingDown
}

// ShutdownChan returns a channel closed once shutdown starts, for
// long-running loops that need to drain.
func (h *Handler) ShutdownChan() <-chan struct{} {
	return h.shutdownChan
}

// TriggerShutdown requests shutdown without an OS signal.
func (h *Handler) TriggerShutdown() {
	select {
	case h.signalChan <- syscall.SIGTERM:
	default:
	}
}
