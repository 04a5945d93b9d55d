package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalHandler manages graceful shutdown on interrupt
type SignalHandler struct {
	signals    chan os.Signal
	stopCh     chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
	cancel     context.CancelFunc
	onShutdown []func()
	mu         sync.Mutex
}

// NewSignalHandler creates a signal handler with the given context cancel
func NewSignalHandler(cancel context.CancelFunc) *SignalHandler {
	return &SignalHandler{
		signals: make(chan os.Signal, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
}

// Start begins listening for SIGINT and SIGTERM
func (h *SignalHandler) Start() {
	signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer close(h.done)

		select {
		case sig := <-h.signals:
			log.Printf("Received signal: %v", sig)

			if h.cancel != nil {
				h.cancel()
			}

			h.mu.Lock()
			callbacks := make([]func(), len(h.onShutdown))
			copy(callbacks, h.onShutdown)
			h.mu.Unlock()

			for _, fn := range callbacks {
				fn()
			}
		case <-h.stopCh:
		}
	}()
}

// OnShutdown registers a callback to run on shutdown
func (h *SignalHandler) OnShutdown(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onShutdown = append(h.onShutdown, fn)
}

// Stop stops the signal handler and cleans up
func (h *SignalHandler) Stop() {
	signal.Stop(h.signals)
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
}
