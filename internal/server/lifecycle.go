// Package server coordinates the long-running pieces of the session
// server process and tears them down together on shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is one long-running piece of the process. Start blocks for
// the service's lifetime; Stop asks it to wind down and may be called
// from a different goroutine than Start.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into a Service, for
// components that don't carry their own type.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start runs the start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop runs the stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle runs a set of named services as one unit: startup in
// registration order, teardown in reverse, so later services may lean
// on earlier ones for their whole lifetime.
type Lifecycle struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries []entry
}

type entry struct {
	name string
	svc  Service
}

// NewLifecycle creates an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{name: name, svc: svc})
}

// Run starts every registered service in its own goroutine and blocks
// until SIGINT/SIGTERM arrives, a service fails, or ctx is cancelled.
// It then stops the services in reverse registration order.
//
// Postcondition: Every service's Stop has returned when Run returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	up := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failed := make(chan error, len(l.entries))
	for _, e := range l.entries {
		e := e
		go func() {
			l.logger.Info("service starting", zap.String("service", e.name))
			if err := e.svc.Start(); err != nil {
				failed <- fmt.Errorf("service %s: %w", e.name, err)
				cancel()
			}
		}()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		l.logger.Info("shutdown signal received",
			zap.String("signal", sig.String()),
		)
	case err := <-failed:
		l.logger.Error("service failed, shutting down",
			zap.Error(err),
		)
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.stopAll()

	l.logger.Info("shutdown complete",
		zap.Duration("uptime", time.Since(up)),
	)
	return nil
}

// stopAll stops services in reverse registration order.
func (l *Lifecycle) stopAll() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		stopStart := time.Now()
		e.svc.Stop()
		l.logger.Info("service stopped",
			zap.String("service", e.name),
			zap.Duration("elapsed", time.Since(stopStart)),
		)
	}
}
