package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/cfop/internal/logging"
)

// DefaultLoadTimeout bounds a single batch load.
var DefaultLoadTimeout = 2 * time.Minute

// LoadFunc produces the tables of a new batch and the number of row
// warnings raised while reading them.
type LoadFunc func(ctx context.Context) (Tables, int, error)

// Observer receives service events. *metrics.Collector implements it.
type Observer interface {
	ObserveLoad(kind string, d time.Duration, warnings int, err error)
	SetActiveBatch(b *Batch)
	ObserveValidation(r ValidationReport)
	ObserveTool(name string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(string, time.Duration, int, error) {}
func (nopObserver) SetActiveBatch(*Batch)                          {}
func (nopObserver) ObserveValidation(ValidationReport)             {}
func (nopObserver) ObserveTool(string, error)                      {}

// ServiceOptions configures a Service. Zero values select defaults.
type ServiceOptions struct {
	MaxConcurrentLoads int
	LoadWait           time.Duration
	LoadTimeout        time.Duration
	Tools              *Toolset
	Observer           Observer
}

// Service ties the session, the load limiter and the tool registry
// together for long-running processes.
type Service struct {
	session     *Session
	limiter     *LoadLimiter
	tools       *Toolset
	observer    Observer
	loadTimeout time.Duration
}

// NewService creates a Service with an empty session.
func NewService(opts ServiceOptions) *Service {
	s := &Service{
		session:     NewSession(),
		limiter:     NewLoadLimiter(opts.MaxConcurrentLoads, opts.LoadWait),
		tools:       opts.Tools,
		observer:    opts.Observer,
		loadTimeout: opts.LoadTimeout,
	}
	if s.tools == nil {
		s.tools = DefaultTools()
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.loadTimeout <= 0 {
		s.loadTimeout = DefaultLoadTimeout
	}
	return s
}

// Load runs fn under the load limiter and, on success, installs the
// result as the active batch. kind labels the load for metrics ("zip",
// "upload", "dir", "postgres"); source is recorded on the batch.
// A failed load leaves the current batch in place.
func (s *Service) Load(ctx context.Context, kind, source string, fn LoadFunc) (*Batch, error) {
	start := time.Now()
	logger := logging.WithFields(ctx, "kind", kind, "source", source)

	var b *Batch
	var warnings int
	err := s.limiter.Do(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()

		tables, n, err := fn(ctx)
		if err != nil {
			return err
		}
		warnings = n
		b = NewBatch(tables, source)
		return nil
	})

	s.observer.ObserveLoad(kind, time.Since(start), warnings, err)
	if err != nil {
		logger.Warn("batch load failed", "error", err)
		return nil, fmt.Errorf("load %s batch: %w", kind, err)
	}

	prev := s.session.Replace(b)
	s.observer.SetActiveBatch(b)

	args := []any{
		"batch_id", b.ID(),
		"headers", b.Count(TableHeaders),
		"items", b.Count(TableItems),
		"reference", b.Count(TableReference),
		"warnings", warnings,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if prev != nil {
		args = append(args, "replaced", prev.ID())
	}
	logger.Info("batch loaded", args...)

	return b, nil
}

// Discard clears the active batch. It reports whether one was loaded.
func (s *Service) Discard(ctx context.Context) bool {
	prev := s.session.Discard()
	if prev == nil {
		return false
	}
	s.observer.SetActiveBatch(nil)
	logging.FromContext(ctx).Info("batch discarded", "batch_id", prev.ID())
	return true
}

// Current returns the active batch.
func (s *Service) Current() (*Batch, bool) {
	return s.session.Current()
}

// Batch returns the active batch or ErrNoBatch.
func (s *Service) Batch() (*Batch, error) {
	return s.session.Require()
}

// Validate runs a full validation of the active batch.
func (s *Service) Validate() (ValidationReport, *Batch, error) {
	b, err := s.session.Require()
	if err != nil {
		return ValidationReport{}, nil, err
	}
	r := b.Validate()
	s.observer.ObserveValidation(r)
	return r, b, nil
}

// Tools returns the tool registry.
func (s *Service) Tools() *Toolset {
	return s.tools
}

// InvokeTool runs a tool against the active batch.
func (s *Service) InvokeTool(name string, args Args) (ToolResult, error) {
	b, _ := s.session.Current()
	res, err := s.tools.Invoke(b, name, args)
	label := name
	if errors.Is(err, ErrUnknownTool) {
		label = "unknown"
	}
	s.observer.ObserveTool(label, err)
	return res, err
}

// LoadStatus reports the load limiter occupancy.
func (s *Service) LoadStatus() LoadLimiterStatus {
	return s.limiter.Status()
}

// WaitForLoads blocks until in-flight loads finish or ctx is done.
func (s *Service) WaitForLoads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
