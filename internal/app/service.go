// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/cedula/internal/domain/cedula"
	"github.com/okian/cedula/pkg/logger"
	"github.com/okian/cedula/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Recorder receives one observation per validation.
type Recorder interface {
	RecordValidation(valid bool, kinds []string, latencyMs float64)
}

type globalRecorder struct{}

func (globalRecorder) RecordValidation(valid bool, kinds []string, latencyMs float64) {
	metrics.RecordValidation(valid, kinds, latencyMs)
}

// Service validates CIs on behalf of the HTTP layer. It holds no per-request
// state; the counters are atomic so one Service serves all goroutines.
type Service struct {
	logger   logger.Logger
	recorder Recorder

	total   atomic.Int64
	valid   atomic.Int64
	byKind  map[cedula.Kind]*atomic.Int64
	started time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder replaces the global metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		logger:   logger.Nop(),
		recorder: globalRecorder{},
		byKind:   make(map[cedula.Kind]*atomic.Int64, len(cedula.Kinds())),
		started:  time.Now(),
	}
	for _, k := range cedula.Kinds() {
		s.byKind[k] = new(atomic.Int64)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Validate runs the CI rules against ci. Parse diagnostics go to the debug
// log; they never change the result.
func (s *Service) Validate(ctx context.Context, ci string) cedula.Result {
	start := time.Now()
	res := cedula.ValidateWith(ci, func(n cedula.Note) {
		s.logger.Debug(ctx, "rule parse skipped",
			logger.String("rule", n.Rule.String()),
			logger.String("ci", n.Input),
			logger.String("reason", n.Reason))
	})
	latencyMs := float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond

	kinds := res.Kinds()
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.String()
		if c, ok := s.byKind[k]; ok {
			c.Add(1)
		}
	}
	s.total.Add(1)
	if res.Valid() {
		s.valid.Add(1)
	}
	s.recorder.RecordValidation(res.Valid(), labels, latencyMs)

	return res
}

// GetStats returns a snapshot of the validation counters.
func (s *Service) GetStats() map[string]interface{} {
	total := s.total.Load()
	valid := s.valid.Load()

	errorsByKind := make(map[string]int64, len(s.byKind))
	for k, c := range s.byKind {
		errorsByKind[k.String()] = c.Load()
	}

	return map[string]interface{}{
		"validations":   total,
		"valid":         valid,
		"invalid":       total - valid,
		"errorsByKind":  errorsByKind,
		"uptimeSeconds": int64(time.Since(s.started).Seconds()),
	}
}
