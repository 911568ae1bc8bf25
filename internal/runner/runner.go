// Package runner executes named analysis checks and produces run
// reports in JSON and HTML form.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/steadhac/ai-threat-analytics-framework/pkg/logger"
	"github.com/steadhac/ai-threat-analytics-framework/pkg/metrics"
)

// ErrSkipped is returned by a check function to mark the check as
// skipped rather than failed.
var ErrSkipped = errors.New("check skipped")

// Status represents the outcome of a single check.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// CheckFunc is a single executable check.
type CheckFunc func(ctx context.Context) error

// Check is a named check with optional tags for suite filtering.
type Check struct {
	Name string
	Tags []string
	Fn   CheckFunc
}

// CheckResult captures the outcome of one check.
type CheckResult struct {
	Name     string        `json:"name"`
	Tags     []string      `json:"tags,omitempty"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// RunReport aggregates the results of a suite run.
type RunReport struct {
	RunID      uuid.UUID                      `json:"run_id"`
	Suite      string                         `json:"suite"`
	StartedAt  time.Time                      `json:"started_at"`
	FinishedAt time.Time                      `json:"finished_at"`
	Duration   time.Duration                  `json:"duration_ns"`
	Results    []CheckResult                  `json:"results"`
	Passed     int                            `json:"passed"`
	Failed     int                            `json:"failed"`
	Skipped    int                            `json:"skipped"`
	Total      int                            `json:"total"`
	Metrics    map[string]metrics.MetricValue `json:"metrics,omitempty"`
}

// Success reports whether no check failed.
func (r *RunReport) Success() bool {
	return r.Failed == 0
}

// Suite is an ordered collection of checks.
type Suite struct {
	name     string
	checks   []Check
	log      *logger.Logger
	registry *metrics.Registry
	tracer   trace.Tracer
}

// NewSuite creates an empty suite. A nil logger uses the default
// logger; a nil registry uses a fresh one.
func NewSuite(name string, log *logger.Logger, registry *metrics.Registry) *Suite {
	if log == nil {
		log = logger.GetDefault()
	}
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	return &Suite{
		name:     name,
		log:      log,
		registry: registry,
		tracer:   otel.Tracer("check-runner"),
	}
}

// Name returns the suite name.
func (s *Suite) Name() string {
	return s.name
}

// Add appends a check to the suite.
func (s *Suite) Add(name string, tags []string, fn CheckFunc) {
	s.checks = append(s.checks, Check{Name: name, Tags: tags, Fn: fn})
}

// Len returns the number of checks in the suite.
func (s *Suite) Len() int {
	return len(s.checks)
}

// Filter returns a new suite containing only checks carrying at least
// one of the given tags. An empty tag list returns the suite unchanged.
func (s *Suite) Filter(tags ...string) *Suite {
	if len(tags) == 0 {
		return s
	}

	filtered := &Suite{
		name:     s.name,
		log:      s.log,
		registry: s.registry,
		tracer:   s.tracer,
	}
	for _, check := range s.checks {
		if hasAnyTag(check.Tags, tags) {
			filtered.checks = append(filtered.checks, check)
		}
	}
	return filtered
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// Run executes all checks sequentially and returns the aggregated
// report. A check failure does not stop the run.
func (s *Suite) Run(ctx context.Context) *RunReport {
	report := &RunReport{
		RunID:     uuid.New(),
		Suite:     s.name,
		StartedAt: time.Now().UTC(),
		Results:   make([]CheckResult, 0, len(s.checks)),
	}

	ctx = context.WithValue(ctx, "run_id", report.RunID.String())
	ctx, span := s.tracer.Start(ctx, "suite.run",
		trace.WithAttributes(
			attribute.String("suite.name", s.name),
			attribute.String("run.id", report.RunID.String()),
			attribute.Int("suite.checks", len(s.checks)),
		))
	defer span.End()

	log := s.log.WithContext(ctx).WithField("suite", s.name)
	log.Info("starting run with %d checks", len(s.checks))

	passedCounter := s.registry.NewCounter("checks_passed_total", "Checks that passed", nil)
	failedCounter := s.registry.NewCounter("checks_failed_total", "Checks that failed", nil)
	skippedCounter := s.registry.NewCounter("checks_skipped_total", "Checks that were skipped", nil)
	durations := s.registry.NewTimer("check_duration", "Per-check execution time", nil)

	for _, check := range s.checks {
		result := s.runCheck(ctx, check)
		durations.Record(result.Duration)

		switch result.Status {
		case StatusPassed:
			report.Passed++
			passedCounter.Inc()
		case StatusFailed:
			report.Failed++
			failedCounter.Inc()
		case StatusSkipped:
			report.Skipped++
			skippedCounter.Inc()
		}
		report.Results = append(report.Results, result)
	}

	report.FinishedAt = time.Now().UTC()
	report.Duration = report.FinishedAt.Sub(report.StartedAt)
	report.Total = len(report.Results)
	report.Metrics = s.registry.Snapshot()

	log.Info("run finished: %d passed, %d failed, %d skipped",
		report.Passed, report.Failed, report.Skipped)
	return report
}

func (s *Suite) runCheck(ctx context.Context, check Check) CheckResult {
	ctx, span := s.tracer.Start(ctx, "suite.check",
		trace.WithAttributes(attribute.String("check.name", check.Name)))
	defer span.End()

	log := s.log.WithContext(ctx).WithField("check", check.Name)
	log.Debug("running check")

	start := time.Now()
	err := runProtected(ctx, check.Fn)
	elapsed := time.Since(start)

	result := CheckResult{
		Name:     check.Name,
		Tags:     check.Tags,
		Duration: elapsed,
	}

	switch {
	case err == nil:
		result.Status = StatusPassed
		log.Info("check passed in %v", elapsed)
	case errors.Is(err, ErrSkipped):
		result.Status = StatusSkipped
		log.Info("check skipped")
	default:
		result.Status = StatusFailed
		result.Error = err.Error()
		span.RecordError(err)
		log.Error("check failed: %v", err)
	}
	return result
}

// runProtected converts a panicking check into a failure.
func runProtected(ctx context.Context, fn CheckFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()
	return fn(ctx)
}
