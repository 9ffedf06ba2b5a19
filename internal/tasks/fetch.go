package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/services"
	"github.com/desertthunder/statsdash/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// APIClient defines the backend call the engine makes for every catalog entry.
type APIClient interface {
	GetBearer(ctx context.Context, path, credential string) (*services.APIResponse, error)
}

// FetchEngine runs a catalog against the backend and builds a snapshot when every request succeeds.
type FetchEngine struct {
	api     APIClient
	limiter *rate.Limiter
	timeout time.Duration
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a [FetchEngine].
type Option func(*FetchEngine)

// WithRateLimit caps request starts per second. Zero or less disables limiting.
//
// The burst equals the catalog size so a single load is never serialized by the limiter.
func WithRateLimit(rps float64) Option {
	return func(e *FetchEngine) {
		if rps > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(rps), len(defaultCatalog))
		}
	}
}

// WithTimeout bounds every individual request.
func WithTimeout(d time.Duration) Option {
	return func(e *FetchEngine) { e.timeout = d }
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *FetchEngine) { e.logger = l }
}

// WithClock sets the source of snapshot load times.
func WithClock(now func() time.Time) Option {
	return func(e *FetchEngine) { e.now = now }
}

// NewFetchEngine creates a new FetchEngine over api.
func NewFetchEngine(api APIClient, opts ...Option) *FetchEngine {
	e := &FetchEngine{
		api:    api,
		logger: log.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// sendProgress sends a progress update through the channel without blocking.
func (e *FetchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Load runs the default catalog without progress reporting.
func (e *FetchEngine) Load(ctx context.Context, credential string) (*models.DashboardSnapshot, error) {
	return e.Run(ctx, credential, DefaultCatalog(), nil)
}

// Run issues one request per catalog entry concurrently and joins them all-or-nothing.
//
// Every request runs to completion; none is cancelled when a sibling fails. The first failure to
// arrive is returned as a [*BatchFailure] and no snapshot is built. Outcomes are stored by catalog
// position, so arrival order never affects the result.
func (e *FetchEngine) Run(ctx context.Context, credential string, catalog []RequestSpec, progress chan<- ProgressUpdate) (*models.DashboardSnapshot, error) {
	if credential == "" {
		return nil, shared.ErrAuthMissing
	}
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	total := len(catalog)
	outcomes := make([]FetchOutcome, total)
	started := time.Now()

	var (
		g    errgroup.Group
		done atomic.Int32
	)

	e.sendProgress(progress, fetchStartUpdate(total))

	for i, spec := range catalog {
		g.Go(func() error {
			outcome := e.fetch(ctx, credential, spec)
			outcomes[i] = outcome

			step := int(done.Add(1))
			if outcome.Err != nil {
				e.sendProgress(progress, endpointFailedUpdate(step, total, spec, outcome.Err))
				return &BatchFailure{Endpoint: spec.Name, Err: outcome.Err}
			}
			e.sendProgress(progress, endpointUpdate(step, total, spec))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Error("load failed", "error", err, "duration", time.Since(started))
		return nil, err
	}

	e.sendProgress(progress, buildSnapshotUpdate(total))
	snapshot := BuildAt(outcomes, e.now())
	e.sendProgress(progress, loadCompleteUpdate(total))

	e.logger.Info("load complete", "endpoints", total, "duration", time.Since(started))
	return snapshot, nil
}

func (e *FetchEngine) fetch(ctx context.Context, credential string, spec RequestSpec) FetchOutcome {
	outcome := FetchOutcome{Spec: spec}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			outcome.Err = &NetworkError{Err: err}
			return outcome
		}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := e.api.GetBearer(ctx, spec.Path, credential)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", shared.ErrTimeout, err)
		}
		e.logger.Debug("request failed", "endpoint", spec.Name, "error", err)
		outcome.Err = &NetworkError{Err: err}
		return outcome
	}

	e.logger.Debug("request finished", "endpoint", spec.Name, "status", resp.StatusCode, "duration", time.Since(started))

	switch {
	case !resp.OK():
		outcome.Err = &HTTPError{Status: resp.StatusCode, Body: resp.BodyText()}
	case !resp.IsJSON:
		outcome.Err = fmt.Errorf("%w: %s", shared.ErrMalformedResponse, truncate(resp.BodyText(), 80))
	default:
		outcome.Body = resp.Body
	}
	return outcome
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
