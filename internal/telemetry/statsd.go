// Package telemetry emits frame and sweep metrics over DogStatsD. It hides
// the datadog dependency behind a small Client interface so the loop code
// only sees Reporter.
package telemetry

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/framecs/runtime/internal/core/ecs"
	"github.com/framecs/runtime/internal/core/system"
)

// Client is the subset of ddstatsd.ClientInterface the reporter uses.
type Client interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
	Close() error
}

// Reporter forwards runner timings and sweep results to a statsd client.
// It satisfies system.Observer.
type Reporter struct {
	client Client
	log    *zap.Logger
}

// NewReporter wraps client. A nil client becomes a no-op client.
func NewReporter(client Client, log *zap.Logger) *Reporter {
	if client == nil {
		client = &ddstatsd.NoOpClient{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{client: client, log: log}
}

// Dial connects to a DogStatsD agent at address. An empty address yields
// a reporter backed by the no-op client.
func Dial(address, namespace string, tags []string, log *zap.Logger) (*Reporter, error) {
	if address == "" {
		return NewReporter(nil, log), nil
	}
	opts := []ddstatsd.Option{
		ddstatsd.WithNamespace(namespace),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}
	c, err := ddstatsd.New(address, opts...)
	if err != nil {
		return nil, eris.Wrapf(err, "statsd client for %s", address)
	}
	return NewReporter(c, log), nil
}

func (r *Reporter) PhaseTiming(p system.Phase, d time.Duration) {
	r.warn("phase", r.client.Timing("phase", d, []string{"phase:" + p.String()}, 1))
}

func (r *Reporter) FrameTiming(frame uint64, d time.Duration) {
	r.warn("frame", r.client.Timing("frame", d, nil, 1))
}

// Sweep records one Refresh. Its signature matches ecs.WithSweepHook.
func (r *Reporter) Sweep(s ecs.SweepStats) {
	r.warn("sweep.destroyed", r.client.Count("sweep.destroyed", int64(s.Destroyed), nil, 1))
	r.warn("sweep.evicted", r.client.Count("sweep.evicted", int64(s.GroupEvictions), []string{"index:group"}, 1))
	r.warn("sweep.evicted", r.client.Count("sweep.evicted", int64(s.LayerEvictions), []string{"index:layer"}, 1))
	r.warn("entities", r.client.Gauge("entities", float64(s.Remaining), nil, 1))
}

func (r *Reporter) Close() error {
	return r.client.Close()
}

func (r *Reporter) warn(metric string, err error) {
	if err != nil {
		r.log.Warn("failed to emit stat", zap.String("metric", metric), zap.Error(err))
	}
}
