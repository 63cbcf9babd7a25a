package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/mrwolf/budget-ai/internal/models"
	log "github.com/sirupsen/logrus"
)

const probeTimeout = 10 * time.Second

// Prober is the part of an upstream client the health job needs
type Prober interface {
	HealthCheck(ctx context.Context) error
	Model() string
}

// Status is the outcome of the latest upstream probe
type Status struct {
	Upstream  string
	Model     string
	CheckedAt time.Time
	Err       string
}

// Scheduler runs the upstream health probe
type Scheduler struct {
	scheduler gocron.Scheduler
	prober    Prober
	interval  time.Duration

	mu     sync.RWMutex
	status Status
}

// New creates a scheduler probing p every interval
func New(p Prober, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		prober:    p,
		interval:  interval,
		status: Status{
			Upstream: models.UpstreamUnknown,
			Model:    p.Model(),
		},
	}, nil
}

// Start registers the probe job, runs it once right away and starts the scheduler
func (s *Scheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.healthCheck),
		gocron.WithName("upstream-health"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	log.WithField("interval", s.interval).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// Status returns the latest probe result
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Scheduler) healthCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	s.Check(ctx)
}

// Check probes the upstream now and records the result.
func (s *Scheduler) Check(ctx context.Context) Status {
	st := Status{
		Upstream:  models.UpstreamConnected,
		Model:     s.prober.Model(),
		CheckedAt: time.Now(),
	}
	if err := s.prober.HealthCheck(ctx); err != nil {
		st.Upstream = models.UpstreamUnreachable
		st.Err = err.Error()
		log.WithError(err).Warn("Health check failed - upstream unreachable")
	}

	s.mu.Lock()
	prev := s.status.Upstream
	s.status = st
	s.mu.Unlock()

	if prev != st.Upstream && st.Upstream == models.UpstreamConnected {
		log.WithField("model", st.Model).Info("Upstream reachable")
	}
	return st
}
