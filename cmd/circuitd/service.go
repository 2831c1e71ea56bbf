package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"github.com/edp1096/toy-circuit/pkg/analysis"
	"github.com/edp1096/toy-circuit/pkg/board"
	"github.com/edp1096/toy-circuit/pkg/lab"
	"github.com/edp1096/toy-circuit/pkg/natsutil"
)

var errBusy = errors.New("evaluator busy, retry later")

// Event is published after every evaluation for passive listeners such as
// dashboards.
type Event struct {
	Summary  board.Summary `json:"summary"`
	Topology string        `json:"topology"`
	Success  bool          `json:"success"`
	Elapsed  time.Duration `json:"elapsedNs"`
}

type service struct {
	nc      *nats.Conn
	cfg     Config
	limiter *rate.Limiter
	opts    []analysis.Option
	logger  *slog.Logger
}

func newService(nc *nats.Conn, cfg Config, logger *slog.Logger, opts ...analysis.Option) *service {
	return &service{
		nc:      nc,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		opts:    append(opts, analysis.WithLogger(logger)),
		logger:  logger,
	}
}

func (s *service) start() (*nats.Subscription, error) {
	sub, err := natsutil.Serve(s.nc, s.cfg.Subject, s.cfg.Queue, s.evaluate)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", s.cfg.Subject, err)
	}
	return sub, nil
}

func (s *service) evaluate(ctx context.Context, req lab.Request) (lab.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Wait)
	defer cancel()
	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warn("request rejected", "err", err)
		return lab.Report{}, errBusy
	}

	if err := board.Validate(req.Components, req.Wires); err != nil {
		s.logger.Debug("snapshot has problems", "err", err)
	}

	start := time.Now()
	report, err := lab.Evaluate(ctx, req.Snapshot, req.Target, s.opts...)
	if err != nil {
		return lab.Report{}, err
	}
	elapsed := time.Since(start)

	s.logger.Info("evaluated",
		"components", len(req.Components),
		"wires", len(req.Wires),
		"topology", report.Topology.Kind.String(),
		"error", report.Solve.Message(),
		"elapsed", elapsed,
	)

	if s.cfg.Events != "" {
		ev := Event{
			Summary:  board.Summarize(req.Snapshot, report.Solve.Message()),
			Topology: report.Topology.Kind.String(),
			Success:  report.Success,
			Elapsed:  elapsed,
		}
		if err := natsutil.Publish(ctx, s.nc, s.cfg.Events, ev); err != nil {
			s.logger.Warn("publish event failed", "err", err)
		}
	}
	return report, nil
}
