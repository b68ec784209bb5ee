package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/rcliao/what-should-we-play/internal/metrics"
)

// ErrNoSession is returned by Interact for an unknown or finished session id.
var ErrNoSession = errors.New("no open session with that id")

// Presenter shows a session's choices to its requester. It must not block until
// the session ends: answers come back through Coordinator.Interact or the
// session's own methods.
type Presenter interface {
	Present(ctx context.Context, s *Session) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, s *Session) error

func (f PresenterFunc) Present(ctx context.Context, s *Session) error { return f(ctx, s) }

// Coordinator opens sessions, routes interactions to them by id, and waits for
// their outcome.
type Coordinator struct {
	presenter Presenter
	timeout   time.Duration
	logger    zerolog.Logger

	mu   sync.Mutex
	open map[string]*Session
}

// NewCoordinator returns a coordinator whose sessions expire after timeout.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewCoordinator(p Presenter, timeout time.Duration, logger zerolog.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Coordinator{
		presenter: p,
		timeout:   timeout,
		logger:    logger,
		open:      make(map[string]*Session),
	}
}

// Disambiguate presents candidates to requester and blocks until they answer,
// decline, or the session times out.
func (c *Coordinator) Disambiguate(ctx context.Context, requester, input string, candidates []string) (Outcome, error) {
	s := New(ulid.Make().String(), requester, input, candidates, c.timeout)

	c.mu.Lock()
	c.open[s.ID] = s
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.open, s.ID)
		c.mu.Unlock()
	}()

	log := c.logger.With().Str("session", s.ID).Str("input", input).Logger()
	log.Debug().Int("candidates", len(candidates)).Msg("session opened")

	if err := c.presenter.Present(ctx, s); err != nil {
		s.Expire()
		s.Wait(ctx)
		metrics.DisambiguationSessions.WithLabelValues("present_failed").Inc()
		return Outcome{State: TimedOut}, fmt.Errorf("present choices: %w", err)
	}

	out := s.Wait(ctx)
	metrics.DisambiguationSessions.WithLabelValues(out.State.String()).Inc()
	log.Debug().Str("state", out.State.String()).Str("selection", out.Selection).Msg("session closed")
	return out, nil
}

// Interact applies choice to the open session id on behalf of actor.
func (c *Coordinator) Interact(id, actor string, choice Choice) error {
	c.mu.Lock()
	s, ok := c.open[id]
	c.mu.Unlock()
	if !ok {
		return ErrNoSession
	}
	return s.Apply(actor, choice)
}

// OpenSessions returns how many sessions are waiting for an answer.
func (c *Coordinator) OpenSessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.open)
}
