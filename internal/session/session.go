// Package session implements the short-lived interactive choice used to
// disambiguate a typed game name.
//
// A Session starts Open and ends in exactly one of Resolved, AddAsNew, Declined or
// TimedOut. Every terminal transition goes through one compare-and-swap, so a late
// selection racing the deadline either wins or becomes a no-op.
package session

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"time"
)

// DefaultTimeout is how long a session waits for its requester.
const DefaultTimeout = 30 * time.Second

// State is a session's lifecycle state.
type State int

const (
	// Open waits for the requester.
	Open State = iota
	// Resolved picked one of the candidates.
	Resolved
	// AddAsNew keeps the typed input as a new game.
	AddAsNew
	// Declined rejected every candidate.
	Declined
	// TimedOut ended without an answer.
	TimedOut
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Resolved:
		return "resolved"
	case AddAsNew:
		return "add_as_new"
	case Declined:
		return "declined"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a session.
func (s State) Terminal() bool { return s != Open }

var (
	// ErrForeignActor is returned when someone other than the requester interacts.
	// The session is left untouched.
	ErrForeignActor = errors.New("only the requester can answer this prompt")
	// ErrUnknownCandidate is returned for a selection that was not offered.
	ErrUnknownCandidate = errors.New("selection is not one of the offered games")
	// ErrClosed is returned for interactions after the session ended.
	ErrClosed = errors.New("session already closed")
)

// Outcome is the terminal result of a session. Selection is set only for Resolved.
type Outcome struct {
	State     State
	Selection string
}

// Action is what the requester chose to do.
type Action int

const (
	ActionSelect Action = iota
	ActionAddAsNew
	ActionDecline
)

// Choice is one interaction from the presenter.
type Choice struct {
	Action Action
	// Name is the selected candidate for ActionSelect.
	Name string
}

// Session is one pending disambiguation.
type Session struct {
	ID         string
	Requester  string
	Input      string
	Candidates []string
	Deadline   time.Time

	finished atomic.Bool
	outcome  Outcome
	done     chan struct{}
	timer    *time.Timer
}

// New opens a session that times out after timeout. Candidates are copied.
func New(id, requester, input string, candidates []string, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &Session{
		ID:         id,
		Requester:  requester,
		Input:      input,
		Candidates: slices.Clone(candidates),
		Deadline:   time.Now().Add(timeout),
		done:       make(chan struct{}),
	}
	s.timer = time.AfterFunc(timeout, func() { s.Expire() })
	return s
}

// Apply performs c on behalf of actor.
func (s *Session) Apply(actor string, c Choice) error {
	switch c.Action {
	case ActionSelect:
		return s.Select(actor, c.Name)
	case ActionAddAsNew:
		return s.AddAsNew(actor)
	case ActionDecline:
		return s.Decline(actor)
	default:
		return errors.New("unknown action")
	}
}

// Select resolves the session to one of its candidates.
func (s *Session) Select(actor, name string) error {
	if err := s.check(actor); err != nil {
		return err
	}
	if !slices.Contains(s.Candidates, name) {
		return ErrUnknownCandidate
	}
	return s.finish(Outcome{State: Resolved, Selection: name})
}

// AddAsNew keeps the typed input verbatim.
func (s *Session) AddAsNew(actor string) error {
	if err := s.check(actor); err != nil {
		return err
	}
	return s.finish(Outcome{State: AddAsNew})
}

// Decline rejects every candidate.
func (s *Session) Decline(actor string) error {
	if err := s.check(actor); err != nil {
		return err
	}
	return s.finish(Outcome{State: Declined})
}

// Expire ends the session as TimedOut. It reports whether this call made the
// transition.
func (s *Session) Expire() bool {
	return s.finish(Outcome{State: TimedOut}) == nil
}

func (s *Session) check(actor string) error {
	if actor != s.Requester {
		return ErrForeignActor
	}
	if s.finished.Load() {
		return ErrClosed
	}
	return nil
}

func (s *Session) finish(o Outcome) error {
	if !s.finished.CompareAndSwap(false, true) {
		return ErrClosed
	}
	s.outcome = o
	close(s.done)
	return nil
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the current state without blocking.
func (s *Session) State() State {
	select {
	case <-s.done:
		return s.outcome.State
	default:
		return Open
	}
}

// Wait blocks until the session ends. Cancelling ctx ends it as TimedOut unless
// another transition got there first.
func (s *Session) Wait(ctx context.Context) Outcome {
	select {
	case <-s.done:
	case <-ctx.Done():
		s.Expire()
		<-s.done
	}
	s.timer.Stop()
	return s.outcome
}
