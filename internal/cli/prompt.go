package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rcliao/what-should-we-play/internal/catalog"
	"github.com/rcliao/what-should-we-play/internal/logging"
	"github.com/rcliao/what-should-we-play/internal/resolve"
	"github.com/rcliao/what-should-we-play/internal/session"
)

// lineReader hands out input lines from one reader. A single goroutine owns the
// reader so an expired prompt never swallows the next prompt's answer.
type lineReader struct {
	once  sync.Once
	in    io.Reader
	lines chan string
}

func newLineReader(in io.Reader) *lineReader {
	return &lineReader{in: in, lines: make(chan string)}
}

func (r *lineReader) C() <-chan string {
	r.once.Do(func() {
		go func() {
			defer close(r.lines)
			sc := bufio.NewScanner(r.in)
			for sc.Scan() {
				r.lines <- sc.Text()
			}
		}()
	})
	return r.lines
}

// terminalPresenter shows candidates on out and reads the requester's choice.
type terminalPresenter struct {
	actor string
	out   io.Writer
	in    *lineReader
}

func (p *terminalPresenter) Present(ctx context.Context, s *session.Session) error {
	fmt.Fprintf(p.out, "%q matches more than one game:\n", s.Input)
	for i, c := range s.Candidates {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, c)
	}
	fmt.Fprintf(p.out, "  n) add %q as a new game\n  d) decline\n", s.Input)

	go p.answer(ctx, s)
	return nil
}

func (p *terminalPresenter) answer(ctx context.Context, s *session.Session) {
	log := logging.Ctx(ctx)
	for !s.State().Terminal() {
		fmt.Fprint(p.out, "choice: ")
		select {
		case <-s.Done():
			return
		case line, ok := <-p.in.C():
			if !ok {
				// Input closed: leave the session to its deadline.
				return
			}
			choice, err := parseChoice(line, s.Candidates)
			if err != nil {
				fmt.Fprintln(p.out, err)
				continue
			}
			if err := s.Apply(p.actor, choice); err != nil {
				log.Debug().Err(err).Str("session", s.ID).Msg("choice rejected")
				fmt.Fprintln(p.out, err)
				continue
			}
			return
		}
	}
}

// parseChoice maps "1".."N", "n" and "d" to a session choice.
func parseChoice(line string, candidates []string) (session.Choice, error) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "n", "new":
		return session.Choice{Action: session.ActionAddAsNew}, nil
	case "d", "decline", "":
		return session.Choice{Action: session.ActionDecline}, nil
	}
	i, err := strconv.Atoi(line)
	if err != nil || i < 1 || i > len(candidates) {
		return session.Choice{}, fmt.Errorf("enter 1-%d, n or d", len(candidates))
	}
	return session.Choice{Action: session.ActionSelect, Name: candidates[i-1]}, nil
}

var stdinLines *lineReader

// stdinLineReader returns the process-wide reader over stdin.
func stdinLineReader() *lineReader {
	if stdinLines == nil {
		stdinLines = newLineReader(os.Stdin)
	}
	return stdinLines
}

// newResolver returns a resolver over view that asks player on out and reads
// the answer from lines when a name is ambiguous.
func newResolver(ctx context.Context, view catalog.View, player string, lines *lineReader, out io.Writer) *resolve.Resolver {
	p := &terminalPresenter{actor: player, out: out, in: lines}
	coord := session.NewCoordinator(p, cfg.Resolve.Timeout, *logging.With("session"))
	return resolve.New(view, coord,
		resolve.WithMaxCandidates(cfg.Resolve.MaxCandidates),
		resolve.WithLogger(logging.Ctx(ctx).With().Str("component", "resolve").Logger()),
	)
}
