// Package report drives the remote report-generation job and models the
// career report it produces.
package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultInterval is the delay between status polls.
const DefaultInterval = 1500 * time.Millisecond

var (
	ErrNoIdentity     = errors.New("no identity configured: set one with `pathwise identity set <email>`")
	ErrAlreadyStarted = errors.New("report poller already started")
	ErrJobFailed      = errors.New("report generation failed")
)

// State is the poller's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateStarting
	StatePolling
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StatePolling:
		return "polling"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the poller is done.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Snapshot is an immutable view of the poller.
type Snapshot struct {
	State      State
	JobID      string
	Stage      int
	StageLabel string
	Partial    *CareerReport
	Result     *CareerReport
	Err        error
	Polls      int
}

// Poller runs one report job from start to a terminal state. Polls are
// strictly serial: the next timer is armed only after the previous
// response is handled.
type Poller struct {
	client   Client
	interval time.Duration
	observe  func(Snapshot)

	mu     sync.Mutex
	snap   Snapshot
	cancel context.CancelFunc
	done   chan struct{}
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithObserver registers fn to receive every transition and progress
// update. fn runs on the poll goroutine and must not block for long.
func WithObserver(fn func(Snapshot)) PollerOption {
	return func(p *Poller) { p.observe = fn }
}

// NewPoller creates an idle poller.
func NewPoller(client Client, opts ...PollerOption) *Poller {
	p := &Poller{
		client:   client,
		interval: DefaultInterval,
		done:     make(chan struct{}),
		snap:     Snapshot{State: StateIdle, StageLabel: StageLabel(0)},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot returns the current view.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Done is closed when the poll goroutine exits, either at a terminal
// state or after Stop.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// Start moves Idle to Starting and launches the job in the background.
// An empty identity fails immediately without touching the network.
func (p *Poller) Start(ctx context.Context, identity string) error {
	p.mu.Lock()
	if p.snap.State != StateIdle || p.cancel != nil {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	if identity == "" {
		p.mu.Unlock()
		return ErrNoIdentity
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.update(ctx, func(s *Snapshot) { s.State = StateStarting })
	go p.run(ctx, identity)
	return nil
}

// Stop cancels the poll loop in whatever state it is in and waits for it
// to exit. A response arriving after Stop is discarded. Safe to call more
// than once, and before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	if cancel == nil {
		// Never started: mark the loop as gone so Done unblocks.
		p.cancel = func() {}
		close(p.done)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	cancel()
	<-p.done
}

// Wait blocks until the job is terminal or ctx ends.
func (p *Poller) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-p.done:
		return p.Snapshot(), nil
	case <-ctx.Done():
		return p.Snapshot(), ctx.Err()
	}
}

func (p *Poller) run(ctx context.Context, identity string) {
	defer close(p.done)

	jobID, err := p.client.StartReport(ctx, identity)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.fail(ctx, fmt.Errorf("start report: %w", err))
		return
	}
	p.update(ctx, func(s *Snapshot) {
		s.State = StatePolling
		s.JobID = jobID
	})

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if p.poll(ctx, jobID) {
			return
		}
		timer.Reset(p.interval)
	}
}

// poll issues one status call and reports whether the job is terminal.
func (p *Poller) poll(ctx context.Context, jobID string) bool {
	p.mu.Lock()
	p.snap.Polls++
	p.mu.Unlock()

	st, err := p.client.ReportStatus(ctx, jobID)
	if ctx.Err() != nil {
		return true
	}
	if err != nil {
		p.fail(ctx, fmt.Errorf("poll report %s: %w", jobID, err))
		return true
	}

	switch st.Status {
	case StatusCompleted:
		raw := st.FinalResult
		if isEmptyJSON(raw) {
			raw = st.PartialResult
		}
		result := Parse(raw)
		p.update(ctx, func(s *Snapshot) {
			s.State = StateSucceeded
			s.Stage = len(Stages) - 1
			s.StageLabel = StageLabel(s.Stage)
			s.Result = result
		})
		return true
	case StatusFailed:
		msg := st.ErrorMessage
		if msg == "" {
			msg = "unknown error"
		}
		p.fail(ctx, fmt.Errorf("%w: %s", ErrJobFailed, msg))
		return true
	default:
		var partial *CareerReport
		if !isEmptyJSON(st.PartialResult) {
			partial = Parse(st.PartialResult)
		}
		p.update(ctx, func(s *Snapshot) {
			s.Stage = st.CurrentStage
			s.StageLabel = StageLabel(st.CurrentStage)
			if partial != nil {
				s.Partial = partial
			}
		})
		return false
	}
}

func (p *Poller) fail(ctx context.Context, err error) {
	p.update(ctx, func(s *Snapshot) {
		s.State = StateFailed
		s.Err = err
	})
}

// update applies fn and notifies the observer, unless the poller has
// been stopped.
func (p *Poller) update(ctx context.Context, fn func(*Snapshot)) {
	p.mu.Lock()
	if ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	fn(&p.snap)
	snap := p.snap
	p.mu.Unlock()

	if p.observe != nil {
		p.observe(snap)
	}
}
