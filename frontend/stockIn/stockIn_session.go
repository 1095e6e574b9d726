package stockin

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one page lifetime of the stock-in workflow.
//
// Decode events and clicks are applied one at a time under mu. Only the
// network call in Submit runs outside the lock; the controller state keeps a
// second click from starting another request meanwhile.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	store      *Store
	renderer   *ListRenderer
	controller *Controller
	recorder   Recorder
}

// Options configures a Session.
type Options struct {
	ID        string
	Submitter Submitter
	View      ListView
	Page      Page
	Recorder  Recorder
}

func NewSession(opts Options) *Session {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		store:      NewStore(),
		renderer:   NewListRenderer(opts.View),
		controller: NewController(opts.Submitter, opts.Page),
		recorder:   opts.Recorder,
	}
}

// Decoder returns the callbacks to hand to the scanning capability.
func (s *Session) Decoder() Decoder {
	return NewDecoder(s)
}

// Insertion is what one decoded value did to the session.
type Insertion struct {
	Added bool
	// First is set when this value revealed the submit trigger.
	First bool
	Count int
}

// Insert adds value and renders it when new. Values arriving after the
// session was reloaded are dropped with the page.
func (s *Session) Insert(value string) Insertion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller.state == StateReloaded || !s.store.Insert(value) {
		return Insertion{Count: s.store.Len()}
	}
	first := !s.renderer.FirstSeen()
	s.renderer.Added(value)
	return Insertion{Added: true, First: first, Count: s.store.Len()}
}

func (s *Session) Add(value string) bool {
	return s.Insert(value).Added
}

// Submit handles one click on the submit trigger.
//
// It returns ErrSubmitInProgress without touching the network when a
// submission is already outstanding.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	barcodes, err := s.controller.begin(s.store)
	s.mu.Unlock()
	if err != nil {
		return Outcome{}, err
	}

	outcome := s.controller.send(ctx, barcodes)

	s.mu.Lock()
	s.controller.finish(outcome)
	s.mu.Unlock()

	if s.recorder != nil {
		if err := s.recorder.RecordStockIn(context.WithoutCancel(ctx), s.ID, barcodes, outcome.Message, outcome.Err, outcome.Took); err != nil {
			slog.Error("stock-in: journal write failed", slog.String("session_id", s.ID), slog.Any("err", err))
		}
	}
	return outcome, nil
}

func (s *Session) Values() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Values()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.state
}

func (s *Session) Reloaded() bool {
	return s.State() == StateReloaded
}
