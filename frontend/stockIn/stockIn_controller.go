package stockin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"scanstation/infrastructure/inventory"
)

const (
	SubmitLabel     = "Submit Stock"
	SubmittingLabel = "Submitting..."
)

var (
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrEmptyBatch       = errors.New("no barcodes scanned")
	ErrSessionReloaded  = errors.New("session was reloaded")
)

// State is the submission controller state.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateReloaded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateReloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// Page receives the page-level effects of a submission.
type Page interface {
	SetSubmitState(enabled bool, label string)
	Alert(message string)
	Reload()
}

// Submitter sends a batch to the stock-in endpoint.
type Submitter interface {
	StockIn(ctx context.Context, barcodes []string) (string, error)
}

// Recorder journals submission attempts. It never influences the outcome.
type Recorder interface {
	RecordStockIn(ctx context.Context, sessionID string, barcodes []string, message string, submitErr error, took time.Duration) error
}

// Outcome is the result of one submission round-trip.
type Outcome struct {
	Message string
	Err     error
	Took    time.Duration
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Controller drives Idle -> Submitting -> (Reloaded | Idle).
//
// It holds no lock of its own; Session serializes calls into it.
type Controller struct {
	submitter Submitter
	page      Page
	state     State
}

func NewController(submitter Submitter, page Page) *Controller {
	return &Controller{submitter: submitter, page: page}
}

func (c *Controller) State() State {
	return c.state
}

// begin moves Idle to Submitting and returns the batch to send.
func (c *Controller) begin(store *Store) ([]string, error) {
	switch c.state {
	case StateSubmitting:
		return nil, ErrSubmitInProgress
	case StateReloaded:
		return nil, ErrSessionReloaded
	}
	if store.IsEmpty() {
		return nil, ErrEmptyBatch
	}
	c.state = StateSubmitting
	c.page.SetSubmitState(false, SubmittingLabel)
	return store.Values(), nil
}

func (c *Controller) send(ctx context.Context, barcodes []string) Outcome {
	slog.Debug("stock-in: submitting batch", slog.Int("count", len(barcodes)), slog.Any("barcodes", barcodes))
	start := time.Now()
	message, err := c.submitter.StockIn(ctx, barcodes)
	return Outcome{Message: message, Err: err, Took: time.Since(start)}
}

// finish applies the outcome of send.
func (c *Controller) finish(outcome Outcome) {
	if outcome.OK() {
		c.page.Alert(outcome.Message)
		c.state = StateReloaded
		c.page.Reload()
		return
	}
	c.page.Alert(FailureMessage(outcome.Err))
	c.state = StateIdle
	c.page.SetSubmitState(true, SubmitLabel)
}

// FailureMessage renders a submission failure for the operator.
func FailureMessage(err error) string {
	var endpointErr *inventory.EndpointError
	if errors.As(err, &endpointErr) && endpointErr.Message != "" {
		return "Error: " + endpointErr.Message
	}
	var transportErr *inventory.TransportError
	if errors.As(err, &transportErr) {
		return "Error submitting stock. Check the station connection."
	}
	if errors.Is(err, inventory.ErrLoginRequired) {
		return "Error: station is not logged in to the inventory server."
	}
	return "Error: " + err.Error()
}
