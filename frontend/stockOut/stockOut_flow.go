package stockout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"scanstation/infrastructure/inventory"
)

const (
	ProcessingMessage    = "Processing... Please wait."
	CriticalErrorMessage = "A critical error occurred."
	ScanAgainLabel       = "Scan Again"
)

// Kind classifies the message shown to the operator.
type Kind string

const (
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Phase is the stock-out flow state.
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseProcessing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "scanning"
	case PhaseProcessing:
		return "processing"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Activator calls the stock-out endpoint.
type Activator interface {
	StockOut(ctx context.Context, barcode string) (inventory.StockOutResult, error)
}

// Recorder journals stock-out calls.
type Recorder interface {
	RecordStockOut(ctx context.Context, sessionID, barcode string, succeeded bool, message string, took time.Duration) error
}

// Display receives the visible effects of the flow.
type Display interface {
	StopScanner()
	ShowMessage(kind Kind, text string)
	ShowScanAgain()
}

// Result is what the operator was told.
type Result struct {
	Barcode string `json:"barcode"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Flow handles one page lifetime: a single barcode is activated, later
// decodes are ignored, and "scan again" means a new Flow.
type Flow struct {
	ID        string
	activator Activator
	display   Display
	recorder  Recorder

	mu     sync.Mutex
	phase  Phase
	result Result
}

type FlowOptions struct {
	ID        string
	Activator Activator
	Display   Display
	Recorder  Recorder
}

func NewFlow(opts FlowOptions) *Flow {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Flow{ID: id, activator: opts.Activator, display: opts.Display, recorder: opts.Recorder}
}

// OnDecodeSuccess activates text if it is the first decode of this flow.
// It reports false, without side effects, for every later decode.
func (f *Flow) OnDecodeSuccess(ctx context.Context, text string) (Result, bool) {
	f.mu.Lock()
	if f.phase != PhaseScanning {
		f.mu.Unlock()
		return Result{}, false
	}
	f.phase = PhaseProcessing
	f.display.StopScanner()
	f.display.ShowMessage(KindLoading, ProcessingMessage)
	f.mu.Unlock()

	start := time.Now()
	res, err := f.activator.StockOut(ctx, text)
	took := time.Since(start)

	result := Result{Barcode: text}
	switch {
	case err != nil:
		slog.Error("stock-out request failed", slog.String("barcode", text), slog.Any("err", err))
		result.Kind, result.Message = KindError, CriticalErrorMessage
	case res.Succeeded():
		result.Kind, result.Message = KindSuccess, res.Message
	default:
		result.Kind, result.Message = KindError, res.Message
	}

	f.mu.Lock()
	f.phase = PhaseDone
	f.result = result
	f.display.ShowMessage(result.Kind, result.Message)
	f.display.ShowScanAgain()
	f.mu.Unlock()

	if f.recorder != nil {
		journalMsg := result.Message
		if err != nil {
			journalMsg = err.Error()
		}
		if rerr := f.recorder.RecordStockOut(context.WithoutCancel(ctx), f.ID, text, result.Kind == KindSuccess, journalMsg, took); rerr != nil {
			slog.Error("stock-out: journal write failed", slog.String("session_id", f.ID), slog.Any("err", rerr))
		}
	}
	return result, true
}

// OnDecodeFailure ignores frames without a readable code.
func (f *Flow) OnDecodeFailure(error) {}

func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Result returns the outcome once the flow is done.
func (f *Flow) Result() (Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.phase == PhaseDone
}
