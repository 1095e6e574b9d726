package stockout

import (
	"sync"

	"scanstation/infrastructure/cache"
)

// PageState is the kiosk rendering of a Flow.
type PageState struct {
	mu           sync.RWMutex
	scannerOn    bool
	kind         Kind
	message      string
	scanAgainBtn bool
}

type PageSnapshot struct {
	SessionID string
	ScannerOn bool
	Kind      Kind
	Message   string
	ScanAgain bool
}

func NewPageState() *PageState {
	return &PageState{scannerOn: true}
}

func (p *PageState) StopScanner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scannerOn = false
}

func (p *PageState) ShowMessage(kind Kind, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kind = kind
	p.message = text
}

func (p *PageState) ShowScanAgain() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scanAgainBtn = true
}

func (p *PageState) snapshot(id string) PageSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PageSnapshot{SessionID: id, ScannerOn: p.scannerOn, Kind: p.kind, Message: p.message, ScanAgain: p.scanAgainBtn}
}

// KioskFlow pairs a Flow with its page.
type KioskFlow struct {
	*Flow
	Page *PageState
}

func (k *KioskFlow) Snapshot() PageSnapshot {
	return k.Page.snapshot(k.ID)
}

// Kiosk owns the live stock-out pages.
type Kiosk struct {
	flows     *cache.SessionCache[*KioskFlow]
	activator Activator
	recorder  Recorder
}

func NewKiosk(flows *cache.SessionCache[*KioskFlow], activator Activator, recorder Recorder) *Kiosk {
	if flows == nil {
		flows = cache.NewSessionCache[*KioskFlow]()
	}
	return &Kiosk{flows: flows, activator: activator, recorder: recorder}
}

// Open starts the flow behind a freshly loaded page.
func (k *Kiosk) Open() *KioskFlow {
	page := NewPageState()
	flow := NewFlow(FlowOptions{Activator: k.activator, Display: page, Recorder: k.recorder})
	kf := &KioskFlow{Flow: flow, Page: page}
	k.flows.Add(flow.ID, kf)
	return kf
}

func (k *Kiosk) Find(id string) (*KioskFlow, bool) {
	return k.flows.Find(id)
}

func (k *Kiosk) Flows() *cache.SessionCache[*KioskFlow] {
	return k.flows
}
