package stockin

import (
	"sync"

	"github.com/google/uuid"
)

// Event is pushed to every display following a kiosk session.
type Event struct {
	Type    string `json:"type"`
	Value   string `json:"value,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	EventItemAppended    = "item_appended"
	EventSubmitAvailable = "submit_available"
	EventSubmitState     = "submit_state"
	EventAlert           = "alert"
	EventReload          = "reload"
)

// Notifier fans session events out to connected displays.
type Notifier interface {
	Notify(sessionID string, evt Event)
}

// PageState is the kiosk's rendering of a session. It implements ListView
// and Page so the page can be re-rendered at any time from it.
type PageState struct {
	sessionID string
	notifier  Notifier

	mu            sync.RWMutex
	items         []string
	placeholder   bool
	submitVisible bool
	submitEnabled bool
	submitLabel   string
	lastAlert     string
	reloaded      bool
}

// PageSnapshot is a point-in-time copy of PageState.
type PageSnapshot struct {
	SessionID     string
	Items         []string
	Placeholder   bool
	SubmitVisible bool
	SubmitEnabled bool
	SubmitLabel   string
	LastAlert     string
	Reloaded      bool
}

func NewPageState(sessionID string, notifier Notifier) *PageState {
	return &PageState{
		sessionID:     sessionID,
		notifier:      notifier,
		placeholder:   true,
		submitEnabled: true,
		submitLabel:   SubmitLabel,
	}
}

func (p *PageState) AppendItem(value string) {
	p.mu.Lock()
	p.items = append(p.items, value)
	p.mu.Unlock()
	p.notify(Event{Type: EventItemAppended, Value: value})
}

func (p *PageState) RemovePlaceholder() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placeholder = false
}

func (p *PageState) ShowSubmit() {
	p.mu.Lock()
	p.submitVisible = true
	p.mu.Unlock()
	p.notify(Event{Type: EventSubmitAvailable})
}

func (p *PageState) SetSubmitState(enabled bool, label string) {
	p.mu.Lock()
	p.submitEnabled = enabled
	p.submitLabel = label
	p.mu.Unlock()
	p.notify(Event{Type: EventSubmitState, Enabled: enabled, Label: label})
}

func (p *PageState) Alert(message string) {
	p.mu.Lock()
	p.lastAlert = message
	p.mu.Unlock()
	p.notify(Event{Type: EventAlert, Message: message})
}

func (p *PageState) Reload() {
	p.mu.Lock()
	p.reloaded = true
	p.mu.Unlock()
	p.notify(Event{Type: EventReload})
}

func (p *PageState) Snapshot() PageSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	items := make([]string, len(p.items))
	copy(items, p.items)
	return PageSnapshot{
		SessionID:     p.sessionID,
		Items:         items,
		Placeholder:   p.placeholder,
		SubmitVisible: p.submitVisible,
		SubmitEnabled: p.submitEnabled,
		SubmitLabel:   p.submitLabel,
		LastAlert:     p.lastAlert,
		Reloaded:      p.reloaded,
	}
}

func (p *PageState) notify(evt Event) {
	if p.notifier != nil {
		p.notifier.Notify(p.sessionID, evt)
	}
}

// KioskSession pairs a Session with the PageState it renders into.
type KioskSession struct {
	*Session
	Page *PageState
}

// NewKioskSession builds a session whose list and page effects land in a PageState.
func NewKioskSession(id string, submitter Submitter, recorder Recorder, notifier Notifier) *KioskSession {
	if id == "" {
		id = uuid.NewString()
	}
	page := NewPageState(id, notifier)
	sess := NewSession(Options{
		ID:        id,
		Submitter: submitter,
		View:      page,
		Page:      page,
		Recorder:  recorder,
	})
	return &KioskSession{Session: sess, Page: page}
}
