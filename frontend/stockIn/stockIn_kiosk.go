package stockin

import (
	"scanstation/infrastructure/cache"
)

// Kiosk owns the live kiosk sessions. Every page load opens a new session;
// other displays may follow an open session by id.
type Kiosk struct {
	sessions  *cache.SessionCache[*KioskSession]
	submitter Submitter
	recorder  Recorder
	notifier  Notifier
}

func NewKiosk(sessions *cache.SessionCache[*KioskSession], submitter Submitter, recorder Recorder, notifier Notifier) *Kiosk {
	if sessions == nil {
		sessions = cache.NewSessionCache[*KioskSession]()
	}
	return &Kiosk{sessions: sessions, submitter: submitter, recorder: recorder, notifier: notifier}
}

// Open starts a fresh session, dropping the one the browser showed before.
func (k *Kiosk) Open(previousID string) *KioskSession {
	if previousID != "" {
		k.sessions.Delete(previousID)
	}
	ks := NewKioskSession("", k.submitter, k.recorder, k.notifier)
	k.sessions.Add(ks.ID, ks)
	return ks
}

func (k *Kiosk) Find(id string) (*KioskSession, bool) {
	if id == "" {
		return nil, false
	}
	return k.sessions.Find(id)
}

// Sessions exposes the underlying cache for sweeping.
func (k *Kiosk) Sessions() *cache.SessionCache[*KioskSession] {
	return k.sessions
}
