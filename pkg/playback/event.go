// ABOUTME: Playback ended notifications
// ABOUTME: Event values and per-channel subscriptions
package playback

import "fmt"

// EndReason says why a handle ended on its own
type EndReason int

const (
	// EndCompleted means the buffer played to its end
	EndCompleted EndReason = iota

	// EndResourceError means the output device failed or could not be acquired
	EndResourceError
)

func (r EndReason) String() string {
	switch r {
	case EndCompleted:
		return "completed"
	case EndResourceError:
		return "resource-error"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Event is delivered once for every handle that ends without Stop
type Event struct {
	Channel  Channel
	HandleID string
	Reason   EndReason
	Err      error // *ResourceError when Reason is EndResourceError
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s %s: %v", e.Channel, e.HandleID, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s %s", e.Channel, e.HandleID, e.Reason)
}

type subscription struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for ended events on c. The returned function
// removes the subscription and may be called more than once.
func (m *Manager) Subscribe(c Channel, fn func(Event)) func() {
	if !c.Valid() || fn == nil {
		return func() {}
	}

	m.mu.Lock()
	m.nextSub++
	id := m.nextSub
	m.subs[c] = append(m.subs[c], subscription{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.subs[c]
		for i, s := range subs {
			if s.id == id {
				m.subs[c] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// listeners snapshots the handlers for c (caller holds m.mu)
func (m *Manager) listeners(c Channel) []func(Event) {
	fns := make([]func(Event), 0, len(m.subs[c])+1)
	if m.cfg.OnEnded != nil {
		fns = append(fns, m.cfg.OnEnded)
	}
	for _, s := range m.subs[c] {
		fns = append(fns, s.fn)
	}
	return fns
}

func notify(fns []func(Event), ev Event) {
	for _, fn := range fns {
		fn(ev)
	}
}
