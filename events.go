package lights

const (
	// EventDirty signals that cached derived state may be stale. No payload.
	EventDirty = "dirty"
	// EventDestroyed fires once when a component is destroyed. Payload is the component.
	EventDestroyed = "destroyed"
	// EventLights fires when a LightSet's membership changes. Payload is a []LightSource snapshot.
	EventLights = "lights"
)

// Handle identifies a single subscription on an EventChannel. Zero is never issued.
type Handle uint64

type Handler func(payload any)

type subscription struct {
	handle Handle
	name   string
	fn     Handler
}

// EventChannel is a per-component publish/subscribe list.
// Delivery is synchronous and in subscription order; it is meant to be used
// from a single goroutine.
type EventChannel struct {
	next Handle
	subs []subscription
}

// On subscribes fn to events called name.
func (ch *EventChannel) On(name string, fn Handler) Handle {
	ch.next++
	ch.subs = append(ch.subs, subscription{handle: ch.next, name: name, fn: fn})
	return ch.next
}

// Off removes the subscription h. Unknown handles are ignored.
func (ch *EventChannel) Off(h Handle) {
	if h == 0 {
		return
	}
	for i, s := range ch.subs {
		if s.handle == h {
			ch.subs = append(ch.subs[:i], ch.subs[i+1:]...)
			return
		}
	}
}

// Fire delivers payload to every current subscriber of name before returning.
// Handlers may subscribe or unsubscribe while the event is being delivered;
// a subscriber removed mid-delivery is not called.
func (ch *EventChannel) Fire(name string, payload any) {
	snapshot := make([]subscription, 0, len(ch.subs))
	for _, s := range ch.subs {
		if s.name == name {
			snapshot = append(snapshot, s)
		}
	}
	for _, s := range snapshot {
		if !ch.live(s.handle) {
			continue
		}
		s.fn(payload)
	}
}

func (ch *EventChannel) live(h Handle) bool {
	for _, s := range ch.subs {
		if s.handle == h {
			return true
		}
	}
	return false
}

// Len returns the number of live subscriptions.
func (ch *EventChannel) Len() int {
	return len(ch.subs)
}

// reset drops every subscription.
func (ch *EventChannel) reset() {
	ch.subs = nil
}
