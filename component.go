package lights

import (
	"github.com/google/uuid"
)

const (
	KindLight  = "light"
	KindLights = "lights"
)

// Component is anything that can live in a scene registry and announce its
// changes and destruction through an EventChannel.
type Component interface {
	ID() string
	Kind() string
	Events() *EventChannel
	Destroyed() bool
	Destroy()
}

// Base implements Component and is embedded by every concrete component.
type Base struct {
	id        string
	kind      string
	events    EventChannel
	meta      map[string]any
	destroyed bool
	self      Component
}

// init sets up the base. An empty id is replaced by a fresh uuid.
// self is the embedding component, used as the destroyed payload.
func (b *Base) init(self Component, id string, kind string) {
	if id == "" {
		id = uuid.NewString()
	}
	b.id = id
	b.kind = kind
	b.self = self
}

func (b *Base) ID() string            { return b.id }
func (b *Base) Kind() string          { return b.kind }
func (b *Base) Events() *EventChannel { return &b.events }
func (b *Base) Destroyed() bool       { return b.destroyed }

// Destroy fires EventDestroyed once and drops all subscriptions.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	var payload any = b.self
	if payload == nil {
		payload = b
	}
	b.events.Fire(EventDestroyed, payload)
	b.events.reset()
}

func (b *Base) SetMeta(key string, value any) {
	if b.meta == nil {
		b.meta = make(map[string]any)
	}
	b.meta[key] = value
}

func (b *Base) Meta(key string) (any, bool) {
	v, ok := b.meta[key]
	return v, ok
}

// Tag is a plain component with an arbitrary kind and no behaviour.
type Tag struct {
	Base
}

func NewTag(id string, kind string) *Tag {
	t := &Tag{}
	t.init(t, id, kind)
	return t
}
