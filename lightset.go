package lights

import (
	"fmt"

	"github.com/gekko3d/lights/render/core"
)

// memberSubs are the two subscriptions a LightSet holds on each member.
type memberSubs struct {
	dirty     Handle
	destroyed Handle
}

// LightSet is an ordered group of lights compiled together into a single
// render descriptor. It references its members without owning them: a member
// destroyed elsewhere simply drops out of the set.
//
// members and subs are index-aligned at all times.
type LightSet struct {
	Base
	resolver Resolver
	logger   Logger
	onError  func(error)

	members []LightSource
	subs    []memberSubs
	errs    []error

	descriptor core.Descriptor
	// rc is where the last Compile published the descriptor.
	rc *RenderContext
}

type setOptions struct {
	id      string
	logger  Logger
	onError func(error)
}

type Option func(*setOptions)

// WithID gives the set a fixed id instead of a generated one.
func WithID(id string) Option {
	return func(o *setOptions) { o.id = id }
}

func WithLogger(l Logger) Option {
	return func(o *setOptions) { o.logger = l }
}

// WithErrorHandler receives every per-entry error reported by SetLights.
func WithErrorHandler(fn func(error)) Option {
	return func(o *setOptions) { o.onError = fn }
}

// NewLightSet creates an empty set. String entries given to SetLights are
// looked up through resolver, which may be nil when only direct references are used.
func NewLightSet(resolver Resolver, opts ...Option) *LightSet {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	ls := &LightSet{
		resolver:   resolver,
		logger:     orNop(o.logger),
		onError:    o.onError,
		descriptor: core.NewDescriptor(nil),
	}
	ls.init(ls, o.id, KindLights)
	return ls
}

// SetLights replaces the whole membership. Each entry is either a light id
// (string) or a Component. Entries that do not resolve or are not lights are
// reported and skipped; the rest are kept in the given order. EventDirty and
// EventLights always fire afterwards, even if nothing changed.
//
// The error handler runs once the new membership is in place, so a handler
// may call SetLights again; the later call wins.
func (ls *LightSet) SetLights(entries ...any) {
	oldMembers, oldSubs := ls.members, ls.subs
	for i, m := range oldMembers {
		ls.unsubscribe(m, oldSubs[i])
	}
	ls.members = nil
	ls.subs = nil

	var errs []error
	for _, entry := range entries {
		l, err := ls.resolve(entry)
		if err != nil {
			ls.logger.Errorf("%v", err)
			errs = append(errs, err)
			continue
		}
		ls.attach(l)
	}
	ls.errs = errs

	ls.logger.Debugf("lights %s: %d of %d entries attached", ls.id, len(ls.members), len(entries))
	if ls.onError != nil {
		for _, err := range errs {
			ls.onError(err)
		}
	}
	ls.events.Fire(EventDirty, nil)
	ls.events.Fire(EventLights, ls.Lights())
}

func (ls *LightSet) resolve(entry any) (LightSource, error) {
	switch v := entry.(type) {
	case nil:
		return nil, fmt.Errorf("lights %s: %w: nil entry", ls.id, ErrCapabilityMismatch)
	case string:
		if ls.resolver == nil {
			return nil, fmt.Errorf("lights %s: %w %q: no registry", ls.id, ErrUnresolvedReference, v)
		}
		c, ok := ls.resolver.Resolve(v)
		if !ok {
			return nil, fmt.Errorf("lights %s: %w %q", ls.id, ErrUnresolvedReference, v)
		}
		return ls.checkLight(c)
	case Component:
		return ls.checkLight(v)
	default:
		return nil, fmt.Errorf("lights %s: %w: unsupported entry %T", ls.id, ErrCapabilityMismatch, entry)
	}
}

func (ls *LightSet) checkLight(c Component) (LightSource, error) {
	l, ok := IsLight(c)
	if !ok {
		return nil, fmt.Errorf("lights %s: %w: %s is of kind %q", ls.id, ErrCapabilityMismatch, c.ID(), c.Kind())
	}
	if l.Destroyed() {
		return nil, fmt.Errorf("lights %s: %w: %s is destroyed", ls.id, ErrCapabilityMismatch, c.ID())
	}
	return l, nil
}

func (ls *LightSet) attach(l LightSource) {
	ev := l.Events()
	subs := memberSubs{
		dirty: ev.On(EventDirty, func(any) {
			ls.events.Fire(EventDirty, nil)
		}),
		destroyed: ev.On(EventDestroyed, func(any) {
			ls.removeMember(l)
		}),
	}
	ls.members = append(ls.members, l)
	ls.subs = append(ls.subs, subs)
}

func (ls *LightSet) unsubscribe(l LightSource, subs memberSubs) {
	ev := l.Events()
	ev.Off(subs.dirty)
	ev.Off(subs.destroyed)
}

// removeMember drops the first member identical to l together with its
// subscriptions. It reports whether anything was removed; a light that is
// no longer a member is ignored.
func (ls *LightSet) removeMember(l LightSource) bool {
	idx := -1
	for i, m := range ls.members {
		if m == l {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	ls.unsubscribe(l, ls.subs[idx])
	ls.members = append(ls.members[:idx:idx], ls.members[idx+1:]...)
	ls.subs = append(ls.subs[:idx:idx], ls.subs[idx+1:]...)

	ls.logger.Debugf("lights %s: member %s destroyed, %d left", ls.id, l.ID(), len(ls.members))
	ls.events.Fire(EventDirty, nil)
	ls.events.Fire(EventLights, ls.Lights())
	return true
}

// Lights returns a copy of the current membership in order.
func (ls *LightSet) Lights() []LightSource {
	res := make([]LightSource, len(ls.members))
	copy(res, ls.members)
	return res
}

func (ls *LightSet) Len() int {
	return len(ls.members)
}

// Errors returns the per-entry errors of the last SetLights call.
func (ls *LightSet) Errors() []error {
	res := make([]error, len(ls.errs))
	copy(res, ls.errs)
	return res
}

// Compile rebuilds the descriptor and variant hash from the current members
// and publishes them to rc under the set's id. rc may be nil.
// Dirty events never recompile; this is the only place it happens.
func (ls *LightSet) Compile(rc *RenderContext) core.Descriptor {
	records := make([]core.Light, 0, len(ls.members))
	for _, m := range ls.members {
		records = append(records, m.Core())
	}
	ls.descriptor = core.NewDescriptor(records)

	if rc != nil {
		rc.SetLights(ls.id, ls.descriptor)
		ls.rc = rc
	}
	return ls.descriptor
}

// Descriptor returns the result of the last Compile.
func (ls *LightSet) Descriptor() core.Descriptor {
	return ls.descriptor
}

// Hash returns the variant hash of the last Compile.
func (ls *LightSet) Hash() string {
	return ls.descriptor.Hash
}

// ToPersistableForm returns the member ids in order. Loading it back requires
// the lights to exist in the target registry.
func (ls *LightSet) ToPersistableForm() []string {
	ids := make([]string, 0, len(ls.members))
	for _, m := range ls.members {
		ids = append(ids, m.ID())
	}
	return ids
}

// Destroy releases every member subscription, withdraws the published
// descriptor from the last render context and destroys the set itself.
func (ls *LightSet) Destroy() {
	if ls.destroyed {
		return
	}
	for i, m := range ls.members {
		ls.unsubscribe(m, ls.subs[i])
	}
	ls.members = nil
	ls.subs = nil
	if ls.rc != nil {
		ls.rc.Forget(ls.id)
		ls.rc = nil
	}
	ls.Base.Destroy()
}
