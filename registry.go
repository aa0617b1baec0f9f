package lights

// Resolver looks components up by id.
type Resolver interface {
	Resolve(id string) (Component, bool)
}

type registryEntry struct {
	component Component
	destroyed Handle
}

// Registry is an id -> component index. Components drop out of it when destroyed.
type Registry struct {
	entries map[string]registryEntry
	logger  Logger
}

func NewRegistry(logger Logger) *Registry {
	return &Registry{
		entries: make(map[string]registryEntry),
		logger:  orNop(logger),
	}
}

// Register indexes c by its id, replacing any earlier component with the same id.
func (r *Registry) Register(c Component) {
	if c == nil || c.Destroyed() {
		return
	}
	id := c.ID()
	if old, ok := r.entries[id]; ok {
		r.logger.Warnf("registry: replacing component %s (%s)", id, old.component.Kind())
		old.component.Events().Off(old.destroyed)
	}

	h := c.Events().On(EventDestroyed, func(any) {
		if cur, ok := r.entries[id]; ok && cur.component == c {
			delete(r.entries, id)
		}
	})
	r.entries[id] = registryEntry{component: c, destroyed: h}
}

func (r *Registry) Resolve(id string) (Component, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.component, true
}

func (r *Registry) Len() int {
	return len(r.entries)
}
