package core

import (
	"container/list"
	"fmt"
	"sync"
)

// DefaultProgramCacheSize is the number of programs kept when no size is given.
const DefaultProgramCacheSize = 64

// Program is a compiled shader program for one light variant.
type Program interface {
	// Release frees any resources held by the program. Called on eviction.
	Release()
}

// Compiler turns a light descriptor into a shader program.
// Only the structural part of the descriptor (its Hash) may influence the
// generated program; light values are bound as uniforms at draw time.
type Compiler interface {
	CompileProgram(d Descriptor) (Program, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(d Descriptor) (Program, error)

func (f CompilerFunc) CompileProgram(d Descriptor) (Program, error) {
	return f(d)
}

// ProgramCache maps variant hashes to compiled programs, evicting the least
// recently used program once more than maxEntries are held.
type ProgramCache struct {
	mu         sync.Mutex
	compiler   Compiler
	entries    map[string]*list.Element
	lru        *list.List // front = most recent
	maxEntries int

	hits          uint64
	misses        uint64
	evictions     uint64
	invalidations uint64
}

type programEntry struct {
	hash    string
	program Program
}

// ProgramCacheStats contains cache statistics for monitoring.
type ProgramCacheStats struct {
	Entries    int
	MaxEntries int
	Hits       uint64
	Misses     uint64
	// Evictions counts programs dropped to stay within MaxEntries.
	Evictions uint64
	// Invalidations counts programs dropped by Invalidate and InvalidateAll.
	Invalidations uint64
}

func NewProgramCache(compiler Compiler, maxEntries int) *ProgramCache {
	if maxEntries <= 0 {
		maxEntries = DefaultProgramCacheSize
	}
	return &ProgramCache{
		compiler:   compiler,
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
		maxEntries: maxEntries,
	}
}

// Get returns the program for d.Hash, compiling and caching it on a miss.
// Compilation failures are returned and nothing is cached.
func (c *ProgramCache) Get(d Descriptor) (Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[d.Hash]; ok {
		c.lru.MoveToFront(elem)
		c.hits++
		return elem.Value.(*programEntry).program, nil
	}
	c.misses++

	if c.compiler == nil {
		return nil, fmt.Errorf("program cache: no compiler for variant %q", d.Hash)
	}
	program, err := c.compiler.CompileProgram(d)
	if err != nil {
		return nil, fmt.Errorf("compile light variant %q: %w", d.Hash, err)
	}

	c.entries[d.Hash] = c.lru.PushFront(&programEntry{hash: d.Hash, program: program})
	for c.lru.Len() > c.maxEntries {
		c.remove(c.lru.Back())
		c.evictions++
	}
	return program, nil
}

// Contains reports whether a program for hash is cached, without touching LRU order.
func (c *ProgramCache) Contains(hash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[hash]
	return ok
}

// Invalidate drops and releases the program for hash, if any.
func (c *ProgramCache) Invalidate(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[hash]; ok {
		c.remove(elem)
		c.invalidations++
	}
}

// InvalidateAll drops and releases every cached program.
func (c *ProgramCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.lru.Len() > 0 {
		c.remove(c.lru.Back())
		c.invalidations++
	}
}

// must be called with c.mu held
func (c *ProgramCache) remove(elem *list.Element) {
	entry := elem.Value.(*programEntry)
	c.lru.Remove(elem)
	delete(c.entries, entry.hash)
	if entry.program != nil {
		entry.program.Release()
	}
}

func (c *ProgramCache) Stats() ProgramCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ProgramCacheStats{
		Entries:       len(c.entries),
		MaxEntries:    c.maxEntries,
		Hits:          c.hits,
		Misses:        c.misses,
		Evictions:     c.evictions,
		Invalidations: c.invalidations,
	}
}
