package pipeline

import (
	"sort"
	"sync"
)

// DefaultPane is the pane front-ends use when none is named.
const DefaultPane = "default"

// Registry owns the open panes of a process. Front-ends receive it
// explicitly; there is no package-level pane list.
type Registry struct {
	mu      sync.RWMutex
	panes   map[string]*Pane
	newPane func(name string) *Pane
}

// NewRegistry returns an empty registry that builds panes with newPane.
func NewRegistry(newPane func(name string) *Pane) *Registry {
	return &Registry{
		panes:   make(map[string]*Pane),
		newPane: newPane,
	}
}

// Get returns the named pane if it is open.
func (r *Registry) Get(name string) (*Pane, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.panes[name]
	return p, ok
}

// Open returns the named pane, creating it on first use.
func (r *Registry) Open(name string) *Pane {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.panes[name]; ok {
		return p
	}
	p := r.newPane(name)
	r.panes[name] = p
	return p
}

// Close forgets the named pane.
func (r *Registry) Close(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.panes, name)
}

// Names lists open panes, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.panes))
	for name := range r.panes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
