package keyword

import "sync"

// Registry holds the matcher of every initialised buffer.
type Registry struct {
	mu       sync.RWMutex
	matchers map[int]*Matcher
	fallback *Matcher
}

// NewRegistry creates an empty registry. Buffers without a matcher fall
// back to Default when splitting lines.
func NewRegistry() *Registry {
	return &Registry{
		matchers: make(map[int]*Matcher),
		fallback: Default(),
	}
}

// Set parses spec and installs the result for bufferID. On a parse error
// the buffer keeps its previous matcher.
func (r *Registry) Set(bufferID int, spec string) (*Matcher, error) {
	m, err := Parse(spec)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.matchers[bufferID] = m
	return m, nil
}

// Get returns the matcher for bufferID, if one was installed.
func (r *Registry) Get(bufferID int) (*Matcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matchers[bufferID]
	return m, ok
}

// Lookup returns the matcher for bufferID or the default one.
func (r *Registry) Lookup(bufferID int) *Matcher {
	if m, ok := r.Get(bufferID); ok {
		return m
	}
	return r.fallback
}

// Delete forgets bufferID.
func (r *Registry) Delete(bufferID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matchers, bufferID)
}

// Split returns the words of line under the matcher of bufferID.
func (r *Registry) Split(bufferID int, line string) []string {
	return r.Lookup(bufferID).Words(line)
}
