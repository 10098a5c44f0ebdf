package parsers

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Registry holds the active parsers keyed by name. Names are unique; a
// registration never replaces an existing parser.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds parser under name. It fails with ErrDuplicateName when the
// name is taken.
func (r *Registry) Register(name string, parser Parser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(name, parser)
}

func (r *Registry) registerLocked(name string, parser Parser) error {
	if _, exists := r.parsers[name]; exists {
		return newError(ErrDuplicateName, nil, "parser with name %q already exists", name)
	}
	r.parsers[name] = parser
	return nil
}

// Get looks a parser up by exact name.
func (r *Registry) Get(name string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.parsers[name]
	return parser, ok
}

// ListByFormat returns the sorted names of every parser claiming format.
func (r *Registry) ListByFormat(format string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	format = normalizeFormat(format)
	names := []string{}
	for name, parser := range r.parsers {
		for _, f := range parser.SupportedFormats() {
			if normalizeFormat(f) == format {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// Descriptors lists every registered parser, built-in parsers first and then
// by name.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]Descriptor, 0, len(r.parsers))
	for _, parser := range r.parsers {
		descs = append(descs, parser.Describe())
	}
	sort.Slice(descs, func(i, j int) bool {
		if descs[i].Kind != descs[j].Kind {
			return descs[i].Kind == KindBuiltIn
		}
		return descs[i].Name < descs[j].Name
	})
	return descs
}

// Len returns the number of registered parsers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parsers)
}

// Remove drops the parser registered under name, if any.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.parsers, name)
}

// RemoveAll empties the registry.
func (r *Registry) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = make(map[string]Parser)
}

// Reload replaces the registry contents with the built-in parser followed by
// the parsers described by descs. Entries that fail to load are skipped and
// their errors returned, so the default import path always survives a reload.
// Built-in descriptors are ignored: the built-in parser is always registered.
func (r *Registry) Reload(descs []Descriptor, defaultTimeout time.Duration) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.parsers = make(map[string]Parser)

	builtIn := NewBrowserJSONParser()
	var errs []error
	if err := r.registerLocked(builtIn.Name(), builtIn); err != nil {
		errs = append(errs, err)
	}

	for _, desc := range descs {
		parser, err := Build(desc, defaultTimeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("loading parser %q from %s: %w", desc.Name, desc.Path, err))
			continue
		}
		if parser == nil {
			continue
		}
		if err := r.registerLocked(desc.Name, parser); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// Build creates the parser described by desc. It returns nil, nil for a
// built-in descriptor, since the built-in parser is not configurable.
func Build(desc Descriptor, defaultTimeout time.Duration) (Parser, error) {
	switch desc.Kind {
	case KindBuiltIn:
		return nil, nil
	case KindExternal:
		return NewExternalParser(desc, defaultTimeout)
	default:
		return nil, newError(ErrUnsupportedKind, nil, "parser %q has kind %q", desc.Name, desc.Kind)
	}
}
