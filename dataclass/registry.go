package dataclass

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry resolves and caches class definitions and indexes classes by name.
// A Registry is safe for concurrent use. Each class is resolved at most once
// per registry; concurrent first access waits for the single resolution.
type Registry struct {
	logger *slog.Logger

	entries sync.Map // *Class -> *entry
	schemas sync.Map // *Class -> *compiledEntry

	mu    sync.RWMutex
	names map[string]*Class
}

type entry struct {
	once sync.Once
	def  *Definition
	err  error
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for resolution events.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger: slog.Default(),
		names:  make(map[string]*Class),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Logger returns the logger the registry reports to.
func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

// DefaultRegistry is the registry used by the package-level functions.
var DefaultRegistry = NewRegistry()

// Resolve returns the definition of c from the default registry.
func Resolve(c *Class) (*Definition, error) {
	return DefaultRegistry.Resolve(c)
}

// Resolve returns the cached definition of c, resolving it on first use.
// A declaration error is cached as well and returned on every call.
func (r *Registry) Resolve(c *Class) (*Definition, error) {
	if c == nil {
		return nil, errors.New("cannot resolve a nil data class")
	}

	v, _ := r.entries.LoadOrStore(c, &entry{})
	e := v.(*entry)
	e.once.Do(func() {
		e.def, e.err = r.resolve(c)
	})

	return e.def, e.err
}

func (r *Registry) resolve(c *Class) (*Definition, error) {
	def, diags := resolve(c)

	for _, w := range diags.Warnings {
		r.logger.Warn("data class declaration warning", "class", c.name, "field", w.Field, "warning", w.Message)
	}

	if diags.HasErrors() {
		r.logger.Debug("data class declaration rejected", "class", c.name, "errors", len(diags.Errors))
		return nil, newDefinitionError(c.name, diags)
	}

	r.logger.Debug("resolved data class", "class", c.name, "fields", len(def.fields), "required", len(def.required))

	return def, nil
}

// Register indexes classes by name so they can be found with Lookup.
// Registering the same class twice is a no-op; registering a different
// class under a taken name is an error and nothing is registered.
func (r *Registry) Register(classes ...*Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make(map[string]*Class, len(classes))
	for _, c := range classes {
		if c == nil {
			return errors.New("cannot register a nil data class")
		}

		existing, ok := r.names[c.name]
		if !ok {
			existing, ok = pending[c.name]
		}

		if ok && existing != c {
			return fmt.Errorf("data class %q is already registered", c.name)
		}

		pending[c.name] = c
	}

	for name, c := range pending {
		r.names[name] = c
	}

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(classes ...*Class) {
	if err := r.Register(classes...); err != nil {
		panic(err)
	}
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.names[name]

	return c, ok
}

// Preload eagerly resolves the given classes and every class they nest,
// in parallel. It returns the first declaration error encountered.
func (r *Registry) Preload(ctx context.Context, classes ...*Class) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range classes {
		g.Go(func() error {
			return r.preload(ctx, c, make(map[*Class]struct{}))
		})
	}

	return g.Wait()
}

func (r *Registry) preload(ctx context.Context, c *Class, seen map[*Class]struct{}) error {
	if _, ok := seen[c]; ok {
		return nil
	}

	seen[c] = struct{}{}

	if err := ctx.Err(); err != nil {
		return err
	}

	def, err := r.Resolve(c)
	if err != nil {
		return err
	}

	for _, fd := range def.fields {
		if fd.Nested == nil {
			continue
		}

		if err := r.preload(ctx, fd.Nested, seen); err != nil {
			return err
		}
	}

	return nil
}
