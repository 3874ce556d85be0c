package extender

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

type rnode struct {
	next  *rnode
	name  string
	bases []*Definition
}

// Registry is an ordered collection of named compositions. Compositions are
// declared with [Registry.Register] during setup and all composed at once by
// [Registry.Build].
//
// Registry is safe for concurrent use.
type Registry struct {
	mut sync.RWMutex

	// entrypoint to the singly linked list of registrations
	first *rnode

	// results of the last successful Build
	built map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register declares a composition of bases under name. Registering a name
// again replaces its bases but keeps its original position.
func (r *Registry) Register(name string, bases ...*Definition) *Registry {
	r.mut.Lock()
	defer r.mut.Unlock()

	bases = append([]*Definition(nil), bases...)
	var last *rnode
	for rn := r.first; rn != nil; rn = rn.next {
		if rn.name == name {
			rn.bases = bases
			return r
		}
		last = rn
	}
	n := &rnode{name: name, bases: bases}
	if last == nil {
		r.first = n
	} else {
		last.next = n
	}
	return r
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mut.RLock()
	defer r.mut.RUnlock()
	var names []string
	for rn := r.first; rn != nil; rn = rn.next {
		names = append(names, rn.name)
	}
	return names
}

// Build composes every registered entry concurrently. Every failing entry is
// reported, each prefixed with its name. Results replace those of any
// previous Build only if every entry succeeded.
func (r *Registry) Build(ctx context.Context) error {
	r.mut.Lock()
	defer r.mut.Unlock()

	var nodes []*rnode
	for rn := r.first; rn != nil; rn = rn.next {
		nodes = append(nodes, rn)
	}
	defs := make([]*Definition, len(nodes))
	errs := make([]error, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(12)
	for i, rn := range nodes {
		i, rn := i, rn
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defs[i], errs[i] = ComposeNamed(rn.name, rn.bases...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("registry build interrupted: %w", err)
	}

	var result *multierror.Error
	for i, err := range errs {
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", nodes[i].name, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return multierror.Flatten(err)
	}

	built := make(map[string]*Definition, len(nodes))
	for i, rn := range nodes {
		built[rn.name] = defs[i]
	}
	r.built = built
	return nil
}

// Lookup returns the definition composed for name by the last successful
// [Registry.Build].
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mut.RLock()
	defer r.mut.RUnlock()
	def, has := r.built[name]
	return def, has
}
