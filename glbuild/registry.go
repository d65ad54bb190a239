package glbuild

import (
	"fmt"
	"slices"

	"github.com/soypat/glshade"
)

// Factory creates a new node implementation.
type Factory func() Implementation

// Registry maps node implementation identifiers to the factories creating
// their code emitters for one target. Many identifiers may share a factory.
//
// Registration happens at startup from a single goroutine. Once sealed a
// Registry is read only and safe for concurrent use without locking.
type Registry struct {
	target     string
	factories  map[glshade.ImplID]Factory
	identities map[string]glshade.ImplID
	sealed     bool
}

// NewRegistry returns an empty registry for target, i.e: "genglsl".
func NewRegistry(target string) *Registry {
	return &Registry{
		target:     target,
		factories:  make(map[glshade.ImplID]Factory),
		identities: make(map[string]glshade.ImplID),
	}
}

// Target returns the target identifier the registry was created for.
func (r *Registry) Target() string { return r.target }

// Register stores f under id. A previous registration of id is overwritten.
// Register panics if the registry is sealed.
func (r *Registry) Register(id glshade.ImplID, f Factory) {
	if r.sealed {
		panic("glbuild: register " + id.Identity(r.target) + " on sealed registry")
	}
	if f == nil {
		panic("glbuild: nil factory for " + id.Identity(r.target))
	}
	r.factories[id] = f
	r.identities[id.Identity(r.target)] = id
}

// Seal makes the registry read only.
func (r *Registry) Seal() { r.sealed = true }

// Resolve returns a new implementation for id.
func (r *Registry) Resolve(id glshade.ImplID) (Implementation, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: no implementation %s", ErrLookup, id.Identity(r.target))
	}
	return f(), nil
}

// ResolveIdentity returns a new implementation for the identity string of a
// registered identifier, i.e: "IM_ifequal_vector3B_genglsl".
func (r *Registry) ResolveIdentity(identity string) (Implementation, error) {
	id, ok := r.identities[identity]
	if !ok {
		return nil, fmt.Errorf("%w: no implementation %s", ErrLookup, identity)
	}
	return r.Resolve(id)
}

// Has reports whether id is registered.
func (r *Registry) Has(id glshade.ImplID) bool {
	_, ok := r.factories[id]
	return ok
}

// Identities returns the sorted identity strings of all registered implementations.
func (r *Registry) Identities() []string {
	ids := make([]string, 0, len(r.identities))
	for identity := range r.identities {
		ids = append(ids, identity)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered identifiers.
func (r *Registry) Len() int { return len(r.factories) }
