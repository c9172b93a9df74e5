package tsql

import (
	"slices"
	"sync"
)

// cloneGroup tracks an original relation and its structural clones so
// hidden-FROM computation can account for every copy.
type cloneGroup[T any] struct {
	mux     sync.Mutex
	members []T
}

func newCloneGroup[T any](first T) *cloneGroup[T] {
	return &cloneGroup[T]{members: []T{first}}
}

func (g *cloneGroup[T]) add(m T) {
	g.mux.Lock()
	defer g.mux.Unlock()
	g.members = append(g.members, m)
}

func (g *cloneGroup[T]) snapshot() []T {
	g.mux.Lock()
	defer g.mux.Unlock()
	return slices.Clone(g.members)
}
