package ecs

import "fmt"

// Identity encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on release so a recycled slot never
// reproduces an identity that was handed out before.
type Identity uint64

// Invalid is the absent sentinel. Slot 0 is never allocated.
const Invalid Identity = 0

func NewIdentity(index uint32, generation uint32) Identity {
	return Identity(uint64(generation)<<32 | uint64(index))
}

func (id Identity) Index() uint32      { return uint32(id) }
func (id Identity) Generation() uint32 { return uint32(id >> 32) }
func (id Identity) Valid() bool        { return id != Invalid }

func (id Identity) String() string {
	return fmt.Sprintf("%d.%d", id.Index(), id.Generation())
}

// IdentityPool hands out identities with generational slots and a free list.
type IdentityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewIdentityPool() *IdentityPool {
	return &IdentityPool{
		generations: make([]uint32, 1, 1024),
		freeList:    make([]uint32, 0, 256),
		nextIndex:   1,
	}
}

func (p *IdentityPool) Create() Identity {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewIdentity(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewIdentity(idx, p.generations[idx])
}

func (p *IdentityPool) Alive(id Identity) bool {
	idx := id.Index()
	if idx == 0 || idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

func (p *IdentityPool) Release(id Identity) {
	if !p.Alive(id) {
		return // already released (stale reference)
	}
	idx := id.Index()
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}
