// Package mem implements the SO ISA's shared data memory and its sole
// synchronization primitive, the atomic exchange.
package mem

import "sync/atomic"

// Size is the number of addressable bytes in DataMemory.
const Size = 256

// DataMemory is a shared, mutable, byte-addressed (mod 256) memory backing
// the SO ISA's data space. Multiple cores may read and write any byte
// concurrently; only Exchange is a linearizable, globally-serializing
// operation — every other access is an independent, unsynchronized single
// byte load or store.
//
// Each byte lives in its own atomic.Uint32 slot (the low 8 bits hold the
// value) rather than a plain [256]byte. This keeps every individual load
// or store race-free at the machine level — Go's race detector will not
// flag ordinary concurrent access to DataMemory the way it would a bare
// shared array — while composite operations like ADD [X], A still issue
// as two separate atomic ops with no ordering between them, so lost
// updates across cores remain possible.
type DataMemory struct {
	bytes [Size]atomic.Uint32
}

// New returns a zeroed DataMemory.
func New() *DataMemory {
	return &DataMemory{}
}

// Load reads the byte at addr (mod 256).
func (m *DataMemory) Load(addr uint8) uint8 {
	return uint8(m.bytes[addr].Load())
}

// Store writes v to the byte at addr (mod 256).
func (m *DataMemory) Store(addr uint8, v uint8) {
	m.bytes[addr].Store(uint32(v))
}

// Exchange atomically swaps v into the byte at addr and returns the prior
// value. This is the memory side of XCHG: a single atomic read-modify-
// write, giving XCHG a real linearization point.
func (m *DataMemory) Exchange(addr uint8, v uint8) uint8 {
	return uint8(m.bytes[addr].Swap(uint32(v)))
}

// Snapshot copies the current contents into a plain array, for dumps and
// tests. It is not itself atomic across the whole array — concurrent
// writers may interleave with the copy — which is fine for its only uses
// (post-join inspection and diagnostic dumps).
func (m *DataMemory) Snapshot() [Size]byte {
	var out [Size]byte
	for i := range out {
		out[i] = m.Load(uint8(i))
	}
	return out
}

// LoadAll replaces the entire contents from buf, for test setup and demo
// initialization. Like Snapshot, not atomic across the array.
func (m *DataMemory) LoadAll(buf [Size]byte) {
	for i, b := range buf {
		m.Store(uint8(i), b)
	}
}
