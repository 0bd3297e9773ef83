// Package mem implements the flat, byte-addressed heap simulation used to
// model pointers, address-of, and dereference for the interpreter.
package mem

import "fmt"

// FirstAddress is the address handed out by the first call to Allocate on a
// freshly constructed Memory.
const FirstAddress int64 = 0x1000

// Stride is the number of addresses consumed by each allocation, mirroring
// a machine with 8-byte addressable cells regardless of a value's actual
// size.
const Stride int64 = 8

// Memory is a private, single-owner address space: a heap keyed by address,
// and a parallel name index so that `&name` can recover or establish the
// address backing a variable. It carries no synchronization because a
// Memory is owned by exactly one interpreter call for its entire lifetime.
type Memory struct {
	// Limit caps the number of distinct addresses Memory will hand out.
	// Zero means unlimited.
	Limit uint

	heap        map[int64]interface{}
	addressMap  map[string]int64
	nextAddress int64
	allocated   uint
}

// New returns a Memory ready for use, with its address counter starting at
// FirstAddress.
func New() *Memory {
	return &Memory{
		heap:        make(map[int64]interface{}),
		addressMap:  make(map[string]int64),
		nextAddress: FirstAddress,
	}
}

// LimitError indicates that an allocation would exceed Memory.Limit.
type LimitError struct{ Limit uint }

func (err LimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded (limit %d)", err.Limit)
}

// SegFaultError indicates a read or write against an address with no
// backing allocation.
type SegFaultError struct{ Addr int64 }

func (err SegFaultError) Error() string {
	return fmt.Sprintf("segmentation fault: invalid memory address 0x%x", err.Addr)
}

// Allocate installs value at a freshly issued address and returns it.
func (m *Memory) Allocate(value interface{}) (int64, error) {
	if m.Limit != 0 && m.allocated >= m.Limit {
		return 0, LimitError{m.Limit}
	}
	addr := m.nextAddress
	m.nextAddress += Stride
	m.heap[addr] = value
	m.allocated++
	return addr, nil
}

// AllocateAt installs value at an explicit address, used for array elements
// whose address is base+stride*index rather than freshly issued.
func (m *Memory) AllocateAt(addr int64, value interface{}) error {
	if _, exists := m.heap[addr]; !exists {
		if m.Limit != 0 && m.allocated >= m.Limit {
			return LimitError{m.Limit}
		}
		m.allocated++
	}
	m.heap[addr] = value
	return nil
}

// AddressOf returns the address already recorded for name, allocating one
// (and recording value there) the first time name's address is requested.
func (m *Memory) AddressOf(name string, value interface{}) (int64, error) {
	if addr, ok := m.addressMap[name]; ok {
		return addr, nil
	}
	addr, err := m.Allocate(value)
	if err != nil {
		return 0, err
	}
	m.addressMap[name] = addr
	return addr, nil
}

// AddressOfBase returns the base address recorded for name without
// allocating, and whether one exists.
func (m *Memory) AddressOfBase(name string) (int64, bool) {
	addr, ok := m.addressMap[name]
	return addr, ok
}

// BindAddress records addr as the address backing name, without touching
// the heap at addr. Used for array declarations, whose base address is
// allocated for the array as a whole rather than lazily on first &.
func (m *Memory) BindAddress(name string, addr int64) {
	m.addressMap[name] = addr
}

// Read returns the value stored at addr, or a SegFaultError if addr has no
// backing allocation.
func (m *Memory) Read(addr int64) (interface{}, error) {
	v, ok := m.heap[addr]
	if !ok {
		return nil, SegFaultError{addr}
	}
	return v, nil
}

// Write overwrites the value at addr. It never extends memory: addr must
// already carry an allocation, or Write fails with a SegFaultError.
func (m *Memory) Write(addr int64, value interface{}) error {
	if _, ok := m.heap[addr]; !ok {
		return SegFaultError{addr}
	}
	m.heap[addr] = value
	return nil
}

// UpdateByName overwrites the heap cell backing name, if name has a
// recorded address. It is a no-op if name has never had its address taken.
func (m *Memory) UpdateByName(name string, value interface{}) {
	if addr, ok := m.addressMap[name]; ok {
		m.heap[addr] = value
	}
}
