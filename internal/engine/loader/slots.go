package loader

import "go.trai.ch/stagehand/internal/core/domain"

// Slots tracks in-flight load operations.
//
// All methods are called from the executor's logical thread.
type Slots interface {
	// Track starts tracking op. It returns the operation whose tracking was
	// abandoned to make room, or nil.
	Track(op *Operation) (abandoned *Operation)
	// Lookup returns the tracked operation for key while it is Loading or Loaded.
	Lookup(key domain.ResourceKey) (*Operation, bool)
	// Owns reports whether op is still tracked.
	Owns(op *Operation) bool
	// Release stops tracking op if it is still tracked.
	Release(op *Operation)
	// Reset stops tracking every operation.
	Reset()
	// Current returns the most recently tracked operation, or nil.
	Current() *Operation
}

// NewSlots returns the Slots implementation selected by policy.
func NewSlots(policy domain.SlotPolicy) Slots {
	if policy == domain.SlotPolicyMulti {
		return NewMultiSlot()
	}
	return NewSingleSlot()
}

// SingleSlot tracks at most one operation process-wide. Tracking an operation
// for another key abandons the previous one, whose result is then never
// reconciled into a cache.
type SingleSlot struct {
	op *Operation
}

// NewSingleSlot creates an empty SingleSlot.
func NewSingleSlot() *SingleSlot {
	return &SingleSlot{}
}

// Track implements Slots.
func (s *SingleSlot) Track(op *Operation) *Operation {
	prev := s.op
	s.op = op
	if prev == op || prev == nil || !prev.State().IsPending() {
		return nil
	}
	return prev
}

// Lookup implements Slots.
func (s *SingleSlot) Lookup(key domain.ResourceKey) (*Operation, bool) {
	if s.op == nil || s.op.Key() != key || !s.op.State().IsPending() {
		return nil, false
	}
	return s.op, true
}

// Owns implements Slots.
func (s *SingleSlot) Owns(op *Operation) bool {
	return op != nil && s.op == op
}

// Release implements Slots.
func (s *SingleSlot) Release(op *Operation) {
	if s.op == op {
		s.op = nil
	}
}

// Reset implements Slots.
func (s *SingleSlot) Reset() {
	s.op = nil
}

// Current implements Slots.
func (s *SingleSlot) Current() *Operation {
	return s.op
}

// MultiSlot tracks one operation per key, so concurrent loads of distinct
// keys are each reconciled.
type MultiSlot struct {
	ops  map[domain.ResourceKey]*Operation
	last *Operation
}

// NewMultiSlot creates an empty MultiSlot.
func NewMultiSlot() *MultiSlot {
	return &MultiSlot{ops: make(map[domain.ResourceKey]*Operation)}
}

// Track implements Slots.
func (m *MultiSlot) Track(op *Operation) *Operation {
	prev := m.ops[op.Key()]
	m.ops[op.Key()] = op
	m.last = op
	if prev == op || prev == nil || !prev.State().IsPending() {
		return nil
	}
	return prev
}

// Lookup implements Slots.
func (m *MultiSlot) Lookup(key domain.ResourceKey) (*Operation, bool) {
	op, ok := m.ops[key]
	if !ok || !op.State().IsPending() {
		return nil, false
	}
	return op, true
}

// Owns implements Slots.
func (m *MultiSlot) Owns(op *Operation) bool {
	return op != nil && m.ops[op.Key()] == op
}

// Release implements Slots.
func (m *MultiSlot) Release(op *Operation) {
	if op == nil || m.ops[op.Key()] != op {
		return
	}
	delete(m.ops, op.Key())
	if m.last == op {
		m.last = nil
		for _, other := range m.ops {
			if m.last == nil || other.StartedAt().After(m.last.StartedAt()) {
				m.last = other
			}
		}
	}
}

// Reset implements Slots.
func (m *MultiSlot) Reset() {
	clear(m.ops)
	m.last = nil
}

// Current implements Slots.
func (m *MultiSlot) Current() *Operation {
	return m.last
}

// Len returns the number of tracked operations.
func (m *MultiSlot) Len() int {
	return len(m.ops)
}
