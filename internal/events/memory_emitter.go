package events

import "sync"

// Recorded is one captured event with its assigned sequence number.
type Recorded struct {
	Sequence uint64
	Event    Event
}

// MemoryEmitter records events for tests. Sequences are deterministic,
// starting at 1.
type MemoryEmitter struct {
	mu       sync.Mutex
	recorded []Recorded
}

func NewMemoryEmitter() *MemoryEmitter {
	return &MemoryEmitter{}
}

func (e *MemoryEmitter) Sequence() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return uint64(len(e.recorded)) + 1
}

func (e *MemoryEmitter) Emit(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recorded = append(e.recorded, Recorded{
		Sequence: uint64(len(e.recorded)) + 1,
		Event:    event,
	})
}

func (e *MemoryEmitter) Recorded() []Recorded {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Recorded(nil), e.recorded...)
}
