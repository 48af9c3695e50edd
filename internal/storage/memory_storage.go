package storage

import (
	"sync"

	"raffle/internal/payment"
	"raffle/internal/raffle"
)

// MemoryStorage is a map-backed raffle.Storage used by tests and by the
// ephemeral server mode. Transact clones the whole dataset and the bank's
// balances, then swaps both in only when fn succeeds, so a failed operation
// leaves nothing behind, money movements included.
type MemoryStorage struct {
	mu   sync.Mutex
	data *memoryData
	bank *payment.MemoryBank
}

type memoryData struct {
	raffles  map[string]*raffle.Raffle
	tickets  map[string][]*raffle.Ticket
	counts   map[string]map[string]uint32
	counters map[string]uint32
	registry []string
}

func NewMemoryStorage(bank *payment.MemoryBank) *MemoryStorage {
	return &MemoryStorage{
		data: &memoryData{
			raffles:  make(map[string]*raffle.Raffle),
			tickets:  make(map[string][]*raffle.Ticket),
			counts:   make(map[string]map[string]uint32),
			counters: make(map[string]uint32),
		},
		bank: bank,
	}
}

func (d *memoryData) clone() *memoryData {
	next := &memoryData{
		raffles:  make(map[string]*raffle.Raffle, len(d.raffles)),
		tickets:  make(map[string][]*raffle.Ticket, len(d.tickets)),
		counts:   make(map[string]map[string]uint32, len(d.counts)),
		counters: make(map[string]uint32, len(d.counters)),
		registry: append([]string(nil), d.registry...),
	}
	for id, r := range d.raffles {
		copied := *r
		next.raffles[id] = &copied
	}
	for id, list := range d.tickets {
		next.tickets[id] = append([]*raffle.Ticket(nil), list...)
	}
	for id, byBuyer := range d.counts {
		counts := make(map[string]uint32, len(byBuyer))
		for buyer, count := range byBuyer {
			counts[buyer] = count
		}
		next.counts[id] = counts
	}
	for id, last := range d.counters {
		next.counters[id] = last
	}
	return next
}

func (m *MemoryStorage) Transact(fn func(raffle.Storage, payment.Bank) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.data.clone()
	scratch := m.bank.Clone()
	if err := fn(&memoryTx{data: work, bank: scratch}, scratch); err != nil {
		return err
	}

	m.data = work
	m.bank.CopyFrom(scratch)
	return nil
}

func (m *MemoryStorage) HasRaffle(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).HasRaffle(id)
}

func (m *MemoryStorage) GetRaffle(id string) (*raffle.Raffle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).GetRaffle(id)
}

func (m *MemoryStorage) SaveRaffle(r *raffle.Raffle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).SaveRaffle(r)
}

func (m *MemoryStorage) AppendTicket(raffleID string, t *raffle.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).AppendTicket(raffleID, t)
}

func (m *MemoryStorage) GetTickets(raffleID string) ([]*raffle.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).GetTickets(raffleID)
}

func (m *MemoryStorage) GetTicketByID(raffleID string, ticketID uint32) (*raffle.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).GetTicketByID(raffleID, ticketID)
}

func (m *MemoryStorage) GetTicketCount(raffleID string, buyer string) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).GetTicketCount(raffleID, buyer)
}

func (m *MemoryStorage) SetTicketCount(raffleID string, buyer string, count uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).SetTicketCount(raffleID, buyer, count)
}

func (m *MemoryStorage) NextTicketID(raffleID string) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).NextTicketID(raffleID)
}

func (m *MemoryStorage) AppendRaffleID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).AppendRaffleID(id)
}

func (m *MemoryStorage) GetRaffleIDs(offset int, limit int, newestFirst bool) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).GetRaffleIDs(offset, limit, newestFirst)
}

func (m *MemoryStorage) CountRaffles() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memoryTx{data: m.data}).CountRaffles()
}

// memoryTx operates on one dataset without locking; MemoryStorage hands it
// either the live data under its own lock or a transactional clone.
type memoryTx struct {
	data *memoryData
	bank *payment.MemoryBank
}

// Transact on an already-transactional view just runs fn against the same
// working set; the outer transaction decides whether it commits.
func (t *memoryTx) Transact(fn func(raffle.Storage, payment.Bank) error) error {
	return fn(t, t.bank)
}

func (t *memoryTx) HasRaffle(id string) (bool, error) {
	_, ok := t.data.raffles[id]
	return ok, nil
}

func (t *memoryTx) GetRaffle(id string) (*raffle.Raffle, error) {
	r, ok := t.data.raffles[id]
	if !ok {
		return nil, raffle.ErrRaffleNotFound
	}
	copied := *r
	return &copied, nil
}

func (t *memoryTx) SaveRaffle(r *raffle.Raffle) error {
	copied := *r
	t.data.raffles[r.ID] = &copied
	return nil
}

func (t *memoryTx) AppendTicket(raffleID string, ticket *raffle.Ticket) error {
	copied := *ticket
	t.data.tickets[raffleID] = append(t.data.tickets[raffleID], &copied)
	return nil
}

func (t *memoryTx) GetTickets(raffleID string) ([]*raffle.Ticket, error) {
	list := t.data.tickets[raffleID]
	tickets := make([]*raffle.Ticket, len(list))
	for i, ticket := range list {
		copied := *ticket
		tickets[i] = &copied
	}
	return tickets, nil
}

func (t *memoryTx) GetTicketByID(raffleID string, ticketID uint32) (*raffle.Ticket, error) {
	for _, ticket := range t.data.tickets[raffleID] {
		if ticket.ID == ticketID {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, raffle.ErrTicketNotFound
}

func (t *memoryTx) GetTicketCount(raffleID string, buyer string) (uint32, error) {
	return t.data.counts[raffleID][buyer], nil
}

func (t *memoryTx) SetTicketCount(raffleID string, buyer string, count uint32) error {
	if t.data.counts[raffleID] == nil {
		t.data.counts[raffleID] = make(map[string]uint32)
	}
	t.data.counts[raffleID][buyer] = count
	return nil
}

func (t *memoryTx) NextTicketID(raffleID string) (uint32, error) {
	next := t.data.counters[raffleID] + 1
	t.data.counters[raffleID] = next
	return next, nil
}

func (t *memoryTx) AppendRaffleID(id string) error {
	t.data.registry = append(t.data.registry, id)
	return nil
}

func (t *memoryTx) GetRaffleIDs(offset int, limit int, newestFirst bool) ([]string, error) {
	total := len(t.data.registry)
	if offset >= total || limit <= 0 {
		return []string{}, nil
	}

	count := total - offset
	if count > limit {
		count = limit
	}

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if newestFirst {
			ids = append(ids, t.data.registry[total-1-offset-i])
		} else {
			ids = append(ids, t.data.registry[offset+i])
		}
	}
	return ids, nil
}

func (t *memoryTx) CountRaffles() (int, error) {
	return len(t.data.registry), nil
}
