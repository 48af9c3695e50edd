package raffle

import "raffle/internal/payment"

// Storage is the typed contract over the persistence substrate. The key
// space is closed: one raffle record per id, the ordered ticket ledger, a
// per-buyer ticket count, a per-raffle ticket id counter, and the append-only
// registry of raffle ids.
type Storage interface {
	// Transact runs fn against a transactional view of both the records and
	// the balances. Either every write fn performs, including transfers
	// through the bank, is persisted, or none is.
	Transact(fn func(Storage, payment.Bank) error) error

	HasRaffle(id string) (bool, error)
	GetRaffle(id string) (*Raffle, error)
	SaveRaffle(r *Raffle) error

	// AppendTicket appends one entry to the raffle's ordered ticket ledger.
	// Entries are never removed or reindexed.
	AppendTicket(raffleID string, t *Ticket) error
	GetTickets(raffleID string) ([]*Ticket, error)
	GetTicketByID(raffleID string, ticketID uint32) (*Ticket, error)

	GetTicketCount(raffleID string, buyer string) (uint32, error)
	SetTicketCount(raffleID string, buyer string, count uint32) error

	// NextTicketID increments and returns the raffle's ticket id counter,
	// starting at 1. The counter never goes backwards.
	NextTicketID(raffleID string) (uint32, error)

	AppendRaffleID(id string) error
	GetRaffleIDs(offset int, limit int, newestFirst bool) ([]string, error)
	CountRaffles() (int, error)
}
