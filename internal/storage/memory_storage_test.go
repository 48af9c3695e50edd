package storage

import (
	"errors"
	"testing"

	"raffle/internal/payment"
	"raffle/internal/raffle"
)

func sampleRaffle(id string) *raffle.Raffle {
	return &raffle.Raffle{
		ID:           id,
		Creator:      "creator",
		MaxTickets:   10,
		TicketPrice:  5,
		PaymentToken: "USDC",
		PrizeAmount:  50,
		State:        raffle.StateActive,
	}
}

func TestMemoryStorageTransact(t *testing.T) {
	t.Run("commits records and balances together", func(t *testing.T) {
		bank := payment.NewMemoryBank()
		bank.Deposit("USDC", "buyer", 50)
		store := NewMemoryStorage(bank)

		err := store.Transact(func(tx raffle.Storage, txBank payment.Bank) error {
			if err := tx.SaveRaffle(sampleRaffle("a")); err != nil {
				return err
			}
			if err := txBank.Transfer("USDC", "buyer", "custody", 5); err != nil {
				return err
			}
			return tx.AppendRaffleID("a")
		})
		if err != nil {
			t.Fatalf("Transact: %v", err)
		}

		if _, err := store.GetRaffle("a"); err != nil {
			t.Errorf("raffle should be visible after commit: %v", err)
		}
		if count, _ := store.CountRaffles(); count != 1 {
			t.Errorf("registry count = %d, want 1", count)
		}
		if got := bank.Balance("USDC", "custody"); got != 5 {
			t.Errorf("custody = %d, want 5 after commit", got)
		}
	})

	t.Run("discards everything on failure", func(t *testing.T) {
		bank := payment.NewMemoryBank()
		bank.Deposit("USDC", "buyer", 50)
		store := NewMemoryStorage(bank)
		boom := errors.New("boom")

		err := store.Transact(func(tx raffle.Storage, txBank payment.Bank) error {
			if err := tx.SaveRaffle(sampleRaffle("a")); err != nil {
				return err
			}
			if err := tx.AppendTicket("a", &raffle.Ticket{ID: 1, Buyer: "x", TicketNumber: 1}); err != nil {
				return err
			}
			if _, err := tx.NextTicketID("a"); err != nil {
				return err
			}
			if err := txBank.Transfer("USDC", "buyer", "custody", 5); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		if _, err := store.GetRaffle("a"); !errors.Is(err, raffle.ErrRaffleNotFound) {
			t.Errorf("aborted raffle must not exist, got %v", err)
		}
		tickets, _ := store.GetTickets("a")
		if len(tickets) != 0 {
			t.Errorf("aborted tickets must not exist, got %d", len(tickets))
		}
		if id, _ := store.NextTicketID("a"); id != 1 {
			t.Errorf("counter must be untouched by the aborted transaction, got %d", id)
		}
		if got := bank.Balance("USDC", "buyer"); got != 50 {
			t.Errorf("buyer = %d, want 50 (aborted transfer must roll back)", got)
		}
	})
}

func TestMemoryStorageTicketLedger(t *testing.T) {
	store := NewMemoryStorage(payment.NewMemoryBank())

	for i := uint32(1); i <= 3; i++ {
		id, err := store.NextTicketID("a")
		if err != nil {
			t.Fatalf("NextTicketID: %v", err)
		}
		if id != i {
			t.Fatalf("ticket ids must be sequential from 1, got %d", id)
		}
		if err := store.AppendTicket("a", &raffle.Ticket{ID: id, Buyer: "x", TicketNumber: i}); err != nil {
			t.Fatalf("AppendTicket: %v", err)
		}
	}

	tickets, err := store.GetTickets("a")
	if err != nil {
		t.Fatalf("GetTickets: %v", err)
	}
	if len(tickets) != 3 {
		t.Fatalf("ledger length = %d, want 3", len(tickets))
	}

	ticket, err := store.GetTicketByID("a", 2)
	if err != nil {
		t.Fatalf("GetTicketByID: %v", err)
	}
	if ticket.TicketNumber != 2 {
		t.Errorf("ticket number = %d, want 2", ticket.TicketNumber)
	}
	if _, err := store.GetTicketByID("a", 9); !errors.Is(err, raffle.ErrTicketNotFound) {
		t.Errorf("missing ticket: expected ErrTicketNotFound, got %v", err)
	}

	// Counters are per raffle.
	if id, _ := store.NextTicketID("b"); id != 1 {
		t.Errorf("fresh raffle counter = %d, want 1", id)
	}
}

func TestMemoryStorageRegistryPaging(t *testing.T) {
	store := NewMemoryStorage(payment.NewMemoryBank())
	for _, id := range []string{"r1", "r2", "r3", "r4", "r5"} {
		if err := store.AppendRaffleID(id); err != nil {
			t.Fatalf("AppendRaffleID: %v", err)
		}
	}

	ids, err := store.GetRaffleIDs(1, 2, false)
	if err != nil {
		t.Fatalf("GetRaffleIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "r2" || ids[1] != "r3" {
		t.Errorf("oldest first page: got %v", ids)
	}

	ids, err = store.GetRaffleIDs(0, 3, true)
	if err != nil {
		t.Fatalf("GetRaffleIDs: %v", err)
	}
	if len(ids) != 3 || ids[0] != "r5" || ids[2] != "r3" {
		t.Errorf("newest first page: got %v", ids)
	}

	ids, err = store.GetRaffleIDs(7, 3, false)
	if err != nil {
		t.Fatalf("GetRaffleIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("past-the-end page: got %v", ids)
	}
}

func TestRaffleRecordRoundTrip(t *testing.T) {
	store := NewMemoryStorage(payment.NewMemoryBank())

	r := sampleRaffle("a")
	r.State = raffle.StateClaimed
	r.PrizeDeposited = true
	r.RevenueWithdrawn = true
	r.Winner = "lucky"
	r.TicketsSold = 4

	if err := store.SaveRaffle(r); err != nil {
		t.Fatalf("SaveRaffle: %v", err)
	}

	got, err := store.GetRaffle("a")
	if err != nil {
		t.Fatalf("GetRaffle: %v", err)
	}
	if got.State != raffle.StateClaimed || got.Winner != "lucky" || !got.RevenueWithdrawn {
		t.Errorf("round trip lost state: %+v", got)
	}

	// The stored copy must not alias the caller's struct.
	r.Winner = "tampered"
	got, _ = store.GetRaffle("a")
	if got.Winner != "lucky" {
		t.Errorf("stored raffle aliases caller memory")
	}
}
