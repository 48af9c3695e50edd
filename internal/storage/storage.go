package storage

import "raffle/internal/raffle"

// Conversions between the persisted layout and the domain types. Only the
// sqlite implementation uses them; MemoryStorage holds domain values directly.

func recordFromRaffle(r *raffle.Raffle) *RaffleRecord {
	return &RaffleRecord{
		ID:               r.ID,
		Creator:          r.Creator,
		Description:      r.Description,
		EndTime:          r.EndTime,
		MaxTickets:       r.MaxTickets,
		AllowMultiple:    r.AllowMultiple,
		TicketPrice:      r.TicketPrice,
		PaymentToken:     r.PaymentToken,
		PrizeAmount:      r.PrizeAmount,
		TicketsSold:      r.TicketsSold,
		IsActive:         r.IsActive(),
		PrizeDeposited:   r.PrizeDeposited,
		PrizeClaimed:     r.PrizeClaimed(),
		RevenueWithdrawn: r.RevenueWithdrawn,
		Winner:           r.Winner,
	}
}

func raffleFromRecord(record *RaffleRecord) *raffle.Raffle {
	state := raffle.StateFinalized
	if record.IsActive {
		state = raffle.StateActive
	} else if record.PrizeClaimed {
		state = raffle.StateClaimed
	}

	return &raffle.Raffle{
		ID:               record.ID,
		Creator:          record.Creator,
		Description:      record.Description,
		EndTime:          record.EndTime,
		MaxTickets:       record.MaxTickets,
		AllowMultiple:    record.AllowMultiple,
		TicketPrice:      record.TicketPrice,
		PaymentToken:     record.PaymentToken,
		PrizeAmount:      record.PrizeAmount,
		TicketsSold:      record.TicketsSold,
		State:            state,
		PrizeDeposited:   record.PrizeDeposited,
		RevenueWithdrawn: record.RevenueWithdrawn,
		Winner:           record.Winner,
	}
}

func recordFromTicket(raffleID string, t *raffle.Ticket) *TicketRecord {
	return &TicketRecord{
		RaffleID:     raffleID,
		TicketID:     t.ID,
		Buyer:        t.Buyer,
		PurchaseTime: t.PurchaseTime,
		TicketNumber: t.TicketNumber,
	}
}

func ticketFromRecord(record *TicketRecord) *raffle.Ticket {
	return &raffle.Ticket{
		ID:           record.TicketID,
		Buyer:        record.Buyer,
		PurchaseTime: record.PurchaseTime,
		TicketNumber: record.TicketNumber,
	}
}
