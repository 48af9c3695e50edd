package events

// Audit event schemas, one per significant lifecycle operation. Consumers
// read them out-of-band; nothing in this service queries them back.

type Event interface {
	Name() string
}

// Emitter appends events to the audit stream. Each emitted event carries a
// monotonically increasing sequence number; Sequence reports the number the
// next event will get, which finalization folds into its entropy seed.
type Emitter interface {
	Sequence() uint64
	Emit(event Event)
}

type RaffleCreated struct {
	RaffleID     string `json:"raffleId"`
	Creator      string `json:"creator"`
	Description  string `json:"description"`
	EndTime      int64  `json:"endTime"`
	MaxTickets   uint32 `json:"maxTickets"`
	TicketPrice  int64  `json:"ticketPrice"`
	PaymentToken string `json:"paymentToken"`
	PrizeAmount  int64  `json:"prizeAmount"`
}

func (RaffleCreated) Name() string { return "RaffleCreated" }

type TicketsPurchased struct {
	RaffleID  string   `json:"raffleId"`
	Buyer     string   `json:"buyer"`
	TicketIDs []uint32 `json:"ticketIds"`
	Quantity  uint32   `json:"quantity"`
	TotalPaid int64    `json:"totalPaid"`
	Timestamp int64    `json:"timestamp"`
}

func (TicketsPurchased) Name() string { return "TicketsPurchased" }

type RaffleFinalized struct {
	RaffleID            string `json:"raffleId"`
	Winner              string `json:"winner"`
	WinningTicketNumber uint32 `json:"winningTicketNumber"`
	TotalTicketsSold    uint32 `json:"totalTicketsSold"`
	RandomnessSource    string `json:"randomnessSource"`
	FinalizedAt         int64  `json:"finalizedAt"`
}

func (RaffleFinalized) Name() string { return "RaffleFinalized" }

type RevenueWithdrawn struct {
	RaffleID    string `json:"raffleId"`
	Creator     string `json:"creator"`
	Amount      int64  `json:"amount"`
	WithdrawnAt int64  `json:"withdrawnAt"`
}

func (RevenueWithdrawn) Name() string { return "RevenueWithdrawn" }

type PrizeClaimed struct {
	RaffleID    string `json:"raffleId"`
	Winner      string `json:"winner"`
	GrossAmount int64  `json:"grossAmount"`
	NetAmount   int64  `json:"netAmount"`
	PlatformFee int64  `json:"platformFee"`
	ClaimedAt   int64  `json:"claimedAt"`
}

func (PrizeClaimed) Name() string { return "PrizeClaimed" }
