package raffle

// State is the materialized lifecycle tag. Proposed and Drawing are views
// derived from the prize flag and the deadline, not stored states, so the
// illegal flag combinations of a boolean layout cannot be represented.
type State string

const (
	StateActive    State = "active"
	StateFinalized State = "finalized"
	StateClaimed   State = "claimed"
)

// Status is the five-phase view of a raffle's lifecycle.
type Status string

const (
	StatusProposed  Status = "proposed"
	StatusActive    Status = "active"
	StatusDrawing   Status = "drawing"
	StatusFinalized Status = "finalized"
	StatusClaimed   Status = "claimed"
)

// Raffle is one lottery instance. Money fields are integer minor units of
// the payment token. EndTime is unix seconds, zero meaning no deadline.
type Raffle struct {
	ID               string `json:"id"`
	Creator          string `json:"creator"`
	Description      string `json:"description"`
	EndTime          int64  `json:"endTime"`
	MaxTickets       uint32 `json:"maxTickets"`
	AllowMultiple    bool   `json:"allowMultiple"`
	TicketPrice      int64  `json:"ticketPrice"`
	PaymentToken     string `json:"paymentToken"`
	PrizeAmount      int64  `json:"prizeAmount"`
	TicketsSold      uint32 `json:"ticketsSold"`
	State            State  `json:"state"`
	PrizeDeposited   bool   `json:"prizeDeposited"`
	RevenueWithdrawn bool   `json:"revenueWithdrawn"`
	Winner           string `json:"winner,omitempty"`
}

// IsActive reports whether the raffle is still selling, the boolean view of
// the persisted layout.
func (r *Raffle) IsActive() bool {
	return r.State == StateActive
}

// PrizeClaimed is the boolean view of the claimed state.
func (r *Raffle) PrizeClaimed() bool {
	return r.State == StateClaimed
}

// Status derives the five-phase lifecycle view at the given time.
func (r *Raffle) Status(now int64) Status {
	switch r.State {
	case StateFinalized:
		return StatusFinalized
	case StateClaimed:
		return StatusClaimed
	}
	if !r.PrizeDeposited {
		return StatusProposed
	}
	if r.EndTime != 0 && now >= r.EndTime {
		return StatusDrawing
	}
	return StatusActive
}

// Ticket is one paid entry. TicketNumber is the 1-based position among all
// tickets sold in the raffle; ID comes from an independent monotonic counter.
type Ticket struct {
	ID           uint32 `json:"id"`
	Buyer        string `json:"buyer"`
	PurchaseTime int64  `json:"purchaseTime"`
	TicketNumber uint32 `json:"ticketNumber"`
}

// Stats summarizes sales for one raffle.
type Stats struct {
	TicketsSold      uint32 `json:"ticketsSold"`
	MaxTickets       uint32 `json:"maxTickets"`
	TicketsRemaining uint32 `json:"ticketsRemaining"`
	TotalRevenue     int64  `json:"totalRevenue"`
}

// Page is one bounded slice of the raffle registry.
type Page struct {
	IDs     []string `json:"ids"`
	Total   int      `json:"total"`
	Offset  int      `json:"offset"`
	Limit   int      `json:"limit"`
	HasMore bool     `json:"hasMore"`
}

// CreateParams carries the caller-supplied fields of a new raffle.
type CreateParams struct {
	Creator       string `json:"creator"`
	Description   string `json:"description"`
	EndTime       int64  `json:"endTime"`
	MaxTickets    uint32 `json:"maxTickets"`
	AllowMultiple bool   `json:"allowMultiple"`
	TicketPrice   int64  `json:"ticketPrice"`
	PaymentToken  string `json:"paymentToken"`
	PrizeAmount   int64  `json:"prizeAmount"`
}
