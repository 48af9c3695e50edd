package raffle

import "errors"

// Business errors surfaced by the lifecycle operations. Every precondition
// failure maps to exactly one of these; a failed operation persists nothing.
var (
	ErrRaffleNotFound            = errors.New("raffle not found")
	ErrTicketNotFound            = errors.New("ticket not found")
	ErrRaffleInactive            = errors.New("raffle inactive")
	ErrTicketsSoldOut            = errors.New("tickets sold out")
	ErrInsufficientPayment       = errors.New("insufficient payment")
	ErrNotAuthorized             = errors.New("not authorized")
	ErrPrizeNotDeposited         = errors.New("prize not deposited")
	ErrPrizeAlreadyClaimed       = errors.New("prize already claimed")
	ErrInvalidParameters         = errors.New("invalid parameters")
	ErrInsufficientTickets       = errors.New("insufficient tickets available")
	ErrRaffleEnded               = errors.New("raffle ended")
	ErrRaffleStillRunning        = errors.New("raffle still running")
	ErrNoTicketsSold             = errors.New("no tickets sold")
	ErrMultipleTicketsNotAllowed = errors.New("multiple tickets not allowed")
	ErrPrizeAlreadyDeposited     = errors.New("prize already deposited")
	ErrNotWinner                 = errors.New("not the winner")
	ErrRevenueAlreadyWithdrawn   = errors.New("revenue already withdrawn")
	ErrArithmeticOverflow        = errors.New("arithmetic overflow")
	ErrAlreadyInitialized        = errors.New("already initialized")
	ErrNotInitialized            = errors.New("not initialized")
)
