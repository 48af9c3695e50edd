package raffle

import (
	"errors"
	"sync"
	"time"

	"raffle/internal/auth"
	"raffle/internal/events"
	"raffle/internal/logger"
	"raffle/internal/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxPageLimit is the hard ceiling on registry page sizes. Requested limits
// above it are clamped, the only place an input is adjusted instead of
// rejected.
const MaxPageLimit = 100

// Service is the raffle lifecycle state machine. Every mutation
// authenticates its caller first, runs inside one storage transaction, and
// emits one audit event on success. Transfers go through the bank the
// transaction provides, so money movement commits and rolls back with the
// record writes. A single mutex serializes mutations, which gives each
// operation the exclusive view the invariants assume.
type Service struct {
	mu      sync.Mutex
	storage Storage
	auth    auth.Authenticator
	emitter events.Emitter
	custody string
	now     func() time.Time
	newID   func() string
}

// Option adjusts a Service at construction time.
type Option func(*Service)

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces the raffle id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func NewService(storage Storage, authenticator auth.Authenticator, emitter events.Emitter, custody string, options ...Option) *Service {
	s := &Service{
		storage: storage,
		auth:    authenticator,
		emitter: emitter,
		custody: custody,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Create registers a new raffle and appends it to the registry.
func (s *Service) Create(caller string, params CreateParams) (string, error) {
	if err := s.auth.RequireAuth(caller, params.Creator); err != nil {
		return "", ErrNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	if params.EndTime != 0 && params.EndTime < now {
		return "", ErrInvalidParameters
	}
	if params.MaxTickets == 0 || params.TicketPrice <= 0 || params.PrizeAmount <= 0 {
		return "", ErrInvalidParameters
	}
	if params.Creator == "" || params.PaymentToken == "" {
		return "", ErrInvalidParameters
	}

	id := s.newID()
	r := &Raffle{
		ID:            id,
		Creator:       params.Creator,
		Description:   params.Description,
		EndTime:       params.EndTime,
		MaxTickets:    params.MaxTickets,
		AllowMultiple: params.AllowMultiple,
		TicketPrice:   params.TicketPrice,
		PaymentToken:  params.PaymentToken,
		PrizeAmount:   params.PrizeAmount,
		TicketsSold:   0,
		State:         StateActive,
	}

	err := s.storage.Transact(func(store Storage, _ payment.Bank) error {
		exists, err := store.HasRaffle(id)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyInitialized
		}

		if err := store.SaveRaffle(r); err != nil {
			return err
		}
		return store.AppendRaffleID(id)
	})

	if err != nil {
		logger.Debug("cannot create raffle, exiting...", zap.Error(err))
		return "", err
	}

	s.emitter.Emit(events.RaffleCreated{
		RaffleID:     id,
		Creator:      params.Creator,
		Description:  params.Description,
		EndTime:      params.EndTime,
		MaxTickets:   params.MaxTickets,
		TicketPrice:  params.TicketPrice,
		PaymentToken: params.PaymentToken,
		PrizeAmount:  params.PrizeAmount,
	})

	logger.Info("raffle created", zap.String("id", id), zap.String("creator", params.Creator))
	return id, nil
}

// DepositPrize moves the prize from the creator into custody. Creator only.
func (s *Service) DepositPrize(caller string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.storage.GetRaffle(id)
	if err != nil {
		return err
	}
	if err := s.auth.RequireAuth(caller, r.Creator); err != nil {
		return ErrNotAuthorized
	}
	if !r.IsActive() {
		return ErrRaffleInactive
	}
	if r.PrizeDeposited {
		return ErrPrizeAlreadyDeposited
	}

	err = s.storage.Transact(func(store Storage, bank payment.Bank) error {
		if err := bank.Transfer(r.PaymentToken, r.Creator, s.custody, r.PrizeAmount); err != nil {
			return mapPaymentError(err)
		}

		r.PrizeDeposited = true
		return store.SaveRaffle(r)
	})

	if err != nil {
		logger.Debug("cannot deposit prize, exiting...", zap.String("id", id), zap.Error(err))
		return err
	}

	logger.Info("prize deposited", zap.String("id", id), zap.Int64("amount", r.PrizeAmount))
	return nil
}

// BuyTickets sells quantity tickets to buyer in one payment and one audit
// event. Returns the raffle's new sold total.
func (s *Service) BuyTickets(caller string, id string, buyer string, quantity uint32) (uint32, error) {
	if err := s.auth.RequireAuth(caller, buyer); err != nil {
		return 0, ErrNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.storage.GetRaffle(id)
	if err != nil {
		return 0, err
	}
	if !r.IsActive() {
		return 0, ErrRaffleInactive
	}

	now := s.now().Unix()
	if r.EndTime != 0 && now > r.EndTime {
		return 0, ErrRaffleEnded
	}
	if quantity == 0 {
		return 0, ErrInvalidParameters
	}
	if quantity > 1 && !r.AllowMultiple {
		return 0, ErrMultipleTicketsNotAllowed
	}

	held, err := s.storage.GetTicketCount(id, buyer)
	if err != nil {
		return 0, err
	}
	if !r.AllowMultiple && held > 0 {
		return 0, ErrMultipleTicketsNotAllowed
	}

	if r.TicketsSold >= r.MaxTickets {
		return 0, ErrTicketsSoldOut
	}
	if quantity > r.MaxTickets-r.TicketsSold {
		return 0, ErrInsufficientTickets
	}

	total, err := checkedTotal(r.TicketPrice, quantity)
	if err != nil {
		return 0, err
	}

	ticketIDs := make([]uint32, 0, quantity)
	err = s.storage.Transact(func(store Storage, bank payment.Bank) error {
		if err := bank.Transfer(r.PaymentToken, buyer, s.custody, total); err != nil {
			return mapPaymentError(err)
		}

		for i := uint32(0); i < quantity; i++ {
			ticketID, err := store.NextTicketID(id)
			if err != nil {
				return err
			}

			ticket := &Ticket{
				ID:           ticketID,
				Buyer:        buyer,
				PurchaseTime: now,
				TicketNumber: r.TicketsSold + i + 1,
			}
			if err := store.AppendTicket(id, ticket); err != nil {
				return err
			}

			ticketIDs = append(ticketIDs, ticketID)
		}

		if err := store.SetTicketCount(id, buyer, held+quantity); err != nil {
			return err
		}

		r.TicketsSold += quantity
		return store.SaveRaffle(r)
	})

	if err != nil {
		logger.Debug("cannot buy tickets, exiting...", zap.String("id", id), zap.Error(err))
		return 0, err
	}

	s.emitter.Emit(events.TicketsPurchased{
		RaffleID:  id,
		Buyer:     buyer,
		TicketIDs: ticketIDs,
		Quantity:  quantity,
		TotalPaid: total,
		Timestamp: now,
	})

	logger.Info(
		"tickets purchased",
		zap.String("id", id),
		zap.String("buyer", buyer),
		zap.Uint32("quantity", quantity),
		zap.Uint32("ticketsSold", r.TicketsSold),
	)
	return r.TicketsSold, nil
}

// Finalize closes sales and picks the winner. Creator only. The randomness
// source label is echoed into the audit event verbatim and does not alter
// the selection.
func (s *Service) Finalize(caller string, id string, randomnessSource string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.storage.GetRaffle(id)
	if err != nil {
		return "", err
	}
	if err := s.auth.RequireAuth(caller, r.Creator); err != nil {
		return "", ErrNotAuthorized
	}
	if !r.IsActive() {
		return "", ErrRaffleInactive
	}

	now := s.now().Unix()
	if r.EndTime != 0 && now < r.EndTime {
		return "", ErrRaffleStillRunning
	}
	if r.TicketsSold == 0 {
		return "", ErrNoTicketsSold
	}

	tickets, err := s.storage.GetTickets(id)
	if err != nil {
		return "", err
	}

	index := winnerIndex(now, s.emitter.Sequence(), uint64(len(tickets)))
	winning := tickets[index]

	r.State = StateFinalized
	r.Winner = winning.Buyer

	err = s.storage.Transact(func(store Storage, _ payment.Bank) error {
		return store.SaveRaffle(r)
	})
	if err != nil {
		logger.Debug("cannot finalize raffle, exiting...", zap.String("id", id), zap.Error(err))
		return "", err
	}

	s.emitter.Emit(events.RaffleFinalized{
		RaffleID:            id,
		Winner:              winning.Buyer,
		WinningTicketNumber: winning.TicketNumber,
		TotalTicketsSold:    r.TicketsSold,
		RandomnessSource:    randomnessSource,
		FinalizedAt:         now,
	})

	logger.Info(
		"raffle finalized",
		zap.String("id", id),
		zap.String("winner", winning.Buyer),
		zap.Uint32("winningTicketNumber", winning.TicketNumber),
	)
	return winning.Buyer, nil
}

// ClaimPrize pays the deposited prize out to the winner, exactly once.
// Returns the net amount paid; the platform fee field is reserved and
// always zero.
func (s *Service) ClaimPrize(caller string, id string, claimant string) (int64, error) {
	if err := s.auth.RequireAuth(caller, claimant); err != nil {
		return 0, ErrNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.storage.GetRaffle(id)
	if err != nil {
		return 0, err
	}
	if r.Winner == "" || claimant != r.Winner {
		return 0, ErrNotWinner
	}
	if !r.PrizeDeposited {
		return 0, ErrPrizeNotDeposited
	}
	if r.PrizeClaimed() {
		return 0, ErrPrizeAlreadyClaimed
	}

	net := r.PrizeAmount
	claimedAt := s.now().Unix()
	err = s.storage.Transact(func(store Storage, bank payment.Bank) error {
		if err := bank.Transfer(r.PaymentToken, s.custody, r.Winner, net); err != nil {
			return mapPaymentError(err)
		}

		r.State = StateClaimed
		return store.SaveRaffle(r)
	})

	if err != nil {
		logger.Debug("cannot claim prize, exiting...", zap.String("id", id), zap.Error(err))
		return 0, err
	}

	s.emitter.Emit(events.PrizeClaimed{
		RaffleID:    id,
		Winner:      r.Winner,
		GrossAmount: r.PrizeAmount,
		NetAmount:   net,
		PlatformFee: 0,
		ClaimedAt:   claimedAt,
	})

	logger.Info("prize claimed", zap.String("id", id), zap.String("winner", r.Winner), zap.Int64("net", net))
	return net, nil
}

// WithdrawRevenue releases the escrowed ticket proceeds to the creator once
// sales are closed. Creator only, exactly once.
func (s *Service) WithdrawRevenue(caller string, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.storage.GetRaffle(id)
	if err != nil {
		return 0, err
	}
	if err := s.auth.RequireAuth(caller, r.Creator); err != nil {
		return 0, ErrNotAuthorized
	}
	if r.IsActive() {
		return 0, ErrRaffleStillRunning
	}
	if r.RevenueWithdrawn {
		return 0, ErrRevenueAlreadyWithdrawn
	}
	if r.TicketsSold == 0 {
		return 0, ErrNoTicketsSold
	}

	revenue, err := checkedTotal(r.TicketPrice, r.TicketsSold)
	if err != nil {
		return 0, err
	}

	withdrawnAt := s.now().Unix()
	err = s.storage.Transact(func(store Storage, bank payment.Bank) error {
		if err := bank.Transfer(r.PaymentToken, s.custody, r.Creator, revenue); err != nil {
			return mapPaymentError(err)
		}

		r.RevenueWithdrawn = true
		return store.SaveRaffle(r)
	})

	if err != nil {
		logger.Debug("cannot withdraw revenue, exiting...", zap.String("id", id), zap.Error(err))
		return 0, err
	}

	s.emitter.Emit(events.RevenueWithdrawn{
		RaffleID:    id,
		Creator:     r.Creator,
		Amount:      revenue,
		WithdrawnAt: withdrawnAt,
	})

	logger.Info("revenue withdrawn", zap.String("id", id), zap.Int64("amount", revenue))
	return revenue, nil
}

// GetRaffle returns the raffle record. No authorization, no mutation.
func (s *Service) GetRaffle(id string) (*Raffle, error) {
	return s.storage.GetRaffle(id)
}

// GetTickets returns the raffle's ticket ledger in purchase order.
func (s *Service) GetTickets(id string) ([]*Ticket, error) {
	if _, err := s.storage.GetRaffle(id); err != nil {
		return nil, err
	}
	return s.storage.GetTickets(id)
}

// GetTicket returns one ledger entry by its ticket id.
func (s *Service) GetTicket(id string, ticketID uint32) (*Ticket, error) {
	if _, err := s.storage.GetRaffle(id); err != nil {
		return nil, err
	}
	return s.storage.GetTicketByID(id, ticketID)
}

// GetStats summarizes sales for one raffle.
func (s *Service) GetStats(id string) (*Stats, error) {
	r, err := s.storage.GetRaffle(id)
	if err != nil {
		return nil, err
	}

	revenue := int64(0)
	if r.TicketsSold > 0 {
		revenue, err = checkedTotal(r.TicketPrice, r.TicketsSold)
		if err != nil {
			return nil, err
		}
	}

	return &Stats{
		TicketsSold:      r.TicketsSold,
		MaxTickets:       r.MaxTickets,
		TicketsRemaining: r.MaxTickets - r.TicketsSold,
		TotalRevenue:     revenue,
	}, nil
}

// ListRaffleIDs serves one bounded page of the registry. The registry order
// is creation order; newestFirst only reverses iteration.
func (s *Service) ListRaffleIDs(offset int, limit int, newestFirst bool) (*Page, error) {
	if offset < 0 || limit < 0 {
		return nil, ErrInvalidParameters
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	total, err := s.storage.CountRaffles()
	if err != nil {
		return nil, err
	}

	ids := []string{}
	if offset < total && limit > 0 {
		ids, err = s.storage.GetRaffleIDs(offset, limit, newestFirst)
		if err != nil {
			return nil, err
		}
	}

	return &Page{
		IDs:     ids,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+len(ids) < total,
	}, nil
}

// checkedTotal multiplies price by quantity and rejects overflow instead of
// wrapping.
func checkedTotal(price int64, quantity uint32) (int64, error) {
	if quantity == 0 {
		return 0, ErrInvalidParameters
	}
	total := price * int64(quantity)
	if total/int64(quantity) != price {
		return 0, ErrArithmeticOverflow
	}
	return total, nil
}

func mapPaymentError(err error) error {
	if errors.Is(err, payment.ErrInsufficientFunds) || errors.Is(err, payment.ErrInvalidAmount) {
		return ErrInsufficientPayment
	}
	return err
}
