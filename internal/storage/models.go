package storage

// RaffleRecord is the persisted layout of a raffle. The lifecycle is stored
// as the is_active / prize_deposited / prize_claimed booleans for layout
// compatibility; the domain state tag is reconstructed on read.
type RaffleRecord struct {
	ID               string `gorm:"primaryKey"`
	Creator          string `gorm:"not null"`
	Description      string
	EndTime          int64  `gorm:"default:0"`
	MaxTickets       uint32 `gorm:"not null"`
	AllowMultiple    bool   `gorm:"default:false"`
	TicketPrice      int64  `gorm:"not null"`
	PaymentToken     string `gorm:"not null"`
	PrizeAmount      int64  `gorm:"not null"`
	TicketsSold      uint32 `gorm:"default:0"`
	IsActive         bool   `gorm:"default:true"`
	PrizeDeposited   bool   `gorm:"default:false"`
	PrizeClaimed     bool   `gorm:"default:false"`
	RevenueWithdrawn bool   `gorm:"default:false"`
	Winner           string `gorm:"default:''"`
}

// TicketRecord is one immutable ledger entry. Position is the global append
// order; TicketNumber is the 1-based order within the raffle.
type TicketRecord struct {
	Position     int64  `gorm:"primaryKey;autoIncrement"`
	RaffleID     string `gorm:"uniqueIndex:idx_raffle_ticket;not null"`
	TicketID     uint32 `gorm:"uniqueIndex:idx_raffle_ticket;not null"`
	Buyer        string `gorm:"not null;index:idx_raffle_buyer"`
	PurchaseTime int64  `gorm:"not null"`
	TicketNumber uint32 `gorm:"not null"`
}

// TicketCountRecord tracks how many tickets one buyer holds in one raffle.
// It is only ever incremented.
type TicketCountRecord struct {
	RaffleID string `gorm:"primaryKey"`
	Buyer    string `gorm:"primaryKey"`
	Count    uint32 `gorm:"not null"`
}

// TicketCounterRecord holds the last issued ticket id for a raffle.
type TicketCounterRecord struct {
	RaffleID string `gorm:"primaryKey"`
	LastID   uint32 `gorm:"not null"`
}

// RegistryRecord is one entry of the append-only raffle registry. Position
// preserves creation order and is never reassigned.
type RegistryRecord struct {
	Position int64  `gorm:"primaryKey;autoIncrement"`
	RaffleID string `gorm:"uniqueIndex;not null"`
}
