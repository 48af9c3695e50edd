package payment

import "sync"

// MemoryBank keeps balances in memory. Tests seed it with Deposit and read
// outcomes back with Balance.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[string]int64
}

func NewMemoryBank() *MemoryBank {
	return &MemoryBank{
		balances: make(map[string]int64),
	}
}

func key(token string, account string) string {
	return token + "/" + account
}

func (b *MemoryBank) Deposit(token string, account string, amount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[key(token, account)] += amount
}

func (b *MemoryBank) Balance(token string, account string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[key(token, account)]
}

// Clone returns an independent bank holding the same balances. Transactions
// work against a clone and copy it back only on commit.
func (b *MemoryBank) Clone() *MemoryBank {
	b.mu.Lock()
	defer b.mu.Unlock()

	balances := make(map[string]int64, len(b.balances))
	for k, v := range b.balances {
		balances[k] = v
	}
	return &MemoryBank{balances: balances}
}

// CopyFrom replaces this bank's balances with other's.
func (b *MemoryBank) CopyFrom(other *MemoryBank) {
	other.mu.Lock()
	balances := make(map[string]int64, len(other.balances))
	for k, v := range other.balances {
		balances[k] = v
	}
	other.mu.Unlock()

	b.mu.Lock()
	b.balances = balances
	b.mu.Unlock()
}

func (b *MemoryBank) Transfer(token string, from string, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balances[key(token, from)] < amount {
		return ErrInsufficientFunds
	}

	b.balances[key(token, from)] -= amount
	b.balances[key(token, to)] += amount
	return nil
}
