package storage

import (
	"testing"

	"raffle/internal/raffle"
)

func TestPersistedLayoutMapping(t *testing.T) {
	cases := []struct {
		name         string
		state        raffle.State
		isActive     bool
		prizeClaimed bool
	}{
		{name: "active", state: raffle.StateActive, isActive: true, prizeClaimed: false},
		{name: "finalized", state: raffle.StateFinalized, isActive: false, prizeClaimed: false},
		{name: "claimed", state: raffle.StateClaimed, isActive: false, prizeClaimed: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := sampleRaffle("a")
			r.State = c.state

			record := recordFromRaffle(r)
			if record.IsActive != c.isActive || record.PrizeClaimed != c.prizeClaimed {
				t.Fatalf("booleans = (%v, %v), want (%v, %v)",
					record.IsActive, record.PrizeClaimed, c.isActive, c.prizeClaimed)
			}

			back := raffleFromRecord(record)
			if back.State != c.state {
				t.Fatalf("state after round trip = %s, want %s", back.State, c.state)
			}
		})
	}
}
