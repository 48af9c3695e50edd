package raffle

import "testing"

func TestWinnerIndex(t *testing.T) {
	t.Run("is the seed modulo the tickets sold", func(t *testing.T) {
		cases := []struct {
			timestamp int64
			sequence  uint64
			sold      uint64
			want      uint64
		}{
			{timestamp: 0, sequence: 0, sold: 1, want: 0},
			{timestamp: 10, sequence: 2, sold: 5, want: 2},
			{timestamp: 7, sequence: 3, sold: 10, want: 0},
			{timestamp: 1_000_000, sequence: 41, sold: 7, want: (1_000_000 + 41) % 7},
		}
		for _, c := range cases {
			if got := winnerIndex(c.timestamp, c.sequence, c.sold); got != c.want {
				t.Errorf("winnerIndex(%d, %d, %d) = %d, want %d", c.timestamp, c.sequence, c.sold, got, c.want)
			}
		}
	})

	t.Run("always lands on a sold ticket", func(t *testing.T) {
		for sold := uint64(1); sold <= 64; sold++ {
			for sequence := uint64(0); sequence < 3; sequence++ {
				if got := winnerIndex(1_700_000_000, sequence, sold); got >= sold {
					t.Fatalf("index %d out of range for %d tickets", got, sold)
				}
			}
		}
	})

	t.Run("is insensitive to the source label by construction", func(t *testing.T) {
		// The label is not even a parameter; this pins the property that two
		// finalizations differing only in their label agree on the index.
		a := winnerIndex(42, 1, 9)
		b := winnerIndex(42, 1, 9)
		if a != b {
			t.Fatalf("selection must be deterministic, got %d and %d", a, b)
		}
	})
}
