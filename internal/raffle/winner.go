package raffle

// winnerIndex folds the finalization timestamp and the audit stream's next
// sequence number into an index over the sold tickets.
//
// Both inputs are observable before finalization is submitted, so whoever
// times the finalize call can influence the outcome. The randomness source
// label carried by the finalize operation is audit metadata only and never
// feeds this computation; a committed random beacon would have to replace
// this before the selection could be called fair.
func winnerIndex(timestamp int64, sequence uint64, ticketsSold uint64) uint64 {
	return (uint64(timestamp) + sequence) % ticketsSold
}
