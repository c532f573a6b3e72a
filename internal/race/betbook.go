package race

// BetEntry is the stake pool on one entrant. Total always equals the sum of Bettors.
type BetEntry struct {
	Total   int
	Bettors map[string]int
}

// BetBook holds one entry per entrant, indexed by entrant
type BetBook []BetEntry

// NewBetBook returns an empty book for n entrants
func NewBetBook(n int) BetBook {
	book := make(BetBook, n)
	for i := range book {
		book[i] = BetEntry{Bettors: make(map[string]int)}
	}
	return book
}

// Place records a stake. Callers validate amount > 0 and the entrant index first.
func (b BetBook) Place(entrant int, participantID string, amount int) {
	entry := &b[entrant]
	entry.Total += amount
	entry.Bettors[participantID] += amount
}

// TotalPool is the sum of every entrant's total
func (b BetBook) TotalPool() int {
	total := 0
	for _, e := range b {
		total += e.Total
	}
	return total
}

// Stake returns what participantID has on entrant
func (b BetBook) Stake(entrant int, participantID string) int {
	if entrant < 0 || entrant >= len(b) {
		return 0
	}
	return b[entrant].Bettors[participantID]
}
