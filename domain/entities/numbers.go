package entities

// Game shape constants. A pick is a set of 6 distinct numbers in [1,49].
const (
	PickCount = 6
	MinNumber = 1
	MaxNumber = 49
)

// ValidateNumbers checks that a candidate pick obeys the game's shape rules:
// exactly PickCount entries, each in [MinNumber, MaxNumber], pairwise distinct.
// Pure; membership is checked via a fixed-size presence table.
func ValidateNumbers(numbers []int64) error {
	if len(numbers) != PickCount {
		return &NumbersError{Kind: NumbersWrongCount, Count: len(numbers)}
	}

	var seen [MaxNumber + 1]bool
	for _, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			return &NumbersError{Kind: NumbersOutOfRange, Value: n}
		}
		if seen[n] {
			return &NumbersError{Kind: NumbersDuplicate, Value: n}
		}
		seen[n] = true
	}

	return nil
}

// MatchNumbers counts how many times each of the ticket's numbers appears in
// the winning set and returns the matched values. Winning sets are expected to
// be distinct, but the comparison sums every occurrence rather than assuming
// uniqueness.
func MatchNumbers(ticket, winning []int64) (int, []int64) {
	count := 0
	var matched []int64
	for _, n := range ticket {
		for _, w := range winning {
			if n == w {
				count++
				matched = append(matched, n)
			}
		}
	}
	return count, matched
}

// CopyNumbers returns an independent copy of a number sequence. Ticket and
// draw number slices are shared across ledger snapshots and must never be
// mutated through a returned reference.
func CopyNumbers(numbers []int64) []int64 {
	if numbers == nil {
		return nil
	}
	out := make([]int64, len(numbers))
	copy(out, numbers)
	return out
}
