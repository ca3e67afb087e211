// Package draw selects raffle winners.
package draw

import (
	"math/rand/v2"
	"slices"
)

// Source yields uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default draws from the process-wide generator, which is safe for concurrent use
var Default Source = globalSource{}

// SelectWinners shuffles a copy of participants with Fisher-Yates and returns
// the first k names. When k is at least the roster size the whole shuffled
// roster is returned. An empty roster or k < 1 yields nil.
func SelectWinners(src Source, participants []string, k int) []string {
	if len(participants) == 0 || k < 1 {
		return nil
	}

	shuffled := slices.Clone(participants)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	k = min(k, len(shuffled))
	return shuffled[:k:k]
}
