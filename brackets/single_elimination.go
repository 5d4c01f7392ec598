package brackets

import (
	"context"
	"fmt"
	"math/bits"
	"time"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket builds a balanced elimination tree for the roster. With k
// participants the bracket holds nextPow2(k) leaf slots; the slots beyond k
// are byes, placed so they face the top seeds in round 1. Bye leaves are left
// scheduled here and auto-resolved by the engine when the bracket is loaded,
// so bye advancement runs through the same progression path as played matches.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*models.Match, error) {
	roster := params.Roster
	n := len(roster)
	if n < 2 {
		return nil, ErrInvalidRosterSize
	}
	for _, p := range roster {
		if p.PaymentStatus != models.PaymentSuccess {
			return nil, fmt.Errorf("%w: participant %d", ErrRosterNotConfirmed, p.ID)
		}
	}

	size := NextPowerOfTwo(n)
	totalRounds := bits.TrailingZeros(uint(size))
	now := time.Now()

	// Build from the final backwards so every match can point at an
	// already-created parent.
	byRound := make([][]*models.Match, totalRounds+1)
	for r := totalRounds; r >= 1; r-- {
		count := size >> uint(r)
		byRound[r] = make([]*models.Match, count)
		for i := 0; i < count; i++ {
			m := &models.Match{
				ID:           uuid.New(),
				TournamentID: params.Tournament.ID,
				Round:        r,
				OrderInRound: i + 1,
				Status:       models.MatchStatusPending,
				CreatedAt:    now,
			}
			if r < totalRounds {
				parent := byRound[r+1][i/2]
				parentID := parent.ID
				slot := i%2 + 1
				m.NextMatchID = &parentID
				m.WinnerToSlot = &slot
			}
			byRound[r][i] = m
		}
	}

	// Seed round 1 using the standard pairing (seed i meets seed size-1-i,
	// recursively within each block). Seeds beyond the roster are byes.
	for i, pair := range FirstRoundSeedPairs(size) {
		leaf := byRound[1][i]
		if pair[0] < n {
			id := roster[pair[0]].ID
			leaf.Slot1ParticipantID = &id
		} else {
			leaf.Slot1Bye = true
		}
		if pair[1] < n {
			id := roster[pair[1]].ID
			leaf.Slot2ParticipantID = &id
		} else {
			leaf.Slot2Bye = true
		}
		if leaf.Ready() || leaf.Slot1Bye || leaf.Slot2Bye {
			leaf.Status = models.MatchStatusScheduled
		}
	}

	matches := make([]*models.Match, 0, size-1)
	for r := 1; r <= totalRounds; r++ {
		matches = append(matches, byRound[r]...)
	}
	return matches, nil
}

// NextPowerOfTwo rounds count up to the nearest power of two, so 5 becomes 8.
func NextPowerOfTwo(count int) int {
	if count <= 1 {
		return 1
	}
	return 1 << uint(bits.Len(uint(count-1)))
}

// FirstRoundSeedPairs returns the round-1 seed index pairings for a bracket
// of the given size (a power of two). The expansion keeps the classic
// property that seeds 1 and 2 can only meet in the final: for size 8 the
// pairs are {0,7} {3,4} {1,6} {2,5}.
func FirstRoundSeedPairs(size int) [][2]int {
	if size < 2 {
		return nil
	}

	seeds := []int{0}
	for len(seeds) < size {
		grown := len(seeds) * 2
		next := make([]int, 0, grown)
		for _, s := range seeds {
			next = append(next, s, grown-1-s)
		}
		seeds = next
	}

	pairs := make([][2]int, 0, size/2)
	for i := 0; i < len(seeds); i += 2 {
		pairs = append(pairs, [2]int{seeds[i], seeds[i+1]})
	}
	return pairs
}
