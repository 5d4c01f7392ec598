package brackets

import (
	"context"
	"fmt"
	"time"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates one match per participant pair. Round-robin matches
// carry no progression links; the engine treats the bracket as a league and
// computes standings from win counts once every match resolves.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*models.Match, error) {
	roster := params.Roster
	if len(roster) < 2 {
		return nil, ErrInvalidRosterSize
	}
	for _, p := range roster {
		if p.PaymentStatus != models.PaymentSuccess {
			return nil, fmt.Errorf("%w: participant %d", ErrRosterNotConfirmed, p.ID)
		}
	}

	now := time.Now()
	matches := make([]*models.Match, 0, len(roster)*(len(roster)-1)/2)
	order := 0
	for i := 0; i < len(roster); i++ {
		for j := i + 1; j < len(roster); j++ {
			order++
			p1 := roster[i].ID
			p2 := roster[j].ID
			matches = append(matches, &models.Match{
				ID:                 uuid.New(),
				TournamentID:       params.Tournament.ID,
				Round:              1,
				OrderInRound:       order,
				Slot1ParticipantID: &p1,
				Slot2ParticipantID: &p2,
				Status:             models.MatchStatusScheduled,
				CreatedAt:          now,
			})
		}
	}
	return matches, nil
}
