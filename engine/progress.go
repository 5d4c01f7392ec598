package engine

import (
	"fmt"
	"sort"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
)

// Bootstrap auto-resolves every leaf match holding a bye. Called once, right
// after generation; bye winners cascade through the same advance path as
// played results, so a bracket can open with later rounds already populated.
func (b *Bracket) Bootstrap() (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := newResult()
	for _, id := range b.order {
		m := b.matches[id]
		if m.Status == models.MatchStatusResolved {
			continue
		}
		switch {
		case m.Slot1Bye && m.Slot2Bye:
			return nil, fmt.Errorf("%w: match %s pairs two byes", ErrIntegrity, m.ID)
		case m.Slot1Bye && m.Slot2ParticipantID != nil:
			if err := b.resolveMatch(m, *m.Slot2ParticipantID, res); err != nil {
				return nil, err
			}
		case m.Slot2Bye && m.Slot1ParticipantID != nil:
			if err := b.resolveMatch(m, *m.Slot1ParticipantID, res); err != nil {
				return nil, err
			}
		}
	}
	return res.snapshot(nil, nil), nil
}

// resolveMatch transitions a match to resolved with the given winner and
// advances the winner into the parent. Must be called with the bracket lock
// held. The status check-and-set under the lock guarantees a match resolves
// at most once even under concurrent submissions.
func (b *Bracket) resolveMatch(m *models.Match, winnerID int, res *result) error {
	if m.Status == models.MatchStatusResolved {
		return fmt.Errorf("%w: match %s is already resolved", ErrIntegrity, m.ID)
	}
	if !m.Status.CanTransitionTo(models.MatchStatusResolved) {
		return fmt.Errorf("%w: match %s cannot resolve from status %s", ErrIntegrity, m.ID, m.Status)
	}
	m.Status = models.MatchStatusResolved
	m.WinnerParticipant = &winnerID
	res.touch(m)
	res.emit(models.EventMatchResolved, b.tournamentID, map[string]interface{}{
		"match_id":              m.ID,
		"winner_participant_id": winnerID,
		"round":                 m.Round,
	})
	return b.advance(m, winnerID, res)
}

// advance writes the winner into the parent match's slot, or completes the
// tournament when the resolved match was the root. Idempotent: re-advancing
// the same winner into an already-written slot is a no-op, while a different
// winner is an integrity violation surfaced to the caller.
func (b *Bracket) advance(m *models.Match, winnerID int, res *result) error {
	if m.NextMatchID == nil {
		return b.finish(winnerID, res)
	}

	parent, ok := b.matches[*m.NextMatchID]
	if !ok {
		return fmt.Errorf("%w: match %s points at missing parent %s", ErrIntegrity, m.ID, *m.NextMatchID)
	}
	slot := *m.WinnerToSlot

	if cur := parent.SlotParticipant(slot); cur != nil {
		if *cur == winnerID {
			return nil
		}
		return fmt.Errorf("%w: match %s slot %d holds %d, advance wants %d: %w",
			ErrIntegrity, parent.ID, slot, *cur, winnerID, ErrSlotOccupied)
	}

	setSlot(parent, slot, winnerID)
	res.touch(parent)

	other := 3 - slot
	if !parent.SlotFilled(other) {
		return nil
	}
	if (other == 1 && parent.Slot1Bye) || (other == 2 && parent.Slot2Bye) {
		// cascading bye: the freshly advanced winner walks through
		return b.resolveMatch(parent, winnerID, res)
	}
	if parent.Status == models.MatchStatusPending {
		parent.Status = models.MatchStatusScheduled
	}
	return nil
}

// finish marks the bracket complete and computes final placements. No-op if
// completion was already recorded (replayed root advance).
func (b *Bracket) finish(winnerID int, res *result) error {
	if b.rootID == uuid.Nil {
		// league bracket: done once every match has a result
		if b.completed || !b.allFinished() {
			return nil
		}
		b.completed = true
		res.completed = true
		res.placements = b.leagueStandings()
	} else {
		if b.completed {
			return nil
		}
		b.completed = true
		res.completed = true
		res.placements = b.finalPlacements(winnerID)
	}
	res.emit(models.EventTournamentCompleted, b.tournamentID, map[string]interface{}{
		"winner_participant_id": winnerID,
		"placements":            res.placements,
	})
	return nil
}

// finalPlacements derives standings from the elimination tree: the root's
// winner takes 1st, the losing finalist 2nd, and the losers of the two
// semifinal matches share 3rd. Byes never place.
func (b *Bracket) finalPlacements(winnerID int) []Placement {
	root := b.matches[b.rootID]
	placements := []Placement{{ParticipantID: winnerID, Rank: 1}}
	if loser := loserOf(root, winnerID); loser != nil {
		placements = append(placements, Placement{ParticipantID: *loser, Rank: 2})
	}
	semis := append([]uuid.UUID(nil), b.children[b.rootID]...)
	sort.Slice(semis, func(i, j int) bool {
		return b.matches[semis[i]].OrderInRound < b.matches[semis[j]].OrderInRound
	})
	for _, id := range semis {
		semi := b.matches[id]
		if semi.WinnerParticipant == nil {
			continue
		}
		if loser := loserOf(semi, *semi.WinnerParticipant); loser != nil {
			placements = append(placements, Placement{ParticipantID: *loser, Rank: 3})
		}
	}
	return placements
}

// leagueStandings ranks participants of a round-robin bracket by win count,
// using standard competition ranking for ties.
func (b *Bracket) leagueStandings() []Placement {
	wins := make(map[int]int)
	for _, m := range b.matches {
		for _, pid := range []*int{m.Slot1ParticipantID, m.Slot2ParticipantID} {
			if pid != nil {
				if _, ok := wins[*pid]; !ok {
					wins[*pid] = 0
				}
			}
		}
		if m.Status == models.MatchStatusResolved && m.WinnerParticipant != nil && !m.Voided {
			wins[*m.WinnerParticipant]++
		}
	}

	ids := make([]int, 0, len(wins))
	for pid := range wins {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool {
		if wins[ids[i]] != wins[ids[j]] {
			return wins[ids[i]] > wins[ids[j]]
		}
		return ids[i] < ids[j]
	})

	placements := make([]Placement, 0, len(ids))
	for _, pid := range ids {
		rank := 1
		for _, other := range ids {
			if wins[other] > wins[pid] {
				rank++
			}
		}
		placements = append(placements, Placement{ParticipantID: pid, Rank: rank})
	}
	return placements
}

func loserOf(m *models.Match, winnerID int) *int {
	if m.Slot1ParticipantID != nil && *m.Slot1ParticipantID != winnerID {
		return m.Slot1ParticipantID
	}
	if m.Slot2ParticipantID != nil && *m.Slot2ParticipantID != winnerID {
		return m.Slot2ParticipantID
	}
	return nil
}

func setSlot(m *models.Match, slot int, participantID int) {
	if slot == 1 {
		m.Slot1ParticipantID = &participantID
	} else {
		m.Slot2ParticipantID = &participantID
	}
}

func clearSlot(m *models.Match, slot int) {
	if slot == 1 {
		m.Slot1ParticipantID = nil
	} else {
		m.Slot2ParticipantID = nil
	}
}
