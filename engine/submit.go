package engine

import (
	"time"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
)

// SubmitResult records one player's claimed outcome for a match.
//
// The first accepted submission moves the match to reported. Once both
// players have submitted and agree on the winner the match resolves and the
// winner advances; disagreeing submissions leave the match reported and
// eligible for a dispute. A player's repeat submission replaces their own
// earlier one, never the opponent's.
func (b *Bracket) SubmitResult(matchID uuid.UUID, participantID int, ownScore, opponentScore int, evidenceURL string) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.Voided {
		return nil, ErrMatchVoided
	}
	switch m.Status {
	case models.MatchStatusScheduled, models.MatchStatusInProgress, models.MatchStatusReported:
	default:
		return nil, ErrMatchNotJoinable
	}
	if !m.Ready() {
		// a slot is still TBD or a bye
		return nil, ErrMatchNotJoinable
	}
	if !m.HasParticipant(participantID) {
		return nil, ErrNotMatchParticipant
	}
	if ownScore == opponentScore {
		return nil, ErrScoreTie
	}

	sub := models.ResultSubmission{
		ID:            uuid.New(),
		MatchID:       m.ID,
		ParticipantID: participantID,
		OwnScore:      ownScore,
		OpponentScore: opponentScore,
		EvidenceURL:   evidenceURL,
		SubmittedAt:   time.Now(),
	}
	replaced := false
	for i := range m.Submissions {
		if m.Submissions[i].ParticipantID == participantID {
			sub.ID = m.Submissions[i].ID
			m.Submissions[i] = sub
			replaced = true
			break
		}
	}
	if !replaced {
		m.Submissions = append(m.Submissions, sub)
	}

	res := newResult()
	opponentID := *m.Opponent(participantID)
	theirs := m.SubmissionBy(opponentID)

	if theirs == nil {
		if m.Status != models.MatchStatusReported {
			m.Status = models.MatchStatusReported
		}
		res.touch(m)
		return res.snapshot(m, nil), nil
	}

	mine := m.SubmissionBy(participantID)
	claimed := mine.ClaimedWinner(opponentID)
	counterClaim := theirs.ClaimedWinner(participantID)
	if claimed != counterClaim {
		// conflicting claims: stay reported, eligible for dispute
		if m.Status != models.MatchStatusReported {
			m.Status = models.MatchStatusReported
		}
		res.touch(m)
		return res.snapshot(m, nil), nil
	}

	if err := b.resolveMatch(m, claimed, res); err != nil {
		return nil, err
	}
	return res.snapshot(m, nil), nil
}

// StartMatch marks a scheduled match as underway.
func (b *Bracket) StartMatch(matchID uuid.UUID) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.Status != models.MatchStatusScheduled {
		return nil, ErrMatchNotStartable
	}
	m.Status = models.MatchStatusInProgress

	res := newResult()
	res.touch(m)
	return res.snapshot(m, nil), nil
}

// ForceResolve resolves a match with an operator-chosen winner, the default
// path for forfeits and unresponsive opponents. Not allowed on matches under
// dispute (arbitration owns those) or already resolved.
func (b *Bracket) ForceResolve(matchID uuid.UUID, winnerParticipantID int) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.Voided {
		return nil, ErrMatchVoided
	}
	switch m.Status {
	case models.MatchStatusScheduled, models.MatchStatusInProgress, models.MatchStatusReported:
	default:
		return nil, ErrMatchNotJoinable
	}
	if !m.HasParticipant(winnerParticipantID) {
		return nil, ErrNotMatchParticipant
	}

	res := newResult()
	if err := b.resolveMatch(m, winnerParticipantID, res); err != nil {
		return nil, err
	}
	return res.snapshot(m, nil), nil
}
