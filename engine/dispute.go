package engine

import (
	"time"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
)

// FileDispute opens a dispute against a reported or resolved match. Policy:
// at least one evidence item, one open dispute per match at a time, and only
// a participant of the match may report.
func (b *Bracket) FileDispute(matchID uuid.UUID, reporterParticipantID int, reason string, evidence []string) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.Voided {
		return nil, ErrMatchVoided
	}
	if m.Status != models.MatchStatusReported && m.Status != models.MatchStatusResolved {
		return nil, ErrMatchNotDisputable
	}
	if !m.HasParticipant(reporterParticipantID) {
		return nil, ErrNotMatchParticipant
	}
	if len(evidence) == 0 {
		return nil, ErrEvidenceRequired
	}
	if b.openDispute(matchID) != nil {
		return nil, ErrDisputeAlreadyOpen
	}

	d := &models.Dispute{
		ID:                    uuid.New(),
		MatchID:               m.ID,
		TournamentID:          b.tournamentID,
		ReporterParticipantID: reporterParticipantID,
		Reason:                reason,
		Evidence:              append([]string(nil), evidence...),
		Status:                models.DisputeStatusOpen,
		CreatedAt:             time.Now(),
	}
	b.disputes[d.ID] = d
	m.Dispute = d
	m.Status = models.MatchStatusDisputed

	res := newResult()
	res.touch(m)
	res.touchDispute(d)
	res.emit(models.EventDisputeOpened, b.tournamentID, map[string]interface{}{
		"dispute_id":              d.ID,
		"match_id":                m.ID,
		"reporter_participant_id": reporterParticipantID,
	})
	return res.snapshot(m, d), nil
}

// ResolveDispute closes an open dispute with an authoritative outcome.
//
// reporter_upheld and reporter_denied resolve the match with the determined
// winner and re-run progression. When that winner differs from one already
// propagated, everything derived from the old winner is retracted first: each
// ancestor slot fed by the overturned lineage is cleared, the ancestors fall
// back toward scheduled/pending, and a completed tournament is rolled back to
// in-progress. match_voided strips the winner, retracts any propagation and
// leaves the match for manual re-seeding by the operator.
func (b *Bracket) ResolveDispute(disputeID uuid.UUID, outcome models.DisputeOutcome, beneficiaryParticipantID *int, adminUserID int, note string) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, ok := b.disputes[disputeID]
	if !ok {
		return nil, ErrDisputeNotFound
	}
	if d.Status != models.DisputeStatusOpen {
		return nil, ErrDisputeNotOpen
	}
	if !outcome.Valid() {
		return nil, ErrInvalidOutcome
	}
	m, ok := b.matches[d.MatchID]
	if !ok {
		return nil, ErrMatchNotFound
	}

	res := newResult()

	switch outcome {
	case models.OutcomeMatchVoided:
		if m.WinnerParticipant != nil {
			b.retract(m, res)
		}
		m.WinnerParticipant = nil
		m.Voided = true
		res.touch(m)

	case models.OutcomeReporterUpheld, models.OutcomeReporterDenied:
		var winnerID int
		if outcome == models.OutcomeReporterUpheld {
			winnerID = d.ReporterParticipantID
			if beneficiaryParticipantID != nil {
				winnerID = *beneficiaryParticipantID
			}
		} else {
			opponent := m.Opponent(d.ReporterParticipantID)
			if opponent == nil {
				return nil, ErrInvalidBeneficiary
			}
			winnerID = *opponent
		}
		if !m.HasParticipant(winnerID) {
			return nil, ErrInvalidBeneficiary
		}

		if m.WinnerParticipant != nil && *m.WinnerParticipant != winnerID {
			b.retract(m, res)
		}
		if m.WinnerParticipant != nil && *m.WinnerParticipant == winnerID {
			// prior result reaffirmed, nothing propagates
			m.Status = models.MatchStatusResolved
			res.touch(m)
		} else {
			m.WinnerParticipant = nil
			if err := b.resolveMatch(m, winnerID, res); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now()
	d.Status = models.DisputeStatusResolved
	d.Outcome = &outcome
	d.ResolvedByUserID = &adminUserID
	d.ResolvedAt = &now
	if note != "" {
		d.ResolutionNote = &note
	}
	res.touchDispute(d)
	res.emit(models.EventDisputeResolved, b.tournamentID, map[string]interface{}{
		"dispute_id": d.ID,
		"match_id":   m.ID,
		"outcome":    outcome,
	})
	return res.snapshot(m, d), nil
}

// retract undoes everything derived from m's current winner. It walks toward
// the root before clearing each ancestor, so the deepest propagation unwinds
// first. Must be called with the bracket lock held; m itself keeps its winner
// until the caller overwrites it.
func (b *Bracket) retract(m *models.Match, res *result) {
	if m.NextMatchID == nil {
		if b.completed {
			b.completed = false
			res.rolledBack = true
			res.emit(models.EventTournamentRolledBack, b.tournamentID, map[string]interface{}{
				"match_id": m.ID,
			})
		}
		return
	}

	parent, ok := b.matches[*m.NextMatchID]
	if !ok {
		return
	}
	slot := *m.WinnerToSlot
	if parent.SlotParticipant(slot) == nil {
		// nothing was propagated yet
		return
	}

	if parent.WinnerParticipant != nil {
		b.retract(parent, res)
	}

	// a dispute still open on the parent contests a pairing that no longer
	// exists; close it administratively so arbitration starts fresh
	if pd := b.openDispute(parent.ID); pd != nil {
		now := time.Now()
		note := "superseded by upstream arbitration"
		pd.Status = models.DisputeStatusResolved
		pd.ResolvedAt = &now
		pd.ResolutionNote = &note
		res.touchDispute(pd)
	}

	clearSlot(parent, slot)
	parent.WinnerParticipant = nil
	parent.Submissions = nil
	parent.Voided = false
	parent.Dispute = nil
	parent.Status = models.MatchStatusPending
	res.touch(parent)
}
