package engine

import (
	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
)

// Placement is one row of the final standings.
type Placement struct {
	ParticipantID int `json:"participant_id"`
	Rank          int `json:"rank"`
}

// Result describes everything one engine operation changed, so the caller can
// persist the mutation and publish events after it commits. All match and
// dispute values are copies detached from the arena.
type Result struct {
	// Match is the operation's primary match after the mutation.
	Match *models.Match
	// Updated holds every match whose stored fields changed, Match included.
	Updated []*models.Match
	// Dispute is the operation's primary dispute, if any.
	Dispute *models.Dispute
	// Disputes holds every dispute touched, including stale open disputes
	// administratively closed by a retraction cascade.
	Disputes []*models.Dispute
	Events   []models.Event

	// Completed is set when this operation resolved the bracket's final
	// match; Placements then carries the standings to seed payouts from.
	Completed  bool
	Placements []Placement
	// RolledBack is set when a retraction unwound an already-completed
	// bracket; previously seeded payouts must be superseded.
	RolledBack bool
}

// result accumulates mutations against live arena records during an
// operation; snapshot detaches it into a Result.
type result struct {
	touched  map[uuid.UUID]*models.Match
	disputes map[uuid.UUID]*models.Dispute
	events   []models.Event

	completed  bool
	rolledBack bool
	placements []Placement
}

func newResult() *result {
	return &result{
		touched:  make(map[uuid.UUID]*models.Match),
		disputes: make(map[uuid.UUID]*models.Dispute),
	}
}

func (r *result) touch(m *models.Match) {
	r.touched[m.ID] = m
}

func (r *result) touchDispute(d *models.Dispute) {
	r.disputes[d.ID] = d
}

func (r *result) emit(eventType models.EventType, tournamentID int, payload interface{}) {
	r.events = append(r.events, models.Event{
		Type:         eventType,
		TournamentID: tournamentID,
		Payload:      payload,
	})
}

func (r *result) snapshot(primaryMatch *models.Match, primaryDispute *models.Dispute) *Result {
	out := &Result{
		Events:     r.events,
		Completed:  r.completed,
		RolledBack: r.rolledBack,
		Placements: r.placements,
	}
	for _, m := range r.touched {
		out.Updated = append(out.Updated, copyMatch(m))
	}
	for _, d := range r.disputes {
		out.Disputes = append(out.Disputes, copyDispute(d))
	}
	if primaryMatch != nil {
		out.Match = copyMatch(primaryMatch)
	}
	if primaryDispute != nil {
		out.Dispute = copyDispute(primaryDispute)
	}
	return out
}
