package models

type EventType string

const (
	EventBracketGenerated     EventType = "bracket.generated"
	EventMatchResolved        EventType = "match.resolved"
	EventDisputeOpened        EventType = "dispute.opened"
	EventDisputeResolved      EventType = "dispute.resolved"
	EventTournamentCompleted  EventType = "tournament.completed"
	EventTournamentRolledBack EventType = "tournament.rolled_back"
	EventPayoutPending        EventType = "payout.pending"
)

// Event is a best-effort domain notification broadcast to the tournament's
// websocket room after the state transition that produced it commits.
type Event struct {
	Type         EventType   `json:"type"`
	TournamentID int         `json:"tournament_id"`
	Payload      interface{} `json:"payload,omitempty"`
}
