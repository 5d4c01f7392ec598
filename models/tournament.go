package models

import (
	"encoding/json"
	"time"
)

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	StatusUpcoming           TournamentStatus = "upcoming"
	StatusRegistrationOpen   TournamentStatus = "registration_open"
	StatusRegistrationClosed TournamentStatus = "registration_closed"
	StatusInProgress         TournamentStatus = "in_progress"
	StatusCompleted          TournamentStatus = "completed"
	StatusCanceled           TournamentStatus = "canceled"
)

// tournamentTransitions is the allowed status graph. Completed tournaments may
// move back to in_progress when an arbitration overturn unwinds the final.
var tournamentTransitions = map[TournamentStatus][]TournamentStatus{
	StatusUpcoming:           {StatusRegistrationOpen, StatusCanceled},
	StatusRegistrationOpen:   {StatusRegistrationClosed, StatusCanceled},
	StatusRegistrationClosed: {StatusInProgress, StatusRegistrationOpen, StatusCanceled},
	StatusInProgress:         {StatusCompleted, StatusCanceled},
	StatusCompleted:          {StatusInProgress},
	StatusCanceled:           {},
}

func (s TournamentStatus) CanTransitionTo(next TournamentStatus) bool {
	for _, allowed := range tournamentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusRegistrationOpen, StatusRegistrationClosed,
		StatusInProgress, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatBattleRoyale      TournamentFormat = "battle_royale"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin, FormatBattleRoyale:
		return true
	}
	return false
}

type Tournament struct {
	ID                 int              `json:"id" db:"id"`
	Name               string           `json:"name" db:"name"`
	Description        *string          `json:"description,omitempty" db:"description"`
	Format             TournamentFormat `json:"format" db:"format"`
	OrganizerID        int              `json:"organizer_id" db:"organizer_id"`
	RegOpenDate        time.Time        `json:"reg_open_date" db:"reg_open_date"`
	RegCloseDate       time.Time        `json:"reg_close_date" db:"reg_close_date"`
	StartDate          time.Time        `json:"start_date" db:"start_date"`
	Status             TournamentStatus `json:"status" db:"status"`
	MaxParticipants    int              `json:"max_participants" db:"max_participants"`
	PrizePool          int64            `json:"prize_pool" db:"prize_pool"` // minor currency units
	PrizeSharesJSON    *string          `json:"-" db:"prize_shares"`
	WinnerParticipant  *int             `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	BracketGeneratedAt *time.Time       `json:"bracket_generated_at,omitempty" db:"bracket_generated_at"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`

	// Related entities, loaded on demand.
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
	Disputes     []Dispute     `json:"disputes,omitempty" db:"-"`
}

// DefaultPrizeShares is the percent of the prize pool per placement rank,
// starting at 1st, used when a tournament has no explicit distribution.
var DefaultPrizeShares = []int{60, 30, 10}

// PrizeShares returns the configured per-rank percentages, falling back to the
// default split when the column is empty or malformed.
func (t *Tournament) PrizeShares() []int {
	if t.PrizeSharesJSON == nil || *t.PrizeSharesJSON == "" {
		return DefaultPrizeShares
	}
	var shares []int
	if err := json.Unmarshal([]byte(*t.PrizeSharesJSON), &shares); err != nil || len(shares) == 0 {
		return DefaultPrizeShares
	}
	return shares
}
