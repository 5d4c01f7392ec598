package models

import "time"

// PaymentStatus tracks whether a registrant's entry fee settled. Only settled
// participants are eligible for bracket generation.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
)

type Participant struct {
	ID            int           `json:"id" db:"id"`
	UserID        int           `json:"user_id" db:"user_id"`
	TournamentID  int           `json:"tournament_id" db:"tournament_id"`
	GameTag       string        `json:"game_tag" db:"game_tag"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
