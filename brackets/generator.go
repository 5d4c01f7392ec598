package brackets

import (
	"context"
	"errors"

	"github.com/gamebay/tournament-engine/models"
)

var (
	ErrInvalidRosterSize  = errors.New("not enough participants to generate a bracket (minimum 2)")
	ErrUnsupportedFormat  = errors.New("unsupported bracket format")
	ErrRosterNotConfirmed = errors.New("roster contains participants without settled payment")
)

type GenerateBracketParams struct {
	Tournament *models.Tournament
	// Roster is the seed order. The generator never reorders it; shuffle
	// before calling if random seeding is wanted.
	Roster []*models.Participant
}

// BracketGenerator produces the full set of match records for one tournament.
// Matches come back as a flat arena addressed by uuid, with parent links
// (NextMatchID / WinnerToSlot) already wired.
type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*models.Match, error)

	GetName() string
}

// ForFormat returns the generator for a tournament format, or
// ErrUnsupportedFormat for formats without a progression implementation yet.
func ForFormat(format models.TournamentFormat) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}
