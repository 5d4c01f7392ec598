package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
)

// Bracket is the in-memory arena for one tournament: a flat map of match
// records plus the reverse child index the retraction cascade needs. All
// mutating operations serialize on the bracket's mutex, so every write to a
// match or any of its ancestors happens under a single writer per tournament.
type Bracket struct {
	tournamentID int

	mu       sync.Mutex
	matches  map[uuid.UUID]*models.Match
	order    []uuid.UUID
	children map[uuid.UUID][]uuid.UUID
	disputes map[uuid.UUID]*models.Dispute

	// rootID is uuid.Nil for league brackets (round robin), which have no
	// progression links and complete when every match resolves.
	rootID    uuid.UUID
	completed bool
}

// NewBracket indexes the match arena and validates its shape. For elimination
// brackets exactly one match may lack a parent link, and every non-leaf node
// must be fed by exactly two children.
func NewBracket(tournamentID int, matches []*models.Match, disputes []*models.Dispute) (*Bracket, error) {
	b := &Bracket{
		tournamentID: tournamentID,
		matches:      make(map[uuid.UUID]*models.Match, len(matches)),
		children:     make(map[uuid.UUID][]uuid.UUID),
		disputes:     make(map[uuid.UUID]*models.Dispute),
	}

	var roots []uuid.UUID
	for _, m := range matches {
		if _, exists := b.matches[m.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate match id %s", ErrIntegrity, m.ID)
		}
		b.matches[m.ID] = m
		b.order = append(b.order, m.ID)
		if m.NextMatchID == nil {
			roots = append(roots, m.ID)
		}
	}
	sort.Slice(b.order, func(i, j int) bool {
		a, c := b.matches[b.order[i]], b.matches[b.order[j]]
		if a.Round != c.Round {
			return a.Round < c.Round
		}
		return a.OrderInRound < c.OrderInRound
	})

	for _, m := range b.matches {
		if m.NextMatchID == nil {
			continue
		}
		parent, ok := b.matches[*m.NextMatchID]
		if !ok {
			return nil, fmt.Errorf("%w: match %s points at missing parent %s", ErrIntegrity, m.ID, *m.NextMatchID)
		}
		if m.WinnerToSlot == nil || (*m.WinnerToSlot != 1 && *m.WinnerToSlot != 2) {
			return nil, fmt.Errorf("%w: match %s has no valid parent slot", ErrIntegrity, m.ID)
		}
		b.children[parent.ID] = append(b.children[parent.ID], m.ID)
	}

	switch {
	case len(roots) == 1:
		b.rootID = roots[0]
		for id, kids := range b.children {
			if len(kids) != 2 {
				return nil, fmt.Errorf("%w: internal match %s has %d children, want 2", ErrIntegrity, id, len(kids))
			}
		}
		root := b.matches[b.rootID]
		b.completed = root.Status == models.MatchStatusResolved && root.WinnerParticipant != nil
	case len(roots) == len(matches):
		// league bracket: no links at all
		b.rootID = uuid.Nil
		b.completed = b.allFinished()
	default:
		return nil, fmt.Errorf("%w: bracket has %d unlinked matches out of %d", ErrIntegrity, len(roots), len(matches))
	}

	for _, d := range disputes {
		b.disputes[d.ID] = d
		if m, ok := b.matches[d.MatchID]; ok {
			if d.Status == models.DisputeStatusOpen || m.Dispute == nil {
				m.Dispute = d
			}
		}
	}

	return b, nil
}

func (b *Bracket) TournamentID() int { return b.tournamentID }

// Completed reports whether the bracket has produced final placements.
func (b *Bracket) Completed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.completed
}

// Matches returns copies of every match in round/order position.
func (b *Bracket) Matches() []*models.Match {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*models.Match, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, copyMatch(b.matches[id]))
	}
	return out
}

// Match returns a copy of one match.
func (b *Bracket) Match(id uuid.UUID) (*models.Match, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (b *Bracket) allFinished() bool {
	for _, m := range b.matches {
		if m.Status != models.MatchStatusResolved && !m.Voided {
			return false
		}
	}
	return true
}

func (b *Bracket) openDispute(matchID uuid.UUID) *models.Dispute {
	for _, d := range b.disputes {
		if d.MatchID == matchID && d.Status == models.DisputeStatusOpen {
			return d
		}
	}
	return nil
}

func copyMatch(m *models.Match) *models.Match {
	cp := *m
	if m.Submissions != nil {
		cp.Submissions = make([]models.ResultSubmission, len(m.Submissions))
		copy(cp.Submissions, m.Submissions)
	}
	if m.Dispute != nil {
		d := *m.Dispute
		cp.Dispute = &d
	}
	return &cp
}

func copyDispute(d *models.Dispute) *models.Dispute {
	cp := *d
	if d.Evidence != nil {
		cp.Evidence = append([]string(nil), d.Evidence...)
	}
	return &cp
}

// Registry keeps live brackets by tournament so request handlers share one
// arena (and therefore one lock) per tournament.
type Registry struct {
	mu       sync.RWMutex
	brackets map[int]*Bracket
}

func NewRegistry() *Registry {
	return &Registry{brackets: make(map[int]*Bracket)}
}

func (r *Registry) Get(tournamentID int) (*Bracket, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.brackets[tournamentID]
	return b, ok
}

func (r *Registry) Put(b *Bracket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brackets[b.tournamentID] = b
}

// LoadOrStore returns the already-registered bracket if one exists, so two
// concurrent loads of the same tournament converge on a single arena.
func (r *Registry) LoadOrStore(b *Bracket) *Bracket {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.brackets[b.tournamentID]; ok {
		return existing
	}
	r.brackets[b.tournamentID] = b
	return b
}

func (r *Registry) Remove(tournamentID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.brackets, tournamentID)
}
