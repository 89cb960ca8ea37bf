// Package domain contains pure game types with ZERO infrastructure imports.
// This is the innermost ring; the engine, transport and storage layers all
// depend on it, and it depends on nothing.
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ─── Teams ──────────────────────────────────────────────────────────────────

// Team identifies one of the two fixed sides of a match.
type Team string

const (
	TeamA Team = "teamA"
	TeamB Team = "teamB"
)

// Teams lists both sides in evaluation order. Win checks walk this slice,
// so teamA wins a same-tick tie.
var Teams = []Team{TeamA, TeamB}

// Valid reports whether t is one of the two known teams.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// ParseTeam validates a client-supplied team identifier.
func ParseTeam(s string) (Team, error) {
	t := Team(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTeam, s)
	}
	return t, nil
}

// ─── Phases ─────────────────────────────────────────────────────────────────

// Phase is the match lifecycle state. It only moves forward; a reset is the
// one way back to PhaseWaiting.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseWarmup  Phase = "warmup"
	PhaseActive  Phase = "active"
	PhaseEnded   Phase = "ended"
)

// AcceptsJoins reports whether new players may join during p.
func (p Phase) AcceptsJoins() bool {
	return p == PhaseWaiting || p == PhaseWarmup
}

// ShopVisible reports whether the shop lists items during p.
// Warmup shows the shop but purchases still require PhaseActive.
func (p Phase) ShopVisible() bool {
	return p == PhaseWarmup || p == PhaseActive
}

// ─── Scores ─────────────────────────────────────────────────────────────────

// Scores holds the running team totals. Both values stay >= 0.
type Scores struct {
	TeamA float64 `json:"teamA"`
	TeamB float64 `json:"teamB"`
}

// Of returns the score of team t.
func (s Scores) Of(t Team) float64 {
	if t == TeamA {
		return s.TeamA
	}
	return s.TeamB
}

// Set overwrites the score of team t, clamping at zero.
func (s *Scores) Set(t Team, v float64) {
	if v < 0 {
		v = 0
	}
	if t == TeamA {
		s.TeamA = v
	} else {
		s.TeamB = v
	}
}

// Add increases the score of team t by v.
func (s *Scores) Add(t Team, v float64) {
	s.Set(t, s.Of(t)+v)
}

// Total returns the combined score of both teams.
func (s Scores) Total() float64 {
	return s.TeamA + s.TeamB
}

// LosingMargin returns how far team t trails, as a fraction of the combined
// score. Zero when t is level or ahead, or when nobody has scored yet.
func (s Scores) LosingMargin(t Team) float64 {
	mine, theirs := s.Of(t), s.Of(t.Opponent())
	total := mine + theirs
	if total <= 0 || theirs <= mine {
		return 0
	}
	return (theirs - mine) / total
}

// WinningMargin mirrors LosingMargin for the leading side.
func (s Scores) WinningMargin(t Team) float64 {
	return s.LosingMargin(t.Opponent())
}

// BarPosition maps the score difference onto [-100, 100].
// Positive values mean teamA leads.
func (s Scores) BarPosition() float64 {
	total := s.Total()
	if total <= 0 {
		return 0
	}
	pos := (s.TeamA - s.TeamB) / total * 100
	return math.Max(-100, math.Min(100, pos))
}

// ─── Players ────────────────────────────────────────────────────────────────

// PurchasedItem records a permanent individual purchase.
type PurchasedItem struct {
	ItemID      string    `json:"itemId"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

// TeamUpgrade records a team-scoped purchase. It belongs to the team; the
// buyer only earns an amplified personal share of its bonus.
type TeamUpgrade struct {
	ItemID      string    `json:"itemId"`
	PurchasedAt time.Time `json:"purchasedAt"`
	PurchasedBy string    `json:"purchasedBy"`
}

// Player is an anonymous participant identified by a server-issued id.
type Player struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Team              Team            `json:"team"`
	Clicks            int64           `json:"clicks"`
	Coins             float64         `json:"coins"`
	JoinedAt          time.Time       `json:"joinedAt"`
	LastSeen          time.Time       `json:"lastSeen"`
	PurchasedItems    []PurchasedItem `json:"purchasedItems"`
	ConsumedItems     []string        `json:"consumedItems,omitempty"` // one-shot items ever bought
	SelectedBuildPath string          `json:"selectedBuildPath,omitempty"`
}

// Owns reports whether the player holds a permanent individual item.
func (p *Player) Owns(itemID string) bool {
	for _, it := range p.PurchasedItems {
		if it.ItemID == itemID {
			return true
		}
	}
	return false
}

// HasUsed reports whether the player has bought itemID in any form,
// permanent or one-shot.
func (p *Player) HasUsed(itemID string) bool {
	if p.Owns(itemID) {
		return true
	}
	for _, id := range p.ConsumedItems {
		if id == itemID {
			return true
		}
	}
	return false
}

// IsActive reports whether the player has been seen within idle.
func (p *Player) IsActive(now time.Time, idle time.Duration) bool {
	return now.Sub(p.LastSeen) < idle
}

// ─── Utilities ──────────────────────────────────────────────────────────────

// RoundCoins rounds a balance to the one decimal place clients display.
func RoundCoins(v float64) float64 {
	return math.Round(v*10) / 10
}

// CeilSeconds converts a remaining duration into whole countdown seconds.
func CeilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
