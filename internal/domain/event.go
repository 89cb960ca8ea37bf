package domain

import "time"

// ─── Game Events ────────────────────────────────────────────────────────────
// Emitted by the engine for the live feed, metrics, NATS fan-out and the
// match archive.

// EventType names a game event.
type EventType string

const (
	EventPlayerJoined EventType = "player_joined"
	EventClick        EventType = "click"
	EventPurchase     EventType = "purchase"
	EventPhaseChanged EventType = "phase_changed"
	EventMatchEnded   EventType = "match_ended"
	EventGameReset    EventType = "game_reset"
)

// Reset reasons.
const (
	ResetManual    = "manual"
	ResetAbandoned = "abandoned"
)

// GameEvent is a single state change worth telling the outside world about.
// Seq increases by one per event for the lifetime of the engine, across
// resets; sinks run outside the engine lock and may see events out of order.
type GameEvent struct {
	Seq      uint64       `json:"seq"`
	Type     EventType    `json:"type"`
	At       time.Time    `json:"at"`
	Phase    Phase        `json:"phase"`
	Scores   Scores       `json:"scores"`
	Team     Team         `json:"team,omitempty"`
	PlayerID string       `json:"playerId,omitempty"`
	ItemID   string       `json:"itemId,omitempty"`
	Amount   float64      `json:"amount,omitempty"` // score added, damage dealt, coins stolen
	Winner   Team         `json:"winner,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Match    *MatchRecord `json:"match,omitempty"`
}

// MatchRecord summarises a finished match for the history archive.
type MatchRecord struct {
	ID        int64     `json:"id,omitempty"`
	Winner    Team      `json:"winner"`
	Scores    Scores    `json:"scores"`
	Threshold float64   `json:"threshold"`
	PlayersA  int       `json:"playersA"`
	PlayersB  int       `json:"playersB"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

// Duration returns how long the active phase lasted.
func (m MatchRecord) Duration() time.Duration {
	return m.EndedAt.Sub(m.StartedAt)
}
