// Package game is the authoritative match engine: the phase state machine,
// clicks, shop transactions, passive income and the abandonment watchdog.
//
// There is no background ticker. Every public operation first applies the
// time-based effects that are due (phase transitions, passive income, the
// watchdog) and then acts, so the engine is fully driven by the injected
// clock and by incoming requests.
package game

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// state is one match worth of mutable data. A reset replaces it wholesale.
type state struct {
	players      map[string]*domain.Player
	order        []string // player ids in join order
	scores       domain.Scores
	phase        domain.Phase
	winner       domain.Team
	warmupStart  time.Time
	activeStart  time.Time
	winThreshold float64
	teamUpgrades map[domain.Team][]domain.TeamUpgrade
	lastPassive  time.Time
}

func newState() *state {
	return &state{
		players:      make(map[string]*domain.Player),
		phase:        domain.PhaseWaiting,
		teamUpgrades: make(map[domain.Team][]domain.TeamUpgrade),
	}
}

// teamSize counts joined players on t, regardless of liveness.
func (s *state) teamSize(t domain.Team) int {
	n := 0
	for _, p := range s.players {
		if p.Team == t {
			n++
		}
	}
	return n
}

// Engine owns the single game instance. All methods are safe for
// concurrent use; each one runs to completion under the engine lock.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	now     domain.Clock
	newID   func() string
	sinks   []domain.EventSink
	st      *state
	pending []domain.GameEvent
	seq     uint64
}

// New creates an engine in the waiting phase.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:   cfg.withDefaults(),
		now:   time.Now,
		newID: uuid.NewString,
		st:    newState(),
	}
}

// SetClock replaces the time source (tests use a manual clock).
func (e *Engine) SetClock(c domain.Clock) {
	e.mu.Lock()
	e.now = c
	e.mu.Unlock()
}

// AddSink registers an event consumer.
func (e *Engine) AddSink(s domain.EventSink) {
	e.mu.Lock()
	e.sinks = append(e.sinks, s)
	e.mu.Unlock()
}

// Config returns the effective rules.
func (e *Engine) Config() Config { return e.cfg }

// do runs fn under the lock after applying due time-based effects, then
// hands the collected events to the sinks outside the lock.
func (e *Engine) do(fn func(now time.Time) error) error {
	e.mu.Lock()
	now := e.now()
	e.advance(now)
	err := fn(now)
	events := e.pending
	e.pending = nil
	sinks := e.sinks
	e.mu.Unlock()

	for _, ev := range events {
		for _, s := range sinks {
			s.Publish(ev)
		}
	}
	return err
}

func (e *Engine) emit(ev domain.GameEvent) {
	e.seq++
	ev.Seq = e.seq
	ev.Phase = e.st.phase
	ev.Scores = e.st.scores
	e.pending = append(e.pending, ev)
}

// ─── Time-based effects ─────────────────────────────────────────────────────

// advance applies everything that became due since the last operation.
func (e *Engine) advance(now time.Time) {
	if e.watchdog(now) {
		e.reset(now, domain.ResetAbandoned)
		return
	}
	st := e.st
	if st.phase == domain.PhaseWarmup && now.Sub(st.warmupStart) >= e.cfg.WarmupDuration {
		e.startMatch(st.warmupStart.Add(e.cfg.WarmupDuration))
	}
	if st.phase == domain.PhaseActive {
		e.accruePassive(now)
		e.checkWin(now)
	}
}

// startMatch freezes the win threshold and opens the shop.
func (e *Engine) startMatch(at time.Time) {
	st := e.st
	larger := math.Max(float64(st.teamSize(domain.TeamA)), float64(st.teamSize(domain.TeamB)))
	st.winThreshold = larger * e.cfg.ThresholdPerPlayer
	st.phase = domain.PhaseActive
	st.activeStart = at
	st.lastPassive = at

	log.Printf("[engine] match active, threshold=%.0f", st.winThreshold)
	e.emit(domain.GameEvent{Type: domain.EventPhaseChanged, At: at})
}

// accruePassive pays every player for the wall-clock time since the last
// payout. Sparse reads pay several seconds at once; nothing is lost.
func (e *Engine) accruePassive(now time.Time) {
	st := e.st
	elapsed := now.Sub(st.lastPassive)
	if elapsed < e.cfg.PassiveInterval {
		return
	}
	for _, id := range st.order {
		p := st.players[id]
		rate := e.statsFor(p, now).PassiveIncomeRate
		if rate > 0 {
			p.Coins += rate * elapsed.Seconds()
		}
	}
	st.lastPassive = now
}

// checkWin ends the match once a team reaches the threshold. Teams are
// checked in domain.Teams order, so teamA takes a same-check tie.
func (e *Engine) checkWin(now time.Time) {
	st := e.st
	if st.phase != domain.PhaseActive {
		return
	}
	for _, t := range domain.Teams {
		if st.scores.Of(t) >= st.winThreshold {
			e.endMatch(t, now)
			return
		}
	}
}

func (e *Engine) endMatch(winner domain.Team, now time.Time) {
	st := e.st
	st.phase = domain.PhaseEnded
	st.winner = winner

	rec := &domain.MatchRecord{
		Winner:    winner,
		Scores:    st.scores,
		Threshold: st.winThreshold,
		PlayersA:  st.teamSize(domain.TeamA),
		PlayersB:  st.teamSize(domain.TeamB),
		StartedAt: st.activeStart,
		EndedAt:   now,
	}
	log.Printf("[engine] match ended, winner=%s score=%.0f-%.0f", winner, st.scores.TeamA, st.scores.TeamB)
	e.emit(domain.GameEvent{Type: domain.EventPhaseChanged, At: now})
	e.emit(domain.GameEvent{Type: domain.EventMatchEnded, At: now, Winner: winner, Match: rec})
}

// watchdog reports whether a team has been deserted for at least the
// reset window. The window is measured from the moment the team actually
// lost its last active player, so a single late read still fires an
// overdue reset.
func (e *Engine) watchdog(now time.Time) bool {
	for _, t := range domain.Teams {
		at, ok := e.desertedAt(t, now)
		if ok && now.Sub(at) >= e.cfg.EmptyTeamReset {
			return true
		}
	}
	return false
}

// desertedAt returns when t went without an active player: its most recent
// heartbeat plus the idle timeout. ok is false when nobody has joined t or
// someone on t is still active.
func (e *Engine) desertedAt(t domain.Team, now time.Time) (time.Time, bool) {
	var last time.Time
	joined := 0
	for _, p := range e.st.players {
		if p.Team != t {
			continue
		}
		joined++
		if p.LastSeen.After(last) {
			last = p.LastSeen
		}
	}
	if joined == 0 {
		return time.Time{}, false
	}
	at := last.Add(e.cfg.IdleTimeout)
	if now.Before(at) {
		return time.Time{}, false
	}
	return at, true
}

// resetCountdown returns whole seconds until the watchdog fires, taking the
// smaller countdown when both teams are deserted.
func (e *Engine) resetCountdown(now time.Time) (int, bool) {
	best, found := 0, false
	for _, t := range domain.Teams {
		at, ok := e.desertedAt(t, now)
		if !ok {
			continue
		}
		secs := domain.CeilSeconds(e.cfg.EmptyTeamReset - now.Sub(at))
		if !found || secs < best {
			best, found = secs, true
		}
	}
	return best, found
}

func (e *Engine) reset(now time.Time, reason string) {
	e.st = newState()
	log.Printf("[engine] game reset (%s)", reason)
	e.emit(domain.GameEvent{Type: domain.EventGameReset, At: now, Reason: reason})
}

// Reset discards every player and returns the game to the waiting phase.
func (e *Engine) Reset() {
	_ = e.do(func(now time.Time) error {
		e.reset(now, domain.ResetManual)
		return nil
	})
}
