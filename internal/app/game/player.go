package game

import (
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/clickwar-arcade/clickwar/internal/app/stats"
	"github.com/clickwar-arcade/clickwar/internal/domain"
	"github.com/clickwar-arcade/clickwar/internal/infra/catalog"
)

// JoinResult is returned to a newly joined player.
type JoinResult struct {
	PlayerID  string    `json:"playerId"`
	GameState StateView `json:"gameState"`
}

// ClickResult is returned after a successful click.
type ClickResult struct {
	Scores domain.Scores `json:"scores"`
	Coins  float64       `json:"coins"`
	Clicks int64         `json:"clicks"`
	Stats  stats.Stats   `json:"stats"`
	Phase  domain.Phase  `json:"phase"`
}

// statsFor computes p's stats against the current match state.
func (e *Engine) statsFor(p *domain.Player, now time.Time) stats.Stats {
	return stats.Compute(p, e.st.teamUpgrades[p.Team], e.st.scores, now)
}

func (e *Engine) player(id string) (*domain.Player, error) {
	p, ok := e.st.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, id)
	}
	return p, nil
}

// Join adds a player to team. Joining is only possible before the match
// starts; once both teams have a player the warmup countdown begins.
func (e *Engine) Join(name string, team domain.Team) (JoinResult, error) {
	var res JoinResult
	err := e.do(func(now time.Time) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return domain.ErrInvalidName
		}
		if utf8.RuneCountInString(name) > e.cfg.MaxNameLength {
			return fmt.Errorf("%w: at most %d characters", domain.ErrInvalidName, e.cfg.MaxNameLength)
		}
		if !team.Valid() {
			return domain.ErrInvalidTeam
		}
		st := e.st
		if !st.phase.AcceptsJoins() {
			return domain.ErrJoinBlocked
		}

		p := &domain.Player{
			ID:       e.newID(),
			Name:     name,
			Team:     team,
			JoinedAt: now,
			LastSeen: now,
		}
		st.players[p.ID] = p
		st.order = append(st.order, p.ID)
		e.emit(domain.GameEvent{Type: domain.EventPlayerJoined, At: now, Team: team, PlayerID: p.ID})

		if st.phase == domain.PhaseWaiting && st.teamSize(domain.TeamA) > 0 && st.teamSize(domain.TeamB) > 0 {
			st.phase = domain.PhaseWarmup
			st.warmupStart = now
			log.Printf("[engine] both teams present, warmup started")
			e.emit(domain.GameEvent{Type: domain.EventPhaseChanged, At: now})
		}

		res = JoinResult{PlayerID: p.ID, GameState: e.stateView(now)}
		return nil
	})
	return res, err
}

// Click registers one click. The raw click count always grows by one; the
// team score grows by the click multiplier and the player's coins by the
// coin multiplier. Scores are frozen once the match has ended.
func (e *Engine) Click(playerID string) (ClickResult, error) {
	var res ClickResult
	err := e.do(func(now time.Time) error {
		p, err := e.player(playerID)
		if err != nil {
			return err
		}
		st := e.st
		s := e.statsFor(p, now)

		p.Clicks++
		p.LastSeen = now
		if st.phase != domain.PhaseEnded {
			p.Coins += 1 * s.CoinMultiplier
			st.scores.Add(p.Team, 1*s.ClickMultiplier)
			e.emit(domain.GameEvent{Type: domain.EventClick, At: now, Team: p.Team, PlayerID: p.ID, Amount: s.ClickMultiplier})
			e.checkWin(now)
		}

		res = ClickResult{
			Scores: st.scores,
			Coins:  domain.RoundCoins(p.Coins),
			Clicks: p.Clicks,
			Stats:  s,
			Phase:  st.phase,
		}
		return nil
	})
	return res, err
}

// Heartbeat marks the player as still connected.
func (e *Engine) Heartbeat(playerID string) error {
	return e.do(func(now time.Time) error {
		p, err := e.player(playerID)
		if err != nil {
			return err
		}
		p.LastSeen = now
		return nil
	})
}

// SelectBuildPath records the player's advisory build path.
func (e *Engine) SelectBuildPath(playerID, pathID string) error {
	return e.do(func(now time.Time) error {
		p, err := e.player(playerID)
		if err != nil {
			return err
		}
		if catalog.LookupPath(pathID) == nil {
			return fmt.Errorf("%w: %s", domain.ErrPathNotFound, pathID)
		}
		p.SelectedBuildPath = pathID
		return nil
	})
}
