package game

import (
	"fmt"
	"time"

	"github.com/clickwar-arcade/clickwar/internal/app/stats"
	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// PlayerSummary is the public roster entry. Session ids are never listed.
type PlayerSummary struct {
	Name   string  `json:"name"`
	Clicks int64   `json:"clicks"`
	Coins  float64 `json:"coins"`
}

// StateView is the read-model served to polling clients.
type StateView struct {
	Players         map[domain.Team][]PlayerSummary `json:"players"` // active players only
	PlayerCounts    map[domain.Team]int             `json:"playerCounts"`
	Scores          domain.Scores                   `json:"scores"`
	Phase           domain.Phase                    `json:"phase"`
	Winner          *domain.Team                    `json:"winner"`
	WinThreshold    *float64                        `json:"winThreshold"`
	WarmupCountdown *int                            `json:"warmupCountdown,omitempty"`
	ResetCountdown  *int                            `json:"resetCountdown,omitempty"`
	TeamUpgrades    map[domain.Team][]string        `json:"teamUpgrades"`
}

// Scoreboard is the compact view for spectators.
type Scoreboard struct {
	Scores       domain.Scores `json:"scores"`
	Phase        domain.Phase  `json:"phase"`
	Winner       *domain.Team  `json:"winner"`
	WinThreshold *float64      `json:"winThreshold"`
	BarPosition  float64       `json:"barPosition"`
}

// PlayerView is a player's private view of themselves.
type PlayerView struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Team              domain.Team            `json:"team"`
	Clicks            int64                  `json:"clicks"`
	Coins             float64                `json:"coins"`
	Active            bool                   `json:"active"`
	PurchasedItems    []domain.PurchasedItem `json:"purchasedItems"`
	SelectedBuildPath string                 `json:"selectedBuildPath,omitempty"`
	Stats             stats.Stats            `json:"stats"`
}

// State returns the current read-model, applying any due transitions.
func (e *Engine) State() StateView {
	var view StateView
	_ = e.do(func(now time.Time) error {
		view = e.stateView(now)
		return nil
	})
	return view
}

// Scoreboard returns the spectator view.
func (e *Engine) Scoreboard() Scoreboard {
	var sb Scoreboard
	_ = e.do(func(now time.Time) error {
		st := e.st
		sb = Scoreboard{
			Scores:       st.scores,
			Phase:        st.phase,
			Winner:       e.winnerPtr(),
			WinThreshold: e.thresholdPtr(),
			BarPosition:  st.scores.BarPosition(),
		}
		return nil
	})
	return sb
}

// Player returns playerID's own view including the live stat breakdown.
func (e *Engine) Player(playerID string) (PlayerView, error) {
	var view PlayerView
	err := e.do(func(now time.Time) error {
		p, err := e.player(playerID)
		if err != nil {
			return err
		}
		view = PlayerView{
			ID:                p.ID,
			Name:              p.Name,
			Team:              p.Team,
			Clicks:            p.Clicks,
			Coins:             domain.RoundCoins(p.Coins),
			Active:            p.IsActive(now, e.cfg.IdleTimeout),
			PurchasedItems:    append([]domain.PurchasedItem{}, p.PurchasedItems...),
			SelectedBuildPath: p.SelectedBuildPath,
			Stats:             e.statsFor(p, now),
		}
		return nil
	})
	return view, err
}

func (e *Engine) stateView(now time.Time) StateView {
	st := e.st
	view := StateView{
		Players:      make(map[domain.Team][]PlayerSummary, len(domain.Teams)),
		PlayerCounts: make(map[domain.Team]int, len(domain.Teams)),
		Scores:       st.scores,
		Phase:        st.phase,
		Winner:       e.winnerPtr(),
		WinThreshold: e.thresholdPtr(),
		TeamUpgrades: make(map[domain.Team][]string, len(domain.Teams)),
	}
	for _, t := range domain.Teams {
		view.Players[t] = []PlayerSummary{}
		view.TeamUpgrades[t] = []string{}
		for _, up := range st.teamUpgrades[t] {
			view.TeamUpgrades[t] = append(view.TeamUpgrades[t], up.ItemID)
		}
	}
	for _, id := range st.order {
		p := st.players[id]
		view.PlayerCounts[p.Team]++
		if !p.IsActive(now, e.cfg.IdleTimeout) {
			continue
		}
		view.Players[p.Team] = append(view.Players[p.Team], PlayerSummary{
			Name:   p.Name,
			Clicks: p.Clicks,
			Coins:  domain.RoundCoins(p.Coins),
		})
	}
	if st.phase == domain.PhaseWarmup {
		secs := domain.CeilSeconds(e.cfg.WarmupDuration - now.Sub(st.warmupStart))
		view.WarmupCountdown = &secs
	}
	if secs, ok := e.resetCountdown(now); ok {
		view.ResetCountdown = &secs
	}
	return view
}

func (e *Engine) winnerPtr() *domain.Team {
	if e.st.phase != domain.PhaseEnded {
		return nil
	}
	w := e.st.winner
	return &w
}

func (e *Engine) thresholdPtr() *float64 {
	switch e.st.phase {
	case domain.PhaseActive, domain.PhaseEnded:
		v := e.st.winThreshold
		return &v
	}
	return nil
}

// String renders a one-line summary for logs and the CLI.
func (sb Scoreboard) String() string {
	s := fmt.Sprintf("%s  teamA %.0f : %.0f teamB", sb.Phase, sb.Scores.TeamA, sb.Scores.TeamB)
	if sb.WinThreshold != nil {
		s += fmt.Sprintf("  (first to %.0f)", *sb.WinThreshold)
	}
	if sb.Winner != nil {
		s += fmt.Sprintf("  winner=%s", *sb.Winner)
	}
	return s
}
