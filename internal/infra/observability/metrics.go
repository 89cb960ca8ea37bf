// Package observability exports game activity as Prometheus metrics.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/clickwar-arcade/clickwar/internal/domain"
	"github.com/clickwar-arcade/clickwar/internal/infra/catalog"
)

const namespace = "clickwar"

// phaseValue maps phases onto the clickwar_game_phase gauge.
var phaseValue = map[domain.Phase]float64{
	domain.PhaseWaiting: 0,
	domain.PhaseWarmup:  1,
	domain.PhaseActive:  2,
	domain.PhaseEnded:   3,
}

// GameMetrics is an event sink that keeps Prometheus series up to date.
// Each instance owns its collectors, so tests can use a fresh registry.
type GameMetrics struct {
	Clicks        *prometheus.CounterVec
	ScoreAdded    *prometheus.CounterVec
	Purchases     *prometheus.CounterVec
	SabotageDealt *prometheus.CounterVec
	CoinsStolen   *prometheus.CounterVec
	PlayersJoined *prometheus.CounterVec
	Players       *prometheus.GaugeVec
	Phase         prometheus.Gauge
	Matches       *prometheus.CounterVec
	MatchDuration prometheus.Histogram
	Resets        *prometheus.CounterVec

	mu       sync.Mutex
	phaseSeq uint64 // Seq of the event that last set Phase
}

// NewGameMetrics registers the game collectors with reg.
func NewGameMetrics(reg prometheus.Registerer) *GameMetrics {
	f := promauto.With(reg)
	return &GameMetrics{
		Clicks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "clicks_total",
			Help:      "Total scoring clicks by team.",
		}, []string{"team"}),
		ScoreAdded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "score_added_total",
			Help:      "Total score added by clicks, after multipliers.",
		}, []string{"team"}),
		Purchases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shop",
			Name:      "purchases_total",
			Help:      "Completed purchases by item and kind.",
		}, []string{"item", "kind"}),
		SabotageDealt: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shop",
			Name:      "sabotage_damage_total",
			Help:      "Enemy score removed by sabotage, by attacking team.",
		}, []string{"team"}),
		CoinsStolen: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shop",
			Name:      "coins_stolen_total",
			Help:      "Coins taken by heists, by attacking team.",
		}, []string{"team"}),
		PlayersJoined: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "players_joined_total",
			Help:      "Total players joined by team.",
		}, []string{"team"}),
		Players: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "players",
			Help:      "Players joined in the current match by team.",
		}, []string{"team"}),
		Phase: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "phase",
			Help:      "Current phase (0=waiting, 1=warmup, 2=active, 3=ended).",
		}),
		Matches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "matches_total",
			Help:      "Finished matches by winning team.",
		}, []string{"winner"}),
		MatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "match_duration_seconds",
			Help:      "Length of the active phase of finished matches.",
			Buckets:   []float64{30, 60, 120, 300, 600, 1200, 1800, 3600},
		}),
		Resets: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "resets_total",
			Help:      "Game resets by reason (manual, abandoned).",
		}, []string{"reason"}),
	}
}

// Publish implements domain.EventSink.
func (m *GameMetrics) Publish(ev domain.GameEvent) {
	m.setPhase(ev)
	team := string(ev.Team)

	switch ev.Type {
	case domain.EventPlayerJoined:
		m.PlayersJoined.WithLabelValues(team).Inc()
		m.Players.WithLabelValues(team).Inc()
	case domain.EventClick:
		m.Clicks.WithLabelValues(team).Inc()
		m.ScoreAdded.WithLabelValues(team).Add(ev.Amount)
	case domain.EventPurchase:
		kind := "unknown"
		if item := catalog.Lookup(ev.ItemID); item != nil {
			kind = string(item.Kind())
		}
		m.Purchases.WithLabelValues(ev.ItemID, kind).Inc()
		switch catalog.Kind(kind) {
		case catalog.KindSabotage:
			m.SabotageDealt.WithLabelValues(team).Add(ev.Amount)
		case catalog.KindHeist:
			m.CoinsStolen.WithLabelValues(team).Add(ev.Amount)
		}
	case domain.EventMatchEnded:
		m.Matches.WithLabelValues(string(ev.Winner)).Inc()
		if ev.Match != nil {
			m.MatchDuration.Observe(ev.Match.Duration().Seconds())
		}
	case domain.EventGameReset:
		m.Resets.WithLabelValues(ev.Reason).Inc()
		for _, t := range domain.Teams {
			m.Players.WithLabelValues(string(t)).Set(0)
		}
	}
}

// setPhase moves the phase gauge unless a later event already did.
func (m *GameMetrics) setPhase(ev domain.GameEvent) {
	v, ok := phaseValue[ev.Phase]
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.Seq < m.phaseSeq {
		return
	}
	m.phaseSeq = ev.Seq
	m.Phase.Set(v)
}
