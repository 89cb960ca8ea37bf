package game

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// ─── Test helpers ───────────────────────────────────────────────────────────

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	events []domain.GameEvent
}

func (r *recorder) Publish(ev domain.GameEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) count(typ domain.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T) (*Engine, *manualClock) {
	t.Helper()
	clk := &manualClock{t: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}
	e := New(DefaultConfig())
	e.SetClock(clk.Now)
	seq := 0
	e.newID = func() string {
		seq++
		return fmt.Sprintf("player-%d", seq)
	}
	return e, clk
}

func mustJoin(t *testing.T, e *Engine, name string, team domain.Team) string {
	t.Helper()
	res, err := e.Join(name, team)
	if err != nil {
		t.Fatalf("Join(%q, %s): %v", name, team, err)
	}
	return res.PlayerID
}

// keepAlive advances the clock and heartbeats every listed player.
func keepAlive(t *testing.T, e *Engine, clk *manualClock, d time.Duration, ids ...string) {
	t.Helper()
	clk.Advance(d)
	for _, id := range ids {
		if err := e.Heartbeat(id); err != nil {
			t.Fatalf("Heartbeat(%s): %v", id, err)
		}
	}
}

// keepAliveFor runs the clock forward by d in steps of at most one second,
// heartbeating every listed player after each step.
func keepAliveFor(t *testing.T, e *Engine, clk *manualClock, d time.Duration, ids ...string) {
	t.Helper()
	for d > 0 {
		step := time.Second
		if d < step {
			step = d
		}
		keepAlive(t, e, clk, step, ids...)
		d -= step
	}
}

// startActive joins nA and nB players and runs the warmup out.
func startActive(t *testing.T, e *Engine, clk *manualClock, nA, nB int) (a, b []string) {
	t.Helper()
	for i := 0; i < nA; i++ {
		a = append(a, mustJoin(t, e, fmt.Sprintf("a%d", i), domain.TeamA))
	}
	for i := 0; i < nB; i++ {
		b = append(b, mustJoin(t, e, fmt.Sprintf("b%d", i), domain.TeamB))
	}
	keepAliveFor(t, e, clk, e.cfg.WarmupDuration, append(append([]string{}, a...), b...)...)
	if got := e.State().Phase; got != domain.PhaseActive {
		t.Fatalf("phase after warmup = %s, want active", got)
	}
	return a, b
}

func (e *Engine) setCoins(id string, coins float64) {
	e.mu.Lock()
	e.st.players[id].Coins = coins
	e.mu.Unlock()
}

func (e *Engine) setScores(s domain.Scores) {
	e.mu.Lock()
	e.st.scores = s
	e.mu.Unlock()
}

func (e *Engine) coins(id string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.players[id].Coins
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ─── Phase state machine ────────────────────────────────────────────────────

func TestJoin_WaitingToWarmup(t *testing.T) {
	e, _ := newTestEngine(t)

	res, err := e.Join("alice", domain.TeamA)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.PlayerID == "" {
		t.Fatal("expected player id")
	}
	if res.GameState.Phase != domain.PhaseWaiting {
		t.Errorf("phase = %s, want waiting", res.GameState.Phase)
	}

	res, err = e.Join("bob", domain.TeamB)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.GameState.Phase != domain.PhaseWarmup {
		t.Fatalf("phase = %s, want warmup", res.GameState.Phase)
	}
	if res.GameState.WarmupCountdown == nil || *res.GameState.WarmupCountdown != 30 {
		t.Errorf("WarmupCountdown = %v, want 30", res.GameState.WarmupCountdown)
	}
	if res.GameState.WinThreshold != nil {
		t.Errorf("WinThreshold should be nil during warmup, got %v", *res.GameState.WinThreshold)
	}
}

func TestJoin_Validation(t *testing.T) {
	e, _ := newTestEngine(t)

	tests := []struct {
		name    string
		player  string
		team    domain.Team
		wantErr error
	}{
		{"empty name", "", domain.TeamA, domain.ErrInvalidName},
		{"blank name", "   ", domain.TeamA, domain.ErrInvalidName},
		{"name too long", "abcdefghijklmnopqrstuvwxyz0123456789", domain.TeamA, domain.ErrInvalidName},
		{"bad team", "carol", domain.Team("teamC"), domain.ErrInvalidTeam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Join(tt.player, tt.team); !errors.Is(err, tt.wantErr) {
				t.Errorf("Join() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	counts := e.State().PlayerCounts
	if counts[domain.TeamA]+counts[domain.TeamB] != 0 {
		t.Errorf("rejected joins added players: %v", counts)
	}
}

func TestWarmup_ActivatesAfterDuration(t *testing.T) {
	e, clk := newTestEngine(t)
	a := mustJoin(t, e, "alice", domain.TeamA)
	b := mustJoin(t, e, "bob", domain.TeamB)

	keepAliveFor(t, e, clk, 29*time.Second+999*time.Millisecond, a, b)
	if got := e.State().Phase; got != domain.PhaseWarmup {
		t.Fatalf("phase at 29.999s = %s, want warmup", got)
	}

	clk.Advance(time.Millisecond)
	view := e.State()
	if view.Phase != domain.PhaseActive {
		t.Fatalf("phase at 30s = %s, want active", view.Phase)
	}
	if view.WarmupCountdown != nil {
		t.Error("WarmupCountdown should be cleared once active")
	}
}

func TestWinThreshold_LargerTeamTimes2000(t *testing.T) {
	e, clk := newTestEngine(t)
	startActive(t, e, clk, 3, 5)

	view := e.State()
	if view.WinThreshold == nil || *view.WinThreshold != 10000 {
		t.Fatalf("WinThreshold = %v, want 10000", view.WinThreshold)
	}
	if view.PlayerCounts[domain.TeamA] != 3 || view.PlayerCounts[domain.TeamB] != 5 {
		t.Errorf("PlayerCounts = %v", view.PlayerCounts)
	}
}

func TestJoin_BlockedOnceActiveOrEnded(t *testing.T) {
	e, clk := newTestEngine(t)
	startActive(t, e, clk, 1, 1)

	if _, err := e.Join("late", domain.TeamA); !errors.Is(err, domain.ErrJoinBlocked) {
		t.Fatalf("Join during active: err = %v, want ErrJoinBlocked", err)
	}

	e.setScores(domain.Scores{TeamB: 5000})
	if got := e.State().Phase; got != domain.PhaseEnded {
		t.Fatalf("phase = %s, want ended", got)
	}
	if _, err := e.Join("later", domain.TeamB); !errors.Is(err, domain.ErrJoinBlocked) {
		t.Fatalf("Join during ended: err = %v, want ErrJoinBlocked", err)
	}
	counts := e.State().PlayerCounts
	if counts[domain.TeamA] != 1 || counts[domain.TeamB] != 1 {
		t.Errorf("player set changed: %v", counts)
	}
}

func TestWin_TieGoesToTeamA(t *testing.T) {
	e, clk := newTestEngine(t)
	startActive(t, e, clk, 1, 1)

	e.setScores(domain.Scores{TeamA: 2000, TeamB: 2500})
	view := e.State()
	if view.Phase != domain.PhaseEnded {
		t.Fatalf("phase = %s, want ended", view.Phase)
	}
	if view.Winner == nil || *view.Winner != domain.TeamA {
		t.Errorf("Winner = %v, want teamA", view.Winner)
	}
}

func TestWin_ClickCrossesThreshold(t *testing.T) {
	e, clk := newTestEngine(t)
	a, _ := startActive(t, e, clk, 1, 1)
	rec := &recorder{}
	e.AddSink(rec)

	e.setScores(domain.Scores{TeamA: 1999.5})
	res, err := e.Click(a[0])
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if res.Phase != domain.PhaseEnded {
		t.Fatalf("phase after winning click = %s, want ended", res.Phase)
	}
	if rec.count(domain.EventMatchEnded) != 1 {
		t.Errorf("match_ended events = %d, want 1", rec.count(domain.EventMatchEnded))
	}

	// Scores are frozen after the match ends, clicks still count.
	res, _ = e.Click(a[0])
	if res.Scores.TeamA != 2000.5 {
		t.Errorf("score moved after end: %v", res.Scores.TeamA)
	}
	if res.Clicks != 2 {
		t.Errorf("Clicks = %d, want 2", res.Clicks)
	}
}

// ─── Clicks ─────────────────────────────────────────────────────────────────

func TestClick_MultipliersApplyToScoreAndCoins(t *testing.T) {
	e, clk := newTestEngine(t)
	a, _ := startActive(t, e, clk, 1, 1)

	e.setCoins(a[0], 100)
	if _, err := e.Purchase(a[0], "starter-boost"); err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	before := e.State().Scores.TeamA
	for i := 1; i <= 5; i++ {
		res, err := e.Click(a[0])
		if err != nil {
			t.Fatalf("Click: %v", err)
		}
		if res.Clicks != int64(i) {
			t.Errorf("Clicks = %d, want %d", res.Clicks, i)
		}
		if !almostEqual(res.Scores.TeamA, before+1.2*float64(i)) {
			t.Errorf("TeamA score = %v, want %v", res.Scores.TeamA, before+1.2*float64(i))
		}
		if !almostEqual(e.coins(a[0]), float64(i)) {
			t.Errorf("coins = %v, want %d", e.coins(a[0]), i)
		}
	}
}

func TestClick_UnknownPlayer(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.Click("ghost"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Errorf("Click(ghost) error = %v, want ErrPlayerNotFound", err)
	}
	if err := e.Heartbeat("ghost"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Errorf("Heartbeat(ghost) error = %v, want ErrPlayerNotFound", err)
	}
}

// ─── Passive income ─────────────────────────────────────────────────────────

func TestPassiveIncome_AccruesByWallClock(t *testing.T) {
	e, clk := newTestEngine(t)
	a, b := startActive(t, e, clk, 1, 1)

	e.setCoins(a[0], 300)
	if _, err := e.Purchase(a[0], "interest-i"); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	start := e.coins(a[0])

	clk.Advance(500 * time.Millisecond)
	e.State()
	if got := e.coins(a[0]); got != start {
		t.Errorf("coins after 0.5s = %v, want unchanged %v", got, start)
	}

	// One sparse read pays the whole gap.
	keepAlive(t, e, clk, 2500*time.Millisecond, b[0])
	if got := e.coins(a[0]); !almostEqual(got, start+3) {
		t.Errorf("coins after 3s = %v, want %v", got, start+3)
	}
	if e.coins(b[0]) != 0 {
		t.Errorf("player without income earned %v", e.coins(b[0]))
	}
}

func TestPassiveIncome_NotPaidDuringWarmup(t *testing.T) {
	e, clk := newTestEngine(t)
	a := mustJoin(t, e, "alice", domain.TeamA)
	b := mustJoin(t, e, "bob", domain.TeamB)
	e.mu.Lock()
	e.st.players[a].PurchasedItems = []domain.PurchasedItem{{ItemID: "interest-iii", PurchasedAt: clk.Now()}}
	e.mu.Unlock()

	keepAlive(t, e, clk, 4*time.Second, a, b)
	if got := e.coins(a); got != 0 {
		t.Errorf("coins during warmup = %v, want 0", got)
	}
}

// ─── Watchdog ───────────────────────────────────────────────────────────────

func TestWatchdog_IdlePlayerLeavesRoster(t *testing.T) {
	e, clk := newTestEngine(t)
	mustJoin(t, e, "alice", domain.TeamA)
	b := mustJoin(t, e, "bob", domain.TeamB)

	keepAlive(t, e, clk, 5*time.Second, b)
	view := e.State()
	if n := len(view.Players[domain.TeamA]); n != 0 {
		t.Errorf("active teamA players = %d, want 0", n)
	}
	if n := len(view.Players[domain.TeamB]); n != 1 {
		t.Errorf("active teamB players = %d, want 1", n)
	}
	if view.PlayerCounts[domain.TeamA] != 1 {
		t.Errorf("joined teamA players = %d, want 1", view.PlayerCounts[domain.TeamA])
	}
}

func TestWatchdog_ResetsAfterTeamEmptyFor15s(t *testing.T) {
	e, clk := newTestEngine(t)
	rec := &recorder{}
	e.AddSink(rec)
	mustJoin(t, e, "alice", domain.TeamA)
	b := mustJoin(t, e, "bob", domain.TeamB)

	keepAlive(t, e, clk, 6*time.Second, b) // teamA empty since t=5
	view := e.State()
	if view.ResetCountdown == nil || *view.ResetCountdown != 14 {
		t.Fatalf("ResetCountdown = %v, want 14", view.ResetCountdown)
	}

	keepAlive(t, e, clk, 10*time.Second, b)
	view = e.State()
	if view.ResetCountdown == nil || *view.ResetCountdown != 4 {
		t.Fatalf("ResetCountdown = %v, want 4", view.ResetCountdown)
	}

	clk.Advance(3*time.Second + 999*time.Millisecond)
	if e.State().Phase == domain.PhaseWaiting {
		t.Fatal("reset fired before teamA was empty for 15s")
	}

	clk.Advance(time.Millisecond)
	view = e.State()
	if view.Phase != domain.PhaseWaiting {
		t.Errorf("phase = %s, want waiting", view.Phase)
	}
	if view.PlayerCounts[domain.TeamA]+view.PlayerCounts[domain.TeamB] != 0 {
		t.Errorf("players survived reset: %v", view.PlayerCounts)
	}
	if rec.count(domain.EventGameReset) != 1 {
		t.Errorf("game_reset events = %d, want 1", rec.count(domain.EventGameReset))
	}
	if err := e.Heartbeat(b); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Errorf("Heartbeat after reset error = %v, want ErrPlayerNotFound", err)
	}
}

func TestWatchdog_ReturningPlayerClearsTimer(t *testing.T) {
	e, clk := newTestEngine(t)
	a := mustJoin(t, e, "alice", domain.TeamA)
	b := mustJoin(t, e, "bob", domain.TeamB)

	keepAlive(t, e, clk, 6*time.Second, b)
	if e.State().ResetCountdown == nil {
		t.Fatal("expected a reset countdown")
	}

	keepAlive(t, e, clk, 10*time.Second, a, b)
	if rc := e.State().ResetCountdown; rc != nil {
		t.Fatalf("ResetCountdown = %d, want nil after player returned", *rc)
	}

	// A fresh absence starts a fresh 15s window.
	keepAlive(t, e, clk, 6*time.Second, b)
	e.State()
	keepAlive(t, e, clk, 3*time.Second, b)
	if e.State().Phase == domain.PhaseWaiting {
		t.Error("game reset before the new 15s window elapsed")
	}
}

func TestWatchdog_SparseReadFiresOverdueReset(t *testing.T) {
	e, clk := newTestEngine(t)
	rec := &recorder{}
	e.AddSink(rec)
	startActive(t, e, clk, 1, 1)

	// Nobody reads for a minute; both teams went quiet 55s ago.
	clk.Advance(60 * time.Second)
	view := e.State()
	if view.Phase != domain.PhaseWaiting {
		t.Fatalf("phase = %s, want waiting", view.Phase)
	}
	if view.ResetCountdown != nil {
		t.Errorf("ResetCountdown = %d, want nil after reset", *view.ResetCountdown)
	}
	if rec.count(domain.EventGameReset) != 1 {
		t.Errorf("game_reset events = %d, want 1", rec.count(domain.EventGameReset))
	}
}

func TestWatchdog_CountdownAnchoredAtLastHeartbeat(t *testing.T) {
	e, clk := newTestEngine(t)
	a := mustJoin(t, e, "alice", domain.TeamA)
	b := mustJoin(t, e, "bob", domain.TeamB)
	keepAlive(t, e, clk, 2*time.Second, a, b)

	// Alice last beat at t=2, so teamA has been empty since t=7.
	keepAlive(t, e, clk, 3*time.Second, b)
	keepAlive(t, e, clk, 3*time.Second, b)
	keepAlive(t, e, clk, 3*time.Second, b)
	keepAlive(t, e, clk, 3*time.Second, b)
	view := e.State()
	if view.ResetCountdown == nil || *view.ResetCountdown != 8 {
		t.Fatalf("ResetCountdown = %v, want 8", view.ResetCountdown)
	}
}

func TestWatchdog_ReportsSmallerCountdown(t *testing.T) {
	e, clk := newTestEngine(t)
	a := mustJoin(t, e, "alice", domain.TeamA)
	mustJoin(t, e, "bob", domain.TeamB)

	keepAlive(t, e, clk, 5*time.Second, a) // teamB empty from t=5
	e.State()
	clk.Advance(6 * time.Second) // alice idles out, teamA empty from t=10

	view := e.State()
	// teamB has 15-6=9s left, teamA 15-1=14s.
	if view.ResetCountdown == nil || *view.ResetCountdown != 9 {
		t.Errorf("ResetCountdown = %v, want 9", view.ResetCountdown)
	}
}

// ─── Reset ──────────────────────────────────────────────────────────────────

func TestEvents_SequencedAcrossReset(t *testing.T) {
	e, clk := newTestEngine(t)
	rec := &recorder{}
	e.AddSink(rec)
	a, _ := startActive(t, e, clk, 1, 1)
	e.Click(a[0])
	e.Reset()
	mustJoin(t, e, "fresh", domain.TeamA)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) == 0 {
		t.Fatal("no events recorded")
	}
	for i, ev := range rec.events {
		if ev.Seq != uint64(i+1) {
			t.Errorf("events[%d] (%s).Seq = %d, want %d", i, ev.Type, ev.Seq, i+1)
		}
	}
}

func TestReset_Manual(t *testing.T) {
	e, clk := newTestEngine(t)
	a, _ := startActive(t, e, clk, 2, 2)
	e.Click(a[0])

	e.Reset()
	view := e.State()
	if view.Phase != domain.PhaseWaiting || view.Scores.Total() != 0 || view.WinThreshold != nil {
		t.Errorf("state after reset = %+v", view)
	}
	if _, err := e.Click(a[0]); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Errorf("old player still present after reset")
	}
	if _, err := e.Join("fresh", domain.TeamA); err != nil {
		t.Errorf("Join after reset: %v", err)
	}
}

func TestScoreboard_BarPosition(t *testing.T) {
	e, clk := newTestEngine(t)
	startActive(t, e, clk, 1, 1)

	if sb := e.Scoreboard(); sb.BarPosition != 0 {
		t.Errorf("BarPosition with no score = %v, want 0", sb.BarPosition)
	}
	e.setScores(domain.Scores{TeamA: 300, TeamB: 100})
	sb := e.Scoreboard()
	if !almostEqual(sb.BarPosition, 50) {
		t.Errorf("BarPosition = %v, want 50", sb.BarPosition)
	}
	if sb.WinThreshold == nil || *sb.WinThreshold != 2000 {
		t.Errorf("WinThreshold = %v, want 2000", sb.WinThreshold)
	}
}

func TestSelectBuildPath(t *testing.T) {
	e, _ := newTestEngine(t)
	a := mustJoin(t, e, "alice", domain.TeamA)

	if err := e.SelectBuildPath(a, "economist"); err != nil {
		t.Fatalf("SelectBuildPath: %v", err)
	}
	view, err := e.Player(a)
	if err != nil {
		t.Fatalf("Player: %v", err)
	}
	if view.SelectedBuildPath != "economist" {
		t.Errorf("SelectedBuildPath = %q, want economist", view.SelectedBuildPath)
	}
	if err := e.SelectBuildPath(a, "speedrun"); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("unknown path error = %v, want ErrPathNotFound", err)
	}
	if err := e.SelectBuildPath("ghost", "economist"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Errorf("unknown player error = %v, want ErrPlayerNotFound", err)
	}
}
