// Package catalog holds the static shop tables: every purchasable item and
// the advisory build paths. The data is read-only and looked up by id.
package catalog

import (
	"encoding/json"
	"time"

	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// ─── Effects ────────────────────────────────────────────────────────────────
// Each item carries exactly one Effect. The set of variants is closed so the
// purchase dispatch and the stat aggregator can switch over it exhaustively.

// Effect is the sealed union of item effects.
type Effect interface {
	isEffect()
}

// StatBoost raises the personal click and/or coin multiplier.
// Zero means "no change" for that stat.
type StatBoost struct {
	ClickMultiplier float64
	CoinMultiplier  float64
}

// PassiveIncome grants coins per second while the game is active.
type PassiveIncome struct {
	PerSecond float64
}

// Synergy amplifies the bonus portion of the personal multipliers.
type Synergy struct {
	Factor float64
}

// CompoundGrowth multiplies passive income by Rate for every full Period
// the item has been held.
type CompoundGrowth struct {
	Rate   float64
	Period time.Duration
}

// TeamAura adds a bonus to every teammate's team multiplier. The buyer's own
// share is scaled by BuyerBonusMultiplier.
type TeamAura struct {
	ClickBonus           float64
	CoinBonus            float64
	BuyerBonusMultiplier float64
}

// InstantDamage removes a fraction of the enemy team's score.
type InstantDamage struct {
	Fraction float64
}

// InstantSteal moves coins from the richest enemy player to the buyer.
type InstantSteal struct {
	Amount float64
}

func (StatBoost) isEffect()      {}
func (PassiveIncome) isEffect()  {}
func (Synergy) isEffect()        {}
func (CompoundGrowth) isEffect() {}
func (TeamAura) isEffect()       {}
func (InstantDamage) isEffect()  {}
func (InstantSteal) isEffect()   {}

// ─── Conditions ─────────────────────────────────────────────────────────────

// Condition gates an item on the current score margin.
type Condition struct {
	OnlyWhenLosing   bool
	LosingThreshold  float64
	OnlyWhenWinning  bool
	WinningThreshold float64
}

// Conditional reports whether any gate is set.
func (c Condition) Conditional() bool {
	return c.OnlyWhenLosing || c.OnlyWhenWinning
}

// Met reports whether team currently satisfies the condition, for stat
// aggregation. A losing gate with no threshold is met by any deficit.
// Winning gates are never met: the comeback mechanic only defines the
// losing side, and no winning margin rule has been agreed.
func (c Condition) Met(scores domain.Scores, team domain.Team) bool {
	if c.OnlyWhenWinning {
		return false
	}
	if c.OnlyWhenLosing {
		m := scores.LosingMargin(team)
		return m > 0 && m >= c.LosingThreshold
	}
	return true
}

// Offered reports whether the shop should list a conditional item to team.
// Unlike Met, a losing gate without a threshold is never offered.
func (c Condition) Offered(scores domain.Scores, team domain.Team) bool {
	if c.OnlyWhenLosing && c.LosingThreshold <= 0 {
		return false
	}
	return c.Met(scores, team)
}

// ─── Items ──────────────────────────────────────────────────────────────────

// PurchaseType says who owns the purchase.
type PurchaseType string

const (
	PurchaseIndividual PurchaseType = "individual"
	PurchaseTeam       PurchaseType = "team"
)

// Kind selects the purchase mutation path.
type Kind string

const (
	KindPermanent Kind = "permanent" // appended to the buyer's items
	KindTeam      Kind = "team"      // appended to the team's upgrades
	KindSabotage  Kind = "sabotage"  // one-shot enemy score damage
	KindHeist     Kind = "heist"     // one-shot coin theft
)

// Item is one shop entry.
type Item struct {
	ID             string
	Name           string
	Description    string
	Icon           string
	Category       string
	Cost           float64
	Effect         Effect
	Condition      Condition
	RecommendAfter []string // visible once any of these is owned
	BuildPath      string
	Tier           int
}

// PurchaseType derives ownership from the effect.
func (it Item) PurchaseType() PurchaseType {
	if _, ok := it.Effect.(TeamAura); ok {
		return PurchaseTeam
	}
	return PurchaseIndividual
}

// Kind classifies the item for the purchase dispatch.
func (it Item) Kind() Kind {
	switch it.Effect.(type) {
	case TeamAura:
		return KindTeam
	case InstantDamage:
		return KindSabotage
	case InstantSteal:
		return KindHeist
	default:
		return KindPermanent
	}
}

// MarshalJSON flattens the effect into the optional fields clients expect.
func (it Item) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID                   string   `json:"id"`
		Name                 string   `json:"name"`
		Description          string   `json:"description"`
		Icon                 string   `json:"icon"`
		Category             string   `json:"category"`
		PurchaseType         string   `json:"purchaseType"`
		Kind                 string   `json:"kind"`
		Cost                 float64  `json:"cost"`
		ClickMultiplier      float64  `json:"clickMultiplier,omitempty"`
		CoinMultiplier       float64  `json:"coinMultiplier,omitempty"`
		PassiveIncome        float64  `json:"passiveIncome,omitempty"`
		TeamClickBonus       float64  `json:"teamClickBonus,omitempty"`
		TeamCoinBonus        float64  `json:"teamCoinBonus,omitempty"`
		BuyerBonusMultiplier float64  `json:"buyerBonusMultiplier,omitempty"`
		InstantScoreDamage   float64  `json:"instantScoreDamage,omitempty"`
		InstantCoinSteal     float64  `json:"instantCoinSteal,omitempty"`
		OnlyWhenLosing       bool     `json:"onlyWhenLosing,omitempty"`
		LosingThreshold      float64  `json:"losingThreshold,omitempty"`
		OnlyWhenWinning      bool     `json:"onlyWhenWinning,omitempty"`
		WinningThreshold     float64  `json:"winningThreshold,omitempty"`
		RecommendAfter       []string `json:"recommendAfter,omitempty"`
		BuildPath            string   `json:"buildPath,omitempty"`
		Tier                 int      `json:"tier,omitempty"`
	}
	w := wire{
		ID:               it.ID,
		Name:             it.Name,
		Description:      it.Description,
		Icon:             it.Icon,
		Category:         it.Category,
		PurchaseType:     string(it.PurchaseType()),
		Kind:             string(it.Kind()),
		Cost:             it.Cost,
		OnlyWhenLosing:   it.Condition.OnlyWhenLosing,
		LosingThreshold:  it.Condition.LosingThreshold,
		OnlyWhenWinning:  it.Condition.OnlyWhenWinning,
		WinningThreshold: it.Condition.WinningThreshold,
		RecommendAfter:   it.RecommendAfter,
		BuildPath:        it.BuildPath,
		Tier:             it.Tier,
	}
	switch e := it.Effect.(type) {
	case StatBoost:
		w.ClickMultiplier = e.ClickMultiplier
		w.CoinMultiplier = e.CoinMultiplier
	case PassiveIncome:
		w.PassiveIncome = e.PerSecond
	case TeamAura:
		w.TeamClickBonus = e.ClickBonus
		w.TeamCoinBonus = e.CoinBonus
		w.BuyerBonusMultiplier = e.BuyerBonusMultiplier
	case InstantDamage:
		w.InstantScoreDamage = e.Fraction
	case InstantSteal:
		w.InstantCoinSteal = e.Amount
	}
	return json.Marshal(w)
}

// Lookup returns the item with the given id, or nil.
func Lookup(id string) *Item {
	for i := range Items {
		if Items[i].ID == id {
			return &Items[i]
		}
	}
	return nil
}

// ─── Shop Table ─────────────────────────────────────────────────────────────

const buyerShare = 1.25

// Items is the full shop, in display order.
var Items = []Item{
	// Power tree
	{ID: "starter-boost", Name: "Starter Boost", Description: "Permanently multiply your clicks by 1.2x", Icon: "⚡", Category: "power",
		Cost: 100, Effect: StatBoost{ClickMultiplier: 1.2}, BuildPath: "power-rush", Tier: 1},
	{ID: "power-surge", Name: "Power Surge", Description: "Permanently multiply your clicks by 1.5x", Icon: "⚡⚡", Category: "power",
		Cost: 300, Effect: StatBoost{ClickMultiplier: 1.5}, BuildPath: "power-rush", RecommendAfter: []string{"starter-boost"}, Tier: 2},
	{ID: "mega-force", Name: "Mega Force", Description: "Permanently multiply your clicks by 2x", Icon: "⚡⚡⚡", Category: "power",
		Cost: 800, Effect: StatBoost{ClickMultiplier: 2.0}, BuildPath: "power-rush", RecommendAfter: []string{"power-surge"}, Tier: 3},
	{ID: "ultra-power", Name: "Ultra Power", Description: "Permanently multiply your clicks by 3x", Icon: "⚡⚡⚡⚡", Category: "power",
		Cost: 2000, Effect: StatBoost{ClickMultiplier: 3.0}, BuildPath: "power-rush", RecommendAfter: []string{"mega-force"}, Tier: 4},
	{ID: "god-mode", Name: "God Mode", Description: "Permanently multiply your clicks by 5x", Icon: "⚡⚡⚡⚡⚡", Category: "power",
		Cost: 5000, Effect: StatBoost{ClickMultiplier: 5.0}, BuildPath: "power-rush", RecommendAfter: []string{"ultra-power"}, Tier: 5},
	{ID: "transcendent", Name: "Transcendent", Description: "Permanently multiply your clicks by 10x", Icon: "💫", Category: "power",
		Cost: 12000, Effect: StatBoost{ClickMultiplier: 10.0}, BuildPath: "power-rush", RecommendAfter: []string{"god-mode"}, Tier: 5},

	// Economy tree
	{ID: "penny-saver", Name: "Penny Saver", Description: "Permanently multiply coins earned by 1.5x", Icon: "💰", Category: "economy",
		Cost: 150, Effect: StatBoost{CoinMultiplier: 1.5}, BuildPath: "economist", Tier: 1},
	{ID: "money-maker", Name: "Money Maker", Description: "Permanently multiply coins earned by 2x", Icon: "💰💰", Category: "economy",
		Cost: 400, Effect: StatBoost{CoinMultiplier: 2.0}, BuildPath: "economist", RecommendAfter: []string{"penny-saver"}, Tier: 2},
	{ID: "tycoon", Name: "Tycoon", Description: "Permanently multiply coins earned by 3x", Icon: "💰💰💰", Category: "economy",
		Cost: 1000, Effect: StatBoost{CoinMultiplier: 3.0}, BuildPath: "economist", RecommendAfter: []string{"money-maker"}, Tier: 3},

	// Passive income
	{ID: "interest-i", Name: "Interest I", Description: "Earn +1 coin per second passively", Icon: "🏦", Category: "passive",
		Cost: 300, Effect: PassiveIncome{PerSecond: 1}, BuildPath: "economist", Tier: 2},
	{ID: "interest-ii", Name: "Interest II", Description: "Earn +3 coins per second passively", Icon: "🏦🏦", Category: "passive",
		Cost: 800, Effect: PassiveIncome{PerSecond: 3}, BuildPath: "economist", RecommendAfter: []string{"interest-i"}, Tier: 3},
	{ID: "interest-iii", Name: "Interest III", Description: "Earn +10 coins per second passively", Icon: "🏦🏦🏦", Category: "passive",
		Cost: 2500, Effect: PassiveIncome{PerSecond: 10}, BuildPath: "economist", RecommendAfter: []string{"interest-ii"}, Tier: 4},

	// Synergy
	{ID: "synergy-boost", Name: "Synergy Boost", Description: "All your multipliers gain +20% effectiveness", Icon: "✨", Category: "synergy",
		Cost: 1000, Effect: Synergy{Factor: 1.20}, BuildPath: "balanced", Tier: 3},
	{ID: "compound-growth", Name: "Compound Growth", Description: "Passive income increases by 50% every minute", Icon: "📈", Category: "synergy",
		Cost: 2000, Effect: CompoundGrowth{Rate: 1.5, Period: time.Minute}, BuildPath: "economist", RecommendAfter: []string{"interest-i"}, Tier: 4},

	// Team auras
	{ID: "rally-cry", Name: "Rally Cry", Description: "Team gets +10% clicks (you get +12.5%)", Icon: "📣", Category: "team-aura",
		Cost: 1200, Effect: TeamAura{ClickBonus: 0.10, BuyerBonusMultiplier: buyerShare}, BuildPath: "team-player", Tier: 2},
	{ID: "war-drums", Name: "War Drums", Description: "Team gets +20% clicks (you get +25%)", Icon: "🥁", Category: "team-aura",
		Cost: 3000, Effect: TeamAura{ClickBonus: 0.20, BuyerBonusMultiplier: buyerShare}, BuildPath: "team-player", RecommendAfter: []string{"rally-cry"}, Tier: 4},
	{ID: "battle-hymn", Name: "Battle Hymn", Description: "Team gets +40% clicks (you get +50%)", Icon: "🎺", Category: "team-aura",
		Cost: 7000, Effect: TeamAura{ClickBonus: 0.40, BuyerBonusMultiplier: buyerShare}, BuildPath: "team-player", RecommendAfter: []string{"war-drums"}, Tier: 5},

	// Team economy
	{ID: "team-treasury", Name: "Team Treasury", Description: "Team gets +15% coins (you get +18.75%)", Icon: "💎", Category: "team-economy",
		Cost: 1500, Effect: TeamAura{CoinBonus: 0.15, BuyerBonusMultiplier: buyerShare}, BuildPath: "team-player", Tier: 2},
	{ID: "empire-fund", Name: "Empire Fund", Description: "Team gets +30% coins (you get +37.5%)", Icon: "💎💎", Category: "team-economy",
		Cost: 4000, Effect: TeamAura{CoinBonus: 0.30, BuyerBonusMultiplier: buyerShare}, BuildPath: "team-player", RecommendAfter: []string{"team-treasury"}, Tier: 4},

	// Sabotage
	{ID: "minor-sabotage", Name: "Minor Sabotage", Description: "Reduce enemy score by 5% immediately", Icon: "💣", Category: "offensive",
		Cost: 500, Effect: InstantDamage{Fraction: 0.05}, BuildPath: "aggressor", Tier: 2},
	{ID: "major-sabotage", Name: "Major Sabotage", Description: "Reduce enemy score by 12% immediately", Icon: "💣💣", Category: "offensive",
		Cost: 2000, Effect: InstantDamage{Fraction: 0.12}, BuildPath: "aggressor", RecommendAfter: []string{"minor-sabotage"}, Tier: 4},
	{ID: "devastate", Name: "Devastate", Description: "Reduce enemy score by 20% immediately", Icon: "💣💣💣", Category: "offensive",
		Cost: 5000, Effect: InstantDamage{Fraction: 0.20}, BuildPath: "aggressor", RecommendAfter: []string{"major-sabotage"}, Tier: 5},

	// Heists
	{ID: "coin-heist", Name: "Coin Heist", Description: "Steal 500 coins from richest enemy player", Icon: "🎭", Category: "offensive",
		Cost: 700, Effect: InstantSteal{Amount: 500}, BuildPath: "aggressor", Tier: 2},
	{ID: "grand-heist", Name: "Grand Heist", Description: "Steal 2000 coins from richest enemy player", Icon: "🎭🎭", Category: "offensive",
		Cost: 3000, Effect: InstantSteal{Amount: 2000}, BuildPath: "aggressor", RecommendAfter: []string{"coin-heist"}, Tier: 4},

	// Comeback
	{ID: "underdog-bonus", Name: "Underdog Bonus", Description: "2x personal multiplier while losing by 15%+", Icon: "🐶", Category: "special",
		Cost: 800, Effect: StatBoost{ClickMultiplier: 2.0}, Condition: Condition{OnlyWhenLosing: true, LosingThreshold: 0.15}, Tier: 3},
	{ID: "desperation", Name: "Desperation", Description: "3x personal multiplier (only when losing by 30%+)", Icon: "🔥", Category: "special",
		Cost: 2500, Effect: StatBoost{ClickMultiplier: 3.0}, Condition: Condition{OnlyWhenLosing: true, LosingThreshold: 0.30}, Tier: 4},
}
