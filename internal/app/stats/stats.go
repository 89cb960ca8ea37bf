// Package stats derives a player's effective multipliers and passive income
// from their items, their team's upgrades and the current score.
//
// Rules:
//   - Individual click/coin multipliers do not stack: the highest owned wins.
//   - Passive income stacks additively.
//   - Synergy scales the bonus part of the individual multipliers.
//   - Compound growth scales passive income per full period held.
//   - Team auras add to a 1.0 team base; the buyer gets an amplified share.
//   - Total = individual × team.
package stats

import (
	"math"
	"time"

	"github.com/clickwar-arcade/clickwar/internal/domain"
	"github.com/clickwar-arcade/clickwar/internal/infra/catalog"
)

// Stats is the full breakdown returned to clients after clicks and purchases.
type Stats struct {
	ClickMultiplier   float64 `json:"clickMultiplier"`
	CoinMultiplier    float64 `json:"coinMultiplier"`
	PassiveIncomeRate float64 `json:"passiveIncomeRate"`

	IndividualClickMultiplier float64 `json:"individualClickMultiplier"`
	TeamClickMultiplier       float64 `json:"teamClickMultiplier"`
	IndividualCoinMultiplier  float64 `json:"individualCoinMultiplier"`
	TeamCoinMultiplier        float64 `json:"teamCoinMultiplier"`

	BasePassiveIncome float64  `json:"basePassiveIncome"`
	CompoundStacks    int      `json:"compoundStacks"`
	SynergyFactor     float64  `json:"synergyFactor"`
	ActiveConditional []string `json:"activeConditional,omitempty"` // comeback items currently in effect
}

// Neutral returns the stats of a player who owns nothing.
func Neutral() Stats {
	return Stats{
		ClickMultiplier:           1,
		CoinMultiplier:            1,
		IndividualClickMultiplier: 1,
		TeamClickMultiplier:       1,
		IndividualCoinMultiplier:  1,
		TeamCoinMultiplier:        1,
		SynergyFactor:             1,
	}
}

// Compute aggregates p's stats. It is pure: the same inputs always give the
// same result, and nothing passed in is modified.
func Compute(p *domain.Player, upgrades []domain.TeamUpgrade, scores domain.Scores, now time.Time) Stats {
	s := Neutral()

	highestClick, highestCoin := 1.0, 1.0
	compoundRate := 1.0

	for _, owned := range p.PurchasedItems {
		item := catalog.Lookup(owned.ItemID)
		if item == nil {
			continue
		}
		if item.Condition.Conditional() {
			if !item.Condition.Met(scores, p.Team) {
				continue
			}
			s.ActiveConditional = append(s.ActiveConditional, item.ID)
		}

		switch e := item.Effect.(type) {
		case catalog.StatBoost:
			highestClick = math.Max(highestClick, e.ClickMultiplier)
			highestCoin = math.Max(highestCoin, e.CoinMultiplier)
		case catalog.PassiveIncome:
			s.BasePassiveIncome += e.PerSecond
		case catalog.Synergy:
			s.SynergyFactor = math.Max(s.SynergyFactor, e.Factor)
		case catalog.CompoundGrowth:
			if e.Period > 0 {
				s.CompoundStacks = int(now.Sub(owned.PurchasedAt) / e.Period)
				compoundRate = e.Rate
			}
		}
	}

	s.IndividualClickMultiplier = 1 + (highestClick-1)*s.SynergyFactor
	s.IndividualCoinMultiplier = 1 + (highestCoin-1)*s.SynergyFactor

	s.PassiveIncomeRate = s.BasePassiveIncome
	if s.CompoundStacks > 0 {
		s.PassiveIncomeRate *= math.Pow(compoundRate, float64(s.CompoundStacks))
	}

	teamClick, teamCoin := teamBonuses(p.ID, upgrades)
	s.TeamClickMultiplier = 1 + teamClick
	s.TeamCoinMultiplier = 1 + teamCoin

	s.ClickMultiplier = s.IndividualClickMultiplier * s.TeamClickMultiplier
	s.CoinMultiplier = s.IndividualCoinMultiplier * s.TeamCoinMultiplier
	return s
}

// teamBonuses sums aura bonuses, including the buyer-only extra for auras
// playerID bought.
func teamBonuses(playerID string, upgrades []domain.TeamUpgrade) (click, coin float64) {
	for _, up := range upgrades {
		item := catalog.Lookup(up.ItemID)
		if item == nil {
			continue
		}
		aura, ok := item.Effect.(catalog.TeamAura)
		if !ok {
			continue
		}
		buyer := up.PurchasedBy == playerID && aura.BuyerBonusMultiplier > 0

		click += aura.ClickBonus
		coin += aura.CoinBonus
		if buyer {
			click += aura.ClickBonus*aura.BuyerBonusMultiplier - aura.ClickBonus
			coin += aura.CoinBonus*aura.BuyerBonusMultiplier - aura.CoinBonus
		}
	}
	return click, coin
}
