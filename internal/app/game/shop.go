package game

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/clickwar-arcade/clickwar/internal/app/stats"
	"github.com/clickwar-arcade/clickwar/internal/domain"
	"github.com/clickwar-arcade/clickwar/internal/infra/catalog"
)

// PurchaseResult describes a completed purchase.
type PurchaseResult struct {
	ItemID   string        `json:"itemId"`
	Kind     catalog.Kind  `json:"kind"`
	NewCoins float64       `json:"newCoins"`
	Stats    stats.Stats   `json:"stats"`
	Scores   domain.Scores `json:"scores"`
	Damage   float64       `json:"damage,omitempty"` // sabotage: score removed
	Stolen   float64       `json:"stolen,omitempty"` // heist: coins taken
	VictimID string        `json:"-"`                // heist victim; never exposed
	Victim   string        `json:"victim,omitempty"` // heist victim display name
}

// ShopView is what a player sees when opening the shop.
type ShopView struct {
	Phase             domain.Phase         `json:"phase"`
	CanPurchase       bool                 `json:"canPurchase"`
	Coins             float64              `json:"coins"`
	Items             []catalog.Item       `json:"items"`
	OwnedItems        []string             `json:"ownedItems"`
	TeamItems         []domain.TeamUpgrade `json:"teamItems"`
	BuildPaths        []catalog.BuildPath  `json:"buildPaths"`
	SelectedBuildPath string               `json:"selectedBuildPath,omitempty"`
}

// Purchase buys itemID for playerID. Exactly one mutation path runs per
// item kind; on any error nothing is changed.
func (e *Engine) Purchase(playerID, itemID string) (PurchaseResult, error) {
	var res PurchaseResult
	err := e.do(func(now time.Time) error {
		p, err := e.player(playerID)
		if err != nil {
			return err
		}
		st := e.st
		if st.phase != domain.PhaseActive {
			return domain.ErrGameNotActive
		}
		item := catalog.Lookup(itemID)
		if item == nil {
			return fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
		}

		kind := item.Kind()
		switch kind {
		case catalog.KindTeam:
			if e.teamOwns(p.Team, item.ID) {
				return fmt.Errorf("%w: your team already has %s", domain.ErrAlreadyOwned, item.Name)
			}
		case catalog.KindPermanent:
			if p.Owns(item.ID) {
				return fmt.Errorf("%w: you already have %s", domain.ErrAlreadyOwned, item.Name)
			}
		}
		if p.Coins < item.Cost {
			return fmt.Errorf("%w: need %.0f, have %.1f", domain.ErrInsufficientFunds, item.Cost, domain.RoundCoins(p.Coins))
		}

		var victim *domain.Player
		if kind == catalog.KindHeist {
			if victim = e.richestEnemy(p.Team); victim == nil {
				return domain.ErrNoValidTarget
			}
		}

		p.Coins -= item.Cost
		res = PurchaseResult{ItemID: item.ID, Kind: kind}
		enemy := p.Team.Opponent()

		switch eff := item.Effect.(type) {
		case catalog.TeamAura:
			st.teamUpgrades[p.Team] = append(st.teamUpgrades[p.Team], domain.TeamUpgrade{
				ItemID:      item.ID,
				PurchasedAt: now,
				PurchasedBy: p.ID,
			})
		case catalog.InstantDamage:
			before := st.scores.Of(enemy)
			st.scores.Set(enemy, before-before*eff.Fraction)
			res.Damage = before - st.scores.Of(enemy)
			markConsumed(p, item.ID)
		case catalog.InstantSteal:
			stolen := math.Min(eff.Amount, victim.Coins)
			victim.Coins -= stolen
			p.Coins += stolen
			res.Stolen = stolen
			res.VictimID = victim.ID
			res.Victim = victim.Name
			markConsumed(p, item.ID)
		default:
			p.PurchasedItems = append(p.PurchasedItems, domain.PurchasedItem{ItemID: item.ID, PurchasedAt: now})
		}

		amount := res.Damage + res.Stolen
		log.Printf("[engine] %s bought %s (%s)", p.Name, item.ID, kind)
		e.emit(domain.GameEvent{Type: domain.EventPurchase, At: now, Team: p.Team, PlayerID: p.ID, ItemID: item.ID, Amount: amount})

		res.NewCoins = domain.RoundCoins(p.Coins)
		res.Stats = e.statsFor(p, now)
		res.Scores = st.scores
		return nil
	})
	return res, err
}

func markConsumed(p *domain.Player, itemID string) {
	if !p.HasUsed(itemID) {
		p.ConsumedItems = append(p.ConsumedItems, itemID)
	}
}

func (e *Engine) teamOwns(t domain.Team, itemID string) bool {
	for _, up := range e.st.teamUpgrades[t] {
		if up.ItemID == itemID {
			return true
		}
	}
	return false
}

// richestEnemy returns the enemy player with the most coins, or nil when no
// enemy has any. Ties go to whoever joined first.
func (e *Engine) richestEnemy(team domain.Team) *domain.Player {
	var best *domain.Player
	for _, id := range e.st.order {
		p := e.st.players[id]
		if p.Team == team || p.Coins <= 0 {
			continue
		}
		if best == nil || p.Coins > best.Coins {
			best = p
		}
	}
	return best
}

// Shop returns the items playerID may currently see.
func (e *Engine) Shop(playerID string) (ShopView, error) {
	var view ShopView
	err := e.do(func(now time.Time) error {
		p, err := e.player(playerID)
		if err != nil {
			return err
		}
		st := e.st
		view = ShopView{
			Phase:             st.phase,
			CanPurchase:       st.phase == domain.PhaseActive,
			Coins:             domain.RoundCoins(p.Coins),
			Items:             e.availableItems(p),
			OwnedItems:        make([]string, 0, len(p.PurchasedItems)),
			TeamItems:         append([]domain.TeamUpgrade{}, st.teamUpgrades[p.Team]...),
			BuildPaths:        catalog.BuildPaths,
			SelectedBuildPath: p.SelectedBuildPath,
		}
		for _, it := range p.PurchasedItems {
			view.OwnedItems = append(view.OwnedItems, it.ItemID)
		}
		return nil
	})
	return view, err
}

// availableItems applies the visibility filter: the shop must be open,
// team items the team owns and permanent items the player owns are hidden,
// conditional items need their margin, and tiered items need one of their
// prerequisites owned by the player or the team.
func (e *Engine) availableItems(p *domain.Player) []catalog.Item {
	st := e.st
	out := []catalog.Item{}
	if !st.phase.ShopVisible() {
		return out
	}
	owns := func(id string) bool {
		return p.HasUsed(id) || e.teamOwns(p.Team, id)
	}
	for _, item := range catalog.Items {
		switch item.Kind() {
		case catalog.KindTeam:
			if e.teamOwns(p.Team, item.ID) {
				continue
			}
		case catalog.KindPermanent:
			if p.Owns(item.ID) {
				continue
			}
		}
		if item.Condition.Conditional() && !item.Condition.Offered(st.scores, p.Team) {
			continue
		}
		if len(item.RecommendAfter) > 0 {
			unlocked := false
			for _, pre := range item.RecommendAfter {
				if owns(pre) {
					unlocked = true
					break
				}
			}
			if !unlocked {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}
