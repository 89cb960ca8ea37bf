package catalog

import (
	"encoding/json"
	"testing"

	"github.com/clickwar-arcade/clickwar/internal/domain"
)

func TestLookupExistingItem(t *testing.T) {
	tests := []struct {
		id       string
		wantKind Kind
	}{
		{"starter-boost", KindPermanent},
		{"interest-i", KindPermanent},
		{"synergy-boost", KindPermanent},
		{"rally-cry", KindTeam},
		{"team-treasury", KindTeam},
		{"minor-sabotage", KindSabotage},
		{"coin-heist", KindHeist},
		{"underdog-bonus", KindPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			item := Lookup(tt.id)
			if item == nil {
				t.Fatalf("Lookup(%q) returned nil", tt.id)
			}
			if item.Kind() != tt.wantKind {
				t.Errorf("Lookup(%q).Kind() = %q, want %q", tt.id, item.Kind(), tt.wantKind)
			}
		})
	}
}

func TestLookupUnknownItem(t *testing.T) {
	if item := Lookup("nonexistent-item"); item != nil {
		t.Errorf("Lookup(nonexistent) = %v, want nil", item)
	}
}

func TestCatalogContents(t *testing.T) {
	wantItems := []string{
		"starter-boost", "power-surge", "mega-force", "ultra-power", "god-mode", "transcendent",
		"penny-saver", "money-maker", "tycoon",
		"interest-i", "interest-ii", "interest-iii",
		"synergy-boost", "compound-growth",
		"rally-cry", "war-drums", "battle-hymn",
		"team-treasury", "empire-fund",
		"minor-sabotage", "major-sabotage", "devastate",
		"coin-heist", "grand-heist",
		"underdog-bonus", "desperation",
	}
	if len(Items) != len(wantItems) {
		t.Fatalf("len(Items) = %d, want %d", len(Items), len(wantItems))
	}
	for i, id := range wantItems {
		if Items[i].ID != id {
			t.Errorf("Items[%d].ID = %q, want %q", i, Items[i].ID, id)
		}
	}

	wantPaths := []string{"power-rush", "economist", "team-player", "balanced", "aggressor"}
	if len(BuildPaths) != len(wantPaths) {
		t.Fatalf("len(BuildPaths) = %d, want %d", len(BuildPaths), len(wantPaths))
	}
	for i, id := range wantPaths {
		if BuildPaths[i].ID != id {
			t.Errorf("BuildPaths[%d].ID = %q, want %q", i, BuildPaths[i].ID, id)
		}
	}
}

func TestAllItemsWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, it := range Items {
		if seen[it.ID] {
			t.Errorf("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if it.Cost <= 0 {
			t.Errorf("item %q has non-positive cost", it.ID)
		}
		if it.Effect == nil {
			t.Errorf("item %q has no effect", it.ID)
		}
		if it.Name == "" || it.Description == "" {
			t.Errorf("item %q missing display fields", it.ID)
		}
	}
}

func TestPrerequisitesExist(t *testing.T) {
	for _, it := range Items {
		for _, pre := range it.RecommendAfter {
			if Lookup(pre) == nil {
				t.Errorf("item %q lists unknown prerequisite %q", it.ID, pre)
			}
		}
	}
}

func TestBuildPathItemsExist(t *testing.T) {
	for _, p := range BuildPaths {
		if LookupPath(p.ID) == nil {
			t.Errorf("LookupPath(%q) = nil", p.ID)
		}
		for _, id := range p.ItemSequence {
			if Lookup(id) == nil {
				t.Errorf("path %q references unknown item %q", p.ID, id)
			}
		}
	}
	if LookupPath("speedrun") != nil {
		t.Error("LookupPath(speedrun) should be nil")
	}
}

func TestTeamItemsArePurchaseTypeTeam(t *testing.T) {
	for _, it := range Items {
		_, aura := it.Effect.(TeamAura)
		if aura != (it.PurchaseType() == PurchaseTeam) {
			t.Errorf("item %q: aura=%v purchaseType=%q", it.ID, aura, it.PurchaseType())
		}
	}
}

func TestCondition_Met(t *testing.T) {
	underdog := Lookup("underdog-bonus").Condition

	tests := []struct {
		name   string
		scores domain.Scores
		want   bool
	}{
		{"no score yet", domain.Scores{}, false},
		{"ahead", domain.Scores{TeamA: 100, TeamB: 50}, false},
		{"behind by 10%", domain.Scores{TeamA: 45, TeamB: 55}, false},
		{"behind by exactly 15%", domain.Scores{TeamA: 85, TeamB: 115}, true},
		{"behind by 50%", domain.Scores{TeamA: 25, TeamB: 75}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := underdog.Met(tt.scores, domain.TeamA); got != tt.want {
				t.Errorf("Met(%+v) = %v, want %v", tt.scores, got, tt.want)
			}
		})
	}
}

func TestCondition_WinningNeverMet(t *testing.T) {
	c := Condition{OnlyWhenWinning: true, WinningThreshold: 0.1}
	if c.Met(domain.Scores{TeamA: 1000, TeamB: 1}, domain.TeamA) {
		t.Error("winning condition should never be met")
	}
	if !(Condition{}).Met(domain.Scores{}, domain.TeamA) {
		t.Error("empty condition should always be met")
	}
}

func TestCondition_LosingWithoutThreshold(t *testing.T) {
	c := Condition{OnlyWhenLosing: true}
	tests := []struct {
		name        string
		scores      domain.Scores
		wantMet     bool
		wantOffered bool
	}{
		{"no scores yet", domain.Scores{}, false, false},
		{"level", domain.Scores{TeamA: 50, TeamB: 50}, false, false},
		{"ahead", domain.Scores{TeamA: 60, TeamB: 40}, false, false},
		{"behind by a point", domain.Scores{TeamA: 49, TeamB: 50}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Met(tt.scores, domain.TeamA); got != tt.wantMet {
				t.Errorf("Met(%+v) = %v, want %v", tt.scores, got, tt.wantMet)
			}
			if got := c.Offered(tt.scores, domain.TeamA); got != tt.wantOffered {
				t.Errorf("Offered(%+v) = %v, want %v", tt.scores, got, tt.wantOffered)
			}
		})
	}
}

func TestItem_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(*Lookup("rally-cry"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["purchaseType"] != "team" {
		t.Errorf("purchaseType = %v, want team", got["purchaseType"])
	}
	if got["teamClickBonus"] != 0.1 {
		t.Errorf("teamClickBonus = %v, want 0.1", got["teamClickBonus"])
	}
	if got["buyerBonusMultiplier"] != 1.25 {
		t.Errorf("buyerBonusMultiplier = %v, want 1.25", got["buyerBonusMultiplier"])
	}
	if _, ok := got["clickMultiplier"]; ok {
		t.Error("clickMultiplier should be omitted for a team aura")
	}
}
