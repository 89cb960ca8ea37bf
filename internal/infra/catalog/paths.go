package catalog

// BuildPath is an advisory play style. Selecting one never gates purchases.
type BuildPath struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Strategy     string   `json:"strategy"`
	Icon         string   `json:"icon"`
	Color        string   `json:"color"`
	ItemSequence []string `json:"itemSequence"`
	Timeline     string   `json:"timeline"`
}

// LookupPath returns the build path with the given id, or nil.
func LookupPath(id string) *BuildPath {
	for i := range BuildPaths {
		if BuildPaths[i].ID == id {
			return &BuildPaths[i]
		}
	}
	return nil
}

// BuildPaths lists the five supported play styles.
var BuildPaths = []BuildPath{
	{
		ID:           "power-rush",
		Name:         "Power Rush",
		Description:  "Maximize personal click power early",
		Strategy:     "Buy cheap multipliers immediately to get ahead. Focus on Starter → Power Surge → Mega Force. Ignore economy, just click fast and scale your points.",
		Icon:         "⚡",
		Color:        "yellow",
		ItemSequence: []string{"starter-boost", "power-surge", "mega-force", "ultra-power", "god-mode"},
		Timeline:     "Min 1: Starter → Min 2: Power Surge → Min 4: Mega Force → Min 6: Ultra Power",
	},
	{
		ID:           "economist",
		Name:         "Economist",
		Description:  "Invest in coin generation for late-game power",
		Strategy:     "Sacrifice early power for a massive late game. Stack coin multipliers and interest, then cash out into big click multipliers around minute 4-5.",
		Icon:         "💰",
		Color:        "green",
		ItemSequence: []string{"penny-saver", "interest-i", "money-maker", "interest-ii", "tycoon", "ultra-power"},
		Timeline:     "Min 1-3: Economy setup → Min 4-6: Cash out with high-tier power items",
	},
	{
		ID:           "team-player",
		Name:         "Team Player",
		Description:  "Sacrifice personal power to buff the entire team",
		Strategy:     "Coordinate with teammates. Buy one or two team auras so everyone clicks harder. Works best with 5+ teammates.",
		Icon:         "👥",
		Color:        "purple",
		ItemSequence: []string{"penny-saver", "rally-cry", "starter-boost", "war-drums", "power-surge"},
		Timeline:     "Min 2-3: Rally Cry → Min 5: War Drums → Rest: personal boosts",
	},
	{
		ID:           "balanced",
		Name:         "Balanced",
		Description:  "Mix of economy and power for flexibility",
		Strategy:     "The safe pick. Buy cheap economy early, then layer in power items. Adapts well to the game state.",
		Icon:         "⚖️",
		Color:        "cyan",
		ItemSequence: []string{"starter-boost", "penny-saver", "power-surge", "money-maker", "mega-force", "ultra-power"},
		Timeline:     "Keep economy and power scaling together; flexible timing.",
	},
	{
		ID:           "aggressor",
		Name:         "Aggressor",
		Description:  "Attack the enemy team with sabotage and disruption",
		Strategy:     "Get a basic economy, then spend on sabotage and heists. High risk, high reward. Best when you have a lead.",
		Icon:         "⚔️",
		Color:        "red",
		ItemSequence: []string{"penny-saver", "starter-boost", "minor-sabotage", "coin-heist", "major-sabotage", "devastate"},
		Timeline:     "Min 1-2: Economy → Min 3: Minor Sabotage → Min 5: Major Sabotage",
	},
}
