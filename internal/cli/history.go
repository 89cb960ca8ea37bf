package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clickwar-arcade/clickwar/internal/domain"
	"github.com/clickwar-arcade/clickwar/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", sqlite.DefaultHistoryLimit, "number of matches to show")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished matches from the archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		db, err := sqlite.Open(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("open match archive: %w", err)
		}
		defer db.Close()

		matches, err := db.ListMatches(limit)
		if err != nil {
			return err
		}
		wins, err := db.TeamWins()
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Wins: teamA %d, teamB %d\n\n", wins[domain.TeamA], wins[domain.TeamB])
		if len(matches) == 0 {
			fmt.Fprintln(os.Stdout, "No matches recorded yet.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-5s %-20s %-6s %15s %7s %9s\n", "ID", "ENDED", "WINNER", "SCORE", "PLAYERS", "DURATION")
		for _, m := range matches {
			fmt.Fprintf(os.Stdout, "%-5d %-20s %-6s %7.0f-%-7.0f %3d v %-3d %9s\n",
				m.ID, m.EndedAt.Local().Format("2006-01-02 15:04:05"), m.Winner,
				m.Scores.TeamA, m.Scores.TeamB, m.PlayersA, m.PlayersB, m.Duration().Round(time.Second))
		}
		return nil
	},
}
