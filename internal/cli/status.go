package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clickwar-arcade/clickwar/internal/app/game"
)

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().String("server", "", "server address host:port (default from config)")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the live scoreboard of a running server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("server")
		if addr == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			addr = cfg.API.Addr()
		}

		sb, err := fetchScoreboard(&http.Client{Timeout: 5 * time.Second}, "http://"+addr)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, sb.String())
		return nil
	},
}

func fetchScoreboard(client *http.Client, baseURL string) (game.Scoreboard, error) {
	var sb game.Scoreboard
	resp, err := client.Get(baseURL + "/api/scoreboard")
	if err != nil {
		return sb, fmt.Errorf("server not reachable at %s: %w", baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return sb, fmt.Errorf("scoreboard: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&sb); err != nil {
		return sb, fmt.Errorf("decode scoreboard: %w", err)
	}
	return sb, nil
}
