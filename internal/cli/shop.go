package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clickwar-arcade/clickwar/internal/infra/catalog"
)

func init() {
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(pathsCmd)
	shopCmd.Flags().String("path", "", "only list items on this build path")
}

// ─── shop ───────────────────────────────────────────────────────────────────

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "List every shop item",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if path != "" && catalog.LookupPath(path) == nil {
			return fmt.Errorf("unknown build path %q (see 'clickwar paths')", path)
		}

		fmt.Fprintf(os.Stdout, "%-16s %-10s %7s  %-4s %-16s %s\n", "ID", "KIND", "COST", "TIER", "REQUIRES", "DESCRIPTION")
		for _, it := range catalog.Items {
			if path != "" && it.BuildPath != path {
				continue
			}
			requires := "-"
			if len(it.RecommendAfter) > 0 {
				requires = strings.Join(it.RecommendAfter, ",")
			}
			fmt.Fprintf(os.Stdout, "%-16s %-10s %7.0f  %-4d %-16s %s\n",
				it.ID, it.Kind(), it.Cost, it.Tier, requires, it.Description)
		}
		return nil
	},
}

// ─── paths ──────────────────────────────────────────────────────────────────

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List the build paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range catalog.BuildPaths {
			fmt.Fprintf(os.Stdout, "%s %s (%s)\n", p.Icon, p.Name, p.ID)
			fmt.Fprintf(os.Stdout, "   %s\n", p.Description)
			fmt.Fprintf(os.Stdout, "   order: %s\n\n", strings.Join(p.ItemSequence, " → "))
		}
		return nil
	},
}
