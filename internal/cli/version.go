package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clickwar-arcade/clickwar/internal/api"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the clickwar version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "clickwar %s\n", api.Version)
	},
}
