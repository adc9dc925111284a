package cmd

import (
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open [pack]",
	Short: "Open the folder of a pack in the file manager",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])
		dir := repo.PackDir(pack.ID)
		if err := open.Start(dir); err != nil {
			fmt.Printf("Failed to open %s: %s\n", dir, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
