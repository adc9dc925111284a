package cmd

import (
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/spf13/cobra"
)

// iconCmd represents the icon command
var iconCmd = &cobra.Command{
	Use:   "icon [pack] [image]",
	Short: "Set the pack icon, stretched to 128x128",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])
		src, err := imageSource(repo, args[1])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		dest, err := repo.UpdateIcon(cmd.Context(), pack.ID, src)
		if err != nil {
			fmt.Printf("Failed to update icon: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Icon saved to %s\n", dest)
		cmdshared.AutoBackup(cmd.Context(), repo, pack.ID)
	},
}

func init() {
	rootCmd.AddCommand(iconCmd)
}
