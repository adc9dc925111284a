package cmd

import (
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset [pack]",
	Short: "Discard every texture in a pack, keeping its manifest, icon and backups",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])
		if !cmdshared.PromptYesNo(fmt.Sprintf("Discard all textures of %q? [Y/n] ", pack.Name)) {
			fmt.Println("Cancelled!")
			return
		}
		if err := repo.ResetPack(cmd.Context(), pack.ID); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println("Textures reset!")
		cmdshared.AutoBackup(cmd.Context(), repo, pack.ID)
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
