package cmd

import (
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/spf13/cobra"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove [pack]",
	Short:   "Delete a pack and everything in it, including backups",
	Aliases: []string{"delete", "rm"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])
		if !cmdshared.PromptYesNo(fmt.Sprintf("Delete %q and all of its backups? [Y/n] ", pack.Name)) {
			fmt.Println("Cancelled!")
			return
		}
		if err := repo.DeletePack(cmd.Context(), pack.ID); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Pack %s removed successfully!\n", pack.Name)
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
