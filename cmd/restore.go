package cmd

import (
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/spf13/cobra"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [pack] [backup]",
	Short: "Replace the textures of a pack with a backup",
	Long:  "Replace the textures of a pack with a backup. Omit the backup to restore the newest one.",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])

		var name string
		if len(args) > 1 {
			name = args[1]
		} else {
			backups, err := repo.ListBackups(cmd.Context(), pack.ID)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			if len(backups) == 0 {
				fmt.Println("This pack has no backups!")
				os.Exit(1)
			}
			name = backups[0].Name
		}

		if !cmdshared.PromptYesNo(fmt.Sprintf("Replace the textures of %q with %s? [Y/n] ", pack.Name, name)) {
			fmt.Println("Cancelled!")
			return
		}
		if err := repo.RestoreBackup(cmd.Context(), pack.ID, name); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Restored %s\n", name)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
