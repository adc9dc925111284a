package cmd

import (
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup [pack]",
	Short: "Back up the textures of a pack",
	Long:  fmt.Sprintf("Back up the textures of a pack. Only the %d newest backups are kept.", core.MaxBackups),
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])

		if viper.GetBool("backup.list") {
			backups, err := repo.ListBackups(cmd.Context(), pack.ID)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			if len(backups) == 0 {
				fmt.Println("No backups yet")
				return
			}
			for _, b := range backups {
				fmt.Printf("%s  %s  %d bytes\n", b.Name, b.ModTime.Format("2006-01-02 15:04:05"), b.Size)
			}
			return
		}

		path, err := repo.BackupPack(cmd.Context(), pack.ID)
		if err != nil {
			fmt.Printf("Failed to back up pack: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Backup saved to %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().BoolP("list", "l", false, "List existing backups instead of making one")
	_ = viper.BindPFlag("backup.list", backupCmd.Flags().Lookup("list"))
}
