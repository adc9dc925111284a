package cmd

import (
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:     "update [pack]",
	Short:   "Edit the name, description or version of a pack",
	Aliases: []string{"edit"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])

		update := core.ManifestUpdate{
			Name:        pack.Name,
			Description: pack.Description,
			Version:     pack.Version,
		}
		anySet := false
		if cmd.Flags().Changed("name") {
			update.Name = viper.GetString("update.name")
			anySet = true
		}
		if cmd.Flags().Changed("description") {
			update.Description = viper.GetString("update.description")
			anySet = true
		}
		if cmd.Flags().Changed("version") {
			v, err := core.ParseSemVer(viper.GetString("update.version"))
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			update.Version = v
			anySet = true
		}
		if cmd.Flags().Changed("min-engine-version") {
			v, err := core.ParseSemVer(viper.GetString("update.min-engine-version"))
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			update.MinEngineVersion = &v
			anySet = true
		}
		if !anySet {
			// Nothing on the command line, so ask
			update.Name = cmdshared.ReadValue("Pack name ["+update.Name+"]: ", update.Name)
			update.Description = cmdshared.ReadValue("Description ["+update.Description+"]: ", update.Description)
			versionStr := cmdshared.ReadValue("Version ["+update.Version.String()+"]: ", update.Version.String())
			v, err := core.ParseSemVer(versionStr)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			update.Version = v
		}

		if err := repo.UpdateManifest(cmd.Context(), pack.ID, update); err != nil {
			fmt.Printf("Failed to update pack: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Pack %q updated (version %s)\n", update.Name, update.Version)
		cmdshared.AutoBackup(cmd.Context(), repo, pack.ID)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().String("name", "", "The new name of the pack")
	_ = viper.BindPFlag("update.name", updateCmd.Flags().Lookup("name"))
	updateCmd.Flags().String("description", "", "The new description of the pack")
	_ = viper.BindPFlag("update.description", updateCmd.Flags().Lookup("description"))
	updateCmd.Flags().String("version", "", "The new version of the pack, e.g. 1.2.0")
	_ = viper.BindPFlag("update.version", updateCmd.Flags().Lookup("version"))
	updateCmd.Flags().String("min-engine-version", "", "The minimum game version the pack supports, e.g. 1.20.0")
	_ = viper.BindPFlag("update.min-engine-version", updateCmd.Flags().Lookup("min-engine-version"))
}
