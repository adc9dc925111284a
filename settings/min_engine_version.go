package settings

import (
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
)

var minEngineVersionCommand = &cobra.Command{
	Use:     "min-engine-version [pack] [version]",
	Short:   "Show or set the minimum game version of a pack, e.g. 1.20.0",
	Aliases: []string{"mev"},
	Args:    cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])
		manifest, err := repo.ReadManifest(cmd.Context(), pack.ID)
		if err != nil {
			fmt.Printf("Error loading manifest: %s\n", err)
			os.Exit(1)
		}
		current := manifest.Header.MinEngineVersion
		if len(args) == 1 {
			fmt.Println(current)
			return
		}

		wanted, err := core.ParseSemVer(args[1])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if wanted.Compare(current) == 0 {
			fmt.Printf("Minimum game version is already %s\n", current)
			return
		}
		if wanted.Compare(core.DefaultMinEngineVersion) < 0 {
			fmt.Printf("Warning: versions before %s may not load this pack's manifest format. ", core.DefaultMinEngineVersion)
			if !cmdshared.PromptYesNo("Continue anyway? [Y/n] ") {
				fmt.Println("Cancelled!")
				return
			}
		}

		err = repo.UpdateManifest(cmd.Context(), pack.ID, core.ManifestUpdate{
			Name:             manifest.Header.Name,
			Description:      manifest.Header.Description,
			Version:          manifest.Header.Version,
			MinEngineVersion: &wanted,
		})
		if err != nil {
			fmt.Printf("Error writing manifest: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Set minimum game version to %s (was %s)\n", wanted, current)
		cmdshared.AutoBackup(cmd.Context(), repo, pack.ID)
	},
}

func init() {
	settingsCmd.AddCommand(minEngineVersionCommand)
}
