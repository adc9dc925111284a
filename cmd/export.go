package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [pack]",
	Short: "Export a pack as an .mcpack archive",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])

		dest := viper.GetString("export.output")
		if dest == "" {
			dest = pack.GetPackName() + ".mcpack"
		}
		dest, err := filepath.Abs(dest)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		packDir, err := filepath.Abs(repo.PackDir(pack.ID))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if rel, err := filepath.Rel(packDir, dest); err == nil && filepath.IsLocal(rel) {
			fmt.Println("The export file must not be inside the pack folder")
			os.Exit(1)
		}

		entries, err := repo.ExportEntries(cmd.Context(), pack.ID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		progress := cmdshared.NewProgress("Exporting ", len(entries))
		err = repo.ExportPack(cmd.Context(), pack.ID, dest, core.OnExportEntry(func(string) {
			progress.Increment()
		}))
		progress.Done()
		if err != nil {
			fmt.Printf("Failed to export pack: %s\n", err)
			os.Exit(1)
		}

		hashFormat := viper.GetString("export.hash")
		sum, err := core.HashFile(dest, hashFormat)
		if err != nil {
			fmt.Printf("Failed to hash export: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d files to %s\n", len(entries), dest)
		fmt.Printf("%s: %s\n", hashFormat, sum)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "The file to export to (default is <pack name>.mcpack)")
	_ = viper.BindPFlag("export.output", exportCmd.Flags().Lookup("output"))
	exportCmd.Flags().String("hash", "sha256", "The hash of the archive to print (sha1, sha256, sha512, md5 or murmur2)")
	_ = viper.BindPFlag("export.hash", exportCmd.Flags().Lookup("hash"))
}
