package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/igorsobreira/titlecase"
	"github.com/packwiz/texwiz/cmdshared"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:     "create [name]",
	Short:   "Create a new texture pack",
	Aliases: []string{"new", "init"},
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := cmdshared.LoadRepository()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		var name string
		if len(args) > 0 {
			name = args[0]
		}
		if len(strings.TrimSpace(name)) == 0 {
			// Suggest a name from the current directory
			wd, err := os.Getwd()
			directoryName := "."
			if err == nil {
				directoryName = filepath.Base(wd)
			}
			if directoryName != "." && directoryName != string(filepath.Separator) && len(directoryName) > 0 {
				// Turn directory name into a space-seperated proper name
				name = titlecase.Title(strings.ReplaceAll(strings.ReplaceAll(strings.Join(camelcase.Split(directoryName), " "), " - ", " "), " _ ", " "))
				name = cmdshared.ReadValue("Pack name ["+name+"]: ", name)
			} else {
				name = cmdshared.ReadValue("Pack name: ", "")
			}
		}

		description := viper.GetString("create.description")
		if !cmd.Flags().Changed("description") {
			description = cmdshared.ReadValue("Description: ", description)
		}

		pack, err := repo.CreatePack(cmd.Context(), name, description)
		if err != nil {
			fmt.Printf("Failed to create pack: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Pack %q created with id %s\n", pack.Name, pack.ID)
		fmt.Println(*pack.FolderPath)
		cmdshared.AutoBackup(cmd.Context(), repo, pack.ID)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringP("description", "d", "", "The description of the pack (omit to define interactively)")
	_ = viper.BindPFlag("create.description", createCmd.Flags().Lookup("description"))
}
