package settings

import (
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var showCommand = &cobra.Command{
	Use:   "show",
	Short: "Show the effective user settings and where packs are stored",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := cmdshared.LoadRepository()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		out := struct {
			Store    string      `yaml:"store"`
			Layout   string      `yaml:"layout"`
			Library  string      `yaml:"library,omitempty"`
			Config   string      `yaml:"config,omitempty"`
			Settings interface{} `yaml:"settings"`
		}{
			Store:    repo.Root,
			Layout:   repo.Layout.Name,
			Config:   viper.ConfigFileUsed(),
			Settings: repo.Settings,
		}
		if repo.Library != nil {
			out.Library = repo.Library.Catalog.Name
			if out.Library == "" {
				out.Library = viper.GetString("library")
			}
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		_ = enc.Close()
	},
}

func init() {
	settingsCmd.AddCommand(showCommand)
}
