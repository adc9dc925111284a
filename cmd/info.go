package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type packInfo struct {
	ID               string                `yaml:"id"`
	Name             string                `yaml:"name"`
	Description      string                `yaml:"description"`
	Version          string                `yaml:"version"`
	MinEngineVersion string                `yaml:"minEngineVersion,omitempty"`
	HeaderUUID       string                `yaml:"headerUUID,omitempty"`
	Folder           string                `yaml:"folder,omitempty"`
	Icon             string                `yaml:"icon,omitempty"`
	Created          string                `yaml:"created"`
	Modified         string                `yaml:"modified"`
	Textures         map[core.Category]int `yaml:"textures"`
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [pack]",
	Short: "Show the metadata and manifest of a pack",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])

		info := packInfo{
			ID:          pack.ID,
			Name:        pack.Name,
			Description: pack.Description,
			Version:     pack.Version.String(),
			Created:     pack.Created().Format("2006-01-02 15:04:05"),
			Modified:    pack.Modified().Format("2006-01-02 15:04:05"),
			Textures:    make(map[core.Category]int),
		}
		if pack.FolderPath != nil {
			info.Folder = *pack.FolderPath
		}
		if pack.IconPath != nil {
			info.Icon = *pack.IconPath
		}

		manifest, err := repo.ReadManifest(cmd.Context(), pack.ID)
		if err == nil {
			info.MinEngineVersion = manifest.Header.MinEngineVersion.String()
			info.HeaderUUID = manifest.Header.UUID
		} else if errors.Is(err, core.ErrCorrupt) {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else if !core.IsNotFound(err) {
			fmt.Println(err)
			os.Exit(1)
		}

		for _, cat := range repo.Layout.Categories {
			items, err := repo.ListTextures(cmd.Context(), pack.ID, cat)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			count := 0
			for _, item := range items {
				if item.Custom {
					count++
				}
			}
			info.Textures[cat] = count
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		_ = enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
