package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unascribed/FlexVer/go/flexver"
	"gopkg.in/yaml.v3"
)

// sortPacks orders packs in place by name, version (newest first) or last modification (newest first)
func sortPacks(packs []core.Pack, by string) error {
	switch by {
	case "name", "":
		sort.SliceStable(packs, func(i, j int) bool {
			return strings.ToLower(packs[i].Name) < strings.ToLower(packs[j].Name)
		})
	case "version":
		sort.SliceStable(packs, func(i, j int) bool {
			return flexver.Less(packs[j].Version.String(), packs[i].Version.String())
		})
	case "modified":
		sort.SliceStable(packs, func(i, j int) bool {
			return packs[i].ModifiedAt > packs[j].ModifiedAt
		})
	default:
		return fmt.Errorf("invalid sort %q, must be one of name, version or modified", by)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type packSummary struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
	Modified string `json:"modified" yaml:"modified"`
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all the texture packs in the store",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := cmdshared.LoadRepository()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		packs, err := repo.ListPacks(cmd.Context())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := sortPacks(packs, viper.GetString("list.sort")); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		summaries := make([]packSummary, len(packs))
		for i, p := range packs {
			summaries[i] = packSummary{
				ID:       p.ID,
				Name:     p.Name,
				Version:  p.Version.String(),
				Modified: p.Modified().Format("2006-01-02 15:04:05"),
			}
		}

		switch format := viper.GetString("list.format"); format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			err = enc.Encode(summaries)
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			err = enc.Encode(summaries)
			if err == nil {
				err = enc.Close()
			}
		case "text", "":
			if len(summaries) == 0 {
				fmt.Println("No packs yet, run 'texwiz create' to make one!")
			}
			for _, s := range summaries {
				if viper.GetBool("list.long") {
					fmt.Printf("%s  %s (%s, modified %s)\n", s.ID, s.Name, s.Version, s.Modified)
				} else {
					fmt.Printf("%s  %s\n", shortID(s.ID), s.Name)
				}
			}
		default:
			err = fmt.Errorf("invalid format %q, must be one of text, json or yaml", format)
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	_ = viper.BindPFlag("list.format", cmdshared.EnumVarP(listCmd.Flags(), cmdshared.NewEnum("text", "text", "json", "yaml"), "format", "f", "Output format"))
	_ = viper.BindPFlag("list.sort", cmdshared.EnumVarP(listCmd.Flags(), cmdshared.NewEnum("name", "name", "version", "modified"), "sort", "s", "Sort order"))
	listCmd.Flags().BoolP("long", "l", false, "Print full IDs, versions and modification times")
	_ = viper.BindPFlag("list.long", listCmd.Flags().Lookup("long"))
}
