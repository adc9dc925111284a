package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// filterTextures keeps the textures whose display name or file name fuzzily matches
// query, best matches first
func filterTextures(items []core.TextureItem, query string) []core.TextureItem {
	if query == "" {
		return items
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.DisplayName + " " + item.Name
	}
	matches := fuzzy.Find(query, names)
	out := make([]core.TextureItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}

// matchTextures keeps the textures whose file name matches expr. Lookarounds and
// backreferences are allowed.
func matchTextures(items []core.TextureItem, expr string) ([]core.TextureItem, error) {
	if expr == "" {
		return items, nil
	}
	re, err := regexp2.Compile(expr, regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("invalid --match expression: %w", err)
	}
	re.MatchTimeout = time.Second
	out := make([]core.TextureItem, 0, len(items))
	for _, item := range items {
		ok, err := re.MatchString(item.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// texturesCmd represents the textures command
var texturesCmd = &cobra.Command{
	Use:     "textures [pack] [category]",
	Short:   "List the textures of a category",
	Aliases: []string{"tex"},
	Args:    cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])

		var cat core.Category
		var err error
		if len(args) > 1 {
			cat, err = repo.Layout.Category(args[1])
		} else if viper.GetBool("non-interactive") {
			cat = repo.Layout.Categories[0]
		} else {
			cat, err = cmdshared.ChooseCategory(repo.Layout, "Choose a category:")
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		items, err := repo.ListTextures(cmd.Context(), pack.ID, cat)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if viper.GetBool("textures.custom") {
			i := 0
			for _, item := range items {
				if item.Custom {
					items[i] = item
					i++
				}
			}
			items = items[:i]
		}
		items, err = matchTextures(items, viper.GetString("textures.match"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		items = filterTextures(items, viper.GetString("textures.search"))

		if viper.GetBool("textures.json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(items); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			return
		}
		if len(items) == 0 {
			fmt.Printf("No textures in %s\n", cat)
			return
		}
		for _, item := range items {
			marker := " "
			if item.Custom {
				marker = "*"
			}
			fmt.Printf("%s %-32s %s\n", marker, item.DisplayName, item.Path)
		}
	},
}

func init() {
	rootCmd.AddCommand(texturesCmd)

	texturesCmd.Flags().StringP("search", "s", "", "Only show textures fuzzily matching this text")
	_ = viper.BindPFlag("textures.search", texturesCmd.Flags().Lookup("search"))
	texturesCmd.Flags().StringP("match", "m", "", "Only show textures whose file name matches this regular expression")
	_ = viper.BindPFlag("textures.match", texturesCmd.Flags().Lookup("match"))
	texturesCmd.Flags().BoolP("custom", "c", false, "Only show textures stored in the pack")
	_ = viper.BindPFlag("textures.custom", texturesCmd.Flags().Lookup("custom"))
	texturesCmd.Flags().Bool("json", false, "Print the textures as JSON")
	_ = viper.BindPFlag("textures.json", texturesCmd.Flags().Lookup("json"))
}
