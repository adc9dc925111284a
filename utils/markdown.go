package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/viper"
)

// markdownTitle gives each page a front matter title, e.g. texwiz_settings_show.md -> "texwiz settings show"
func markdownTitle(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return fmt.Sprintf("---\ntitle: %q\n---\n\n", strings.ReplaceAll(name, "_", " "))
}

// markdownCmd represents the markdown command
var markdownCmd = &cobra.Command{
	Use:     "markdown",
	Short:   "Generate markdown documentation for every command",
	Aliases: []string{"md"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		outDir := viper.GetString("utils.markdown.dir")
		err := os.MkdirAll(outDir, os.ModePerm)
		if err != nil {
			fmt.Printf("Error creating directory: %s\n", err)
			os.Exit(1)
		}
		root := cmd.Root()
		root.DisableAutoGenTag = true

		prepend := func(string) string { return "" }
		if viper.GetBool("utils.markdown.front-matter") {
			prepend = markdownTitle
		}
		err = doc.GenMarkdownTreeCustom(root, outDir, prepend, func(link string) string { return link })
		if err != nil {
			fmt.Printf("Error generating markdown: %s\n", err)
			os.Exit(1)
		}
		fmt.Println("Generated markdown in " + outDir)
	},
}

func init() {
	utilsCmd.AddCommand(markdownCmd)

	markdownCmd.Flags().String("dir", ".", "The destination directory to save docs in")
	_ = viper.BindPFlag("utils.markdown.dir", markdownCmd.Flags().Lookup("dir"))
	markdownCmd.Flags().Bool("front-matter", false, "Prepend a front matter title to every page")
	_ = viper.BindPFlag("utils.markdown.front-matter", markdownCmd.Flags().Lookup("front-matter"))
}
