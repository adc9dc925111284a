package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
)

// imageSource resolves an image argument: a library: locator when a library is
// configured, otherwise a local file
func imageSource(repo *core.Repository, arg string) (core.ImageSource, error) {
	if strings.HasPrefix(arg, core.LibraryScheme) {
		if repo.Library == nil {
			return nil, fmt.Errorf("no base library configured for %s", arg)
		}
		return repo.Library.Source(arg)
	}
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", arg)
	}
	return core.FileSource(arg), nil
}

// replaceCmd represents the replace command
var replaceCmd = &cobra.Command{
	Use:   "replace [pack] [path] [image]",
	Short: "Replace (or create) a texture at a path in the pack",
	Long: `Replace (or create) a texture at a path relative to the pack root, such as textures/blocks/stone.png.
The path must name an image inside one of the layout's category directories.
The image is re-encoded as PNG at its original size.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])
		src, err := imageSource(repo, args[2])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		dest, err := repo.ReplaceTexture(cmd.Context(), pack.ID, args[1], src)
		if err != nil {
			fmt.Printf("Failed to replace texture: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Texture saved to %s\n", dest)
		cmdshared.AutoBackup(cmd.Context(), repo, pack.ID)
	},
}

func init() {
	rootCmd.AddCommand(replaceCmd)
}
