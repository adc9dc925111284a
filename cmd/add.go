package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gobwas/glob"
	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// expandImageArgs turns the image arguments into a list of files. Directories are
// searched (non-recursively) for names matching pattern.
func expandImageArgs(args []string, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if e.Type().IsRegular() && g.Match(e.Name()) {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [pack] [category] [image or directory]...",
	Short: "Import new textures into a category",
	Long: `Import new textures into a category. Each image gets a fresh texture_<timestamp>.png name,
so existing textures are never overwritten. Directories are expanded using --glob.`,
	Args: cobra.MinimumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		repo, pack := cmdshared.LoadPackArg(cmd.Context(), args[0])
		cat, err := repo.Layout.Category(args[1])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		files, err := expandImageArgs(args[2:], viper.GetString("add.glob"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Println("No images found!")
			os.Exit(1)
		}

		jobs := viper.GetInt("add.jobs")
		if jobs < 1 {
			jobs = 1
		}
		swg := sizedwaitgroup.New(jobs)
		var mu sync.Mutex
		failed := 0
		for _, file := range files {
			swg.Add()
			go func(file string) {
				defer swg.Done()
				dest, err := repo.AddTexture(cmd.Context(), pack.ID, cat, core.FileSource(file))
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
					fmt.Printf("Failed to add %s: %s\n", file, err)
					return
				}
				fmt.Printf("%s added as %s\n", file, filepath.Base(dest))
			}(file)
		}
		swg.Wait()

		fmt.Printf("Added %d of %d textures to %s\n", len(files)-failed, len(files), cat)
		if failed < len(files) {
			cmdshared.AutoBackup(cmd.Context(), repo, pack.ID)
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("glob", "g", "*.{png,jpg,jpeg,PNG,JPG,JPEG}", "Pattern selecting images when a directory is given")
	_ = viper.BindPFlag("add.glob", addCmd.Flags().Lookup("glob"))
	addCmd.Flags().IntP("jobs", "j", 4, "How many images to import at once")
	_ = viper.BindPFlag("add.jobs", addCmd.Flags().Lookup("jobs"))
}
